// Package session holds the bearer session of the current user.
package session

import (
	"context"
	"sync"
)

// Session is the injected view of the logged in user that API clients need.
type Session interface {
	Token() string
	Logout(ctx context.Context)
	LoggedOut() bool
}

// Memory is an in-process Session. OnLogout, if set, is called once when the
// session is dropped.
type Memory struct {
	mu        sync.RWMutex
	token     string
	loggedOut bool
	onLogout  func(ctx context.Context)
}

func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

// OnLogout registers a hook run on the first Logout.
func (m *Memory) OnLogout(fn func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = fn
}

func (m *Memory) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Login replaces the token and revives a logged out session.
func (m *Memory) Login(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.loggedOut = token == ""
}

func (m *Memory) Logout(ctx context.Context) {
	m.mu.Lock()
	if m.loggedOut {
		m.mu.Unlock()
		return
	}
	m.loggedOut = true
	m.token = ""
	hook := m.onLogout
	m.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
}

func (m *Memory) LoggedOut() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loggedOut
}
