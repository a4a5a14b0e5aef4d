package upload

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/shipseva/docupload/internal/logging"
	"github.com/shipseva/docupload/internal/netx"
)

type State int

const (
	StateEmpty State = iota
	StateSelected
	StateAuthorizing
	StateTransferring
	StateUploaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSelected:
		return "selected"
	case StateAuthorizing:
		return "authorizing"
	case StateTransferring:
		return "transferring"
	case StateUploaded:
		return "uploaded"
	case StateFailed:
		return "failed"
	default:
		return "empty"
	}
}

var (
	// ErrNoFile is returned by Upload on a task without a file.
	ErrNoFile = errors.New("no file selected")

	// ErrSuperseded is returned by an Upload whose task was removed or given
	// a new file while it ran.
	ErrSuperseded = errors.New("upload superseded")
)

// Authorizer requests upload grants.
type Authorizer interface {
	RequestAuthorization(ctx context.Context, req Request) (*Grant, error)
}

// Transferer PUTs bytes to a grant's upload URL.
type Transferer interface {
	Put(ctx context.Context, url string, body io.Reader, size int64, contentType string, onProgress netx.ProgressFunc) error
}

// Snapshot is a copy of a task's visible state.
type Snapshot struct {
	Name       string
	State      State
	FileName   string
	FileSize   int64
	Progress   int
	PreviewRef string
	RemoteURL  string
	LastError  string
	Err        error
}

type Observer func(Snapshot)

type TaskOptions struct {
	// Name identifies the field in snapshots and logs.
	Name         string
	DocumentType string
	Folder       string
	Policy       Policy
	Authorizer   Authorizer
	Transferer   Transferer
	// Previewer is optional; only image files get previews.
	Previewer Previewer
	Logger    logging.Logger
}

// Task is the upload state machine of one form field.
type Task struct {
	opts TaskOptions
	log  logging.Logger
	now  func() time.Time

	mu        sync.Mutex
	state     State
	file      *File
	preview   string
	progress  int
	lastErr   error
	remoteURL string
	gen       uint64
	cancel    context.CancelFunc
	observers []Observer

	notifyMu sync.Mutex
}

func NewTask(opts TaskOptions) *Task {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Task{opts: opts, log: log.With("field", opts.Name), now: time.Now}
}

func (t *Task) Name() string { return t.opts.Name }

func (t *Task) DocumentType() string { return t.opts.DocumentType }

// Observe registers fn for every state or progress change.
func (t *Task) Observe(fn Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Task) snapshotLocked() Snapshot {
	s := Snapshot{
		Name:       t.opts.Name,
		State:      t.state,
		Progress:   t.progress,
		PreviewRef: t.preview,
		RemoteURL:  t.remoteURL,
		Err:        t.lastErr,
	}
	if t.file != nil {
		s.FileName = t.file.Name
		s.FileSize = t.file.Size
	}
	if t.lastErr != nil {
		s.LastError = t.lastErr.Error()
	}
	return s
}

// HasPendingFile reports whether the task holds a file that is not uploaded.
func (t *Task) HasPendingFile() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file != nil && t.state != StateUploaded
}

// Select validates f and, if it passes, makes it the task's file. An invalid
// file leaves the task untouched and is reported as a *ValidationError.
func (t *Task) Select(f *File) error {
	if res := Validate(f, t.opts.Policy); !res.Valid {
		return res.Err()
	}

	var preview string
	if t.opts.Previewer != nil && f.IsImage() {
		ref, err := t.opts.Previewer.Create(f)
		if err != nil {
			t.log.Warn(context.Background(), "preview failed", "file", f.Name, "error", err)
		} else {
			preview = ref
		}
	}

	// Whichever preview is installed under the lock is the one a later
	// Select or Remove revokes; the displaced one is revoked here.
	t.mu.Lock()
	t.abortLocked()
	old := t.preview
	t.state = StateSelected
	t.file = f
	t.preview = preview
	t.progress = 0
	t.lastErr = nil
	t.remoteURL = ""
	snap, obs := t.snapshotLocked(), t.observersLocked()
	t.mu.Unlock()

	t.revoke(old)
	t.notify(obs, snap)
	return nil
}

// Remove clears the task from any state, cancelling an in-flight upload.
func (t *Task) Remove() {
	t.mu.Lock()
	t.abortLocked()
	old := t.preview
	t.state = StateEmpty
	t.file = nil
	t.preview = ""
	t.progress = 0
	t.lastErr = nil
	t.remoteURL = ""
	snap, obs := t.snapshotLocked(), t.observersLocked()
	t.mu.Unlock()

	t.revoke(old)
	t.notify(obs, snap)
}

// Upload authorizes and transfers the selected file. It is valid from
// Selected and Failed; while an upload is already running, and once
// uploaded, it returns nil without doing anything.
func (t *Task) Upload(ctx context.Context) error {
	t.mu.Lock()
	switch t.state {
	case StateAuthorizing, StateTransferring, StateUploaded:
		t.mu.Unlock()
		return nil
	case StateEmpty:
		t.mu.Unlock()
		return ErrNoFile
	}

	t.gen++
	gen := t.gen
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	file := t.file
	t.state = StateAuthorizing
	t.progress = 0
	t.lastErr = nil
	snap, obs := t.snapshotLocked(), t.observersLocked()
	t.mu.Unlock()
	defer cancel()

	t.notify(obs, snap)

	grant, err := t.opts.Authorizer.RequestAuthorization(ctx, Request{
		FileName:     file.Name,
		FileType:     file.ContentType,
		FileSize:     file.Size,
		DocumentType: t.opts.DocumentType,
		FolderPath:   t.opts.Folder,
	})
	if err != nil {
		return t.fail(ctx, gen, err)
	}

	if !t.transition(gen, StateTransferring, func() {}) {
		return ErrSuperseded
	}

	if grant.Expired(t.now()) {
		return t.fail(ctx, gen, netx.ExpiredError())
	}

	body, err := file.Open()
	if err != nil {
		return t.fail(ctx, gen, err)
	}
	defer body.Close()

	err = t.opts.Transferer.Put(ctx, grant.UploadURL, body, file.Size, file.ContentType, func(p netx.Progress) {
		t.transition(gen, StateTransferring, func() { t.progress = p.Percent })
	})
	if err != nil {
		return t.fail(ctx, gen, err)
	}

	if !t.transition(gen, StateUploaded, func() {
		t.progress = 100
		t.remoteURL = grant.FileURL
	}) {
		return ErrSuperseded
	}

	t.log.Info(ctx, "document uploaded", "url", grant.FileURL)
	return nil
}

// Retry re-runs Upload with the file kept from the failed attempt.
func (t *Task) Retry(ctx context.Context) error {
	return t.Upload(ctx)
}

// transition applies mutate and moves to state if gen is still the current
// upload. It reports whether the write happened.
func (t *Task) transition(gen uint64, state State, mutate func()) bool {
	t.mu.Lock()
	if t.gen != gen {
		t.mu.Unlock()
		return false
	}
	t.state = state
	mutate()
	snap, obs := t.snapshotLocked(), t.observersLocked()
	t.mu.Unlock()

	t.notify(obs, snap)
	return true
}

func (t *Task) fail(ctx context.Context, gen uint64, err error) error {
	if !t.transition(gen, StateFailed, func() { t.lastErr = err }) {
		return ErrSuperseded
	}
	t.log.Warn(ctx, "upload failed", "error", err)
	return err
}

func (t *Task) abortLocked() {
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Task) observersLocked() []Observer {
	return append([]Observer(nil), t.observers...)
}

func (t *Task) notify(obs []Observer, snap Snapshot) {
	if len(obs) == 0 {
		return
	}
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()
	for _, fn := range obs {
		fn(snap)
	}
}

func (t *Task) revoke(ref string) {
	if ref == "" || t.opts.Previewer == nil {
		return
	}
	if err := t.opts.Previewer.Revoke(ref); err != nil {
		t.log.Warn(context.Background(), "revoke preview failed", "ref", ref, "error", err)
	}
}
