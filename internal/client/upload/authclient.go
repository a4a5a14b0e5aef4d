package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shipseva/docupload/internal/client/session"
	"github.com/shipseva/docupload/internal/common"
	"github.com/shipseva/docupload/internal/logging"
)

// Request describes the object a client wants to write.
type Request struct {
	FileName     string `json:"fileName"`
	FileType     string `json:"fileType"`
	FileSize     int64  `json:"fileSize"`
	DocumentType string `json:"documentType"`
	FolderPath   string `json:"folderPath,omitempty"`
}

// Grant is a time-boxed write authorization for one object.
type Grant struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	ExpiresIn int    `json:"expiresIn"`

	// ExpiresAt is receipt time plus ExpiresIn.
	ExpiresAt time.Time `json:"-"`
}

// Expired reports whether the grant has lapsed at now.
func (g *Grant) Expired(now time.Time) bool {
	return !g.ExpiresAt.IsZero() && !now.Before(g.ExpiresAt)
}

// AuthorizationError is a failed authorization request. Kind is
// common.ErrValidation, common.ErrConfiguration, common.ErrUnauthorized or
// common.ErrTransfer.
type AuthorizationError struct {
	Kind       error
	StatusCode int
	Message    string
	Err        error
}

func (e *AuthorizationError) Error() string { return e.Message }

func (e *AuthorizationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

const defaultAuthorizationMessage = "Failed to get pre-signed URL"

type AuthClient struct {
	endpoint string
	client   *http.Client
	session  session.Session
	log      logging.Logger
	now      func() time.Time
}

// NewAuthClient returns a client for the authorization endpoint. sess may be
// nil when the intermediary is not token protected.
func NewAuthClient(endpoint string, client *http.Client, sess session.Session, log logging.Logger) *AuthClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &AuthClient{endpoint: endpoint, client: client, session: sess, log: log, now: time.Now}
}

func (c *AuthClient) RequestAuthorization(ctx context.Context, req Request) (*Grant, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			httpReq.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
		}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.Warn(ctx, "authorization request failed", "error", err)
		return nil, &AuthorizationError{Kind: common.ErrTransfer, Message: defaultAuthorizationMessage, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &AuthorizationError{Kind: common.ErrTransfer, StatusCode: resp.StatusCode, Message: defaultAuthorizationMessage, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(ctx, resp.StatusCode, data)
	}

	var g Grant
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, &AuthorizationError{Kind: common.ErrTransfer, StatusCode: resp.StatusCode, Message: defaultAuthorizationMessage, Err: err}
	}
	if g.UploadURL == "" || g.FileURL == "" {
		return nil, &AuthorizationError{Kind: common.ErrTransfer, StatusCode: resp.StatusCode, Message: defaultAuthorizationMessage,
			Err: errors.New("incomplete grant")}
	}

	g.ExpiresAt = c.now().Add(time.Duration(g.ExpiresIn) * time.Second)
	return &g, nil
}

func (c *AuthClient) statusError(ctx context.Context, status int, data []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(data, &body)

	msg := body.Error
	if msg == "" {
		msg = defaultAuthorizationMessage
	}

	e := &AuthorizationError{StatusCode: status, Message: msg}
	switch {
	case status == http.StatusBadRequest:
		e.Kind = common.ErrValidation
	case status == http.StatusUnauthorized:
		e.Kind = common.ErrUnauthorized
	case status >= 500 && isConfigurationMessage(msg):
		e.Kind = common.ErrConfiguration
	default:
		e.Kind = common.ErrTransfer
		e.Err = fmt.Errorf("authorization endpoint returned %d", status)
	}

	c.log.Warn(ctx, "authorization rejected", "status", status, "error", msg)
	return e
}

// The intermediary reports missing bucket, region or credentials with a
// "contact support" message on a 500.
func isConfigurationMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "contact support") || strings.Contains(m, "configuration is missing")
}
