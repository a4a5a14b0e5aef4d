package kyc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shipseva/docupload/internal/client/session"
	"github.com/shipseva/docupload/internal/common"
	"github.com/shipseva/docupload/internal/logging"
)

const (
	defaultErrorMessage   = "An unexpected error occurred"
	defaultSuccessMessage = "Operation completed successfully"
)

// API is the KYC backend client. Every call carries the session token, a
// 401 ends the session unless AuthExempt is set, and every outcome except a
// successful read is passed to the notifier.
type API struct {
	AuthExempt bool

	base     string
	client   *http.Client
	session  session.Session
	notifier Notifier
	log      logging.Logger
}

// NewAPI returns a client for the KYC resource rooted at base, e.g.
// "https://api.example.com/kyc". notifier may be nil.
func NewAPI(base string, client *http.Client, sess session.Session, notifier Notifier, log logging.Logger) *API {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &API{
		base:     strings.TrimRight(base, "/"),
		client:   client,
		session:  sess,
		notifier: notifier,
		log:      log.With("module", "kyc_api"),
	}
}

// Create submits a new KYC record.
func (a *API) Create(ctx context.Context, s Submission) (*Response, error) {
	var out Response
	if err := a.do(ctx, http.MethodPost, "", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update patches record id with the groups present in u.
func (a *API) Update(ctx context.Context, id string, u Update) (*Response, error) {
	var out Response
	if err := a.do(ctx, http.MethodPatch, "/"+url.PathEscape(id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Documents lists the current user's records; empty when nothing was
// submitted yet.
func (a *API) Documents(ctx context.Context) ([]Record, error) {
	var out []Record
	if err := a.do(ctx, http.MethodGet, "/documents", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Status returns the summary status of the user's KYC.
func (a *API) Status(ctx context.Context) (*Response, error) {
	var out Response
	if err := a.do(ctx, http.MethodGet, "/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.session != nil {
		if token := a.session.Token(); token != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
		}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.notifier.Error(defaultErrorMessage)
		return &BackendError{Kind: common.ErrBackendSubmission, Message: defaultErrorMessage, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		a.notifier.Error(defaultErrorMessage)
		return &BackendError{Kind: common.ErrBackendSubmission, StatusCode: resp.StatusCode, Message: defaultErrorMessage, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && !a.AuthExempt && a.session != nil {
		a.log.Warn(ctx, "session rejected by backend, logging out", "path", path)
		a.session.Logout(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(data)
		a.notifier.Error(msg)

		kind := common.ErrBackendSubmission
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			kind = common.ErrUnauthorized
		case http.StatusNotFound:
			kind = common.ErrNotFound
		}
		return &BackendError{Kind: kind, StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			a.notifier.Error(defaultErrorMessage)
			return &BackendError{Kind: common.ErrBackendSubmission, StatusCode: resp.StatusCode, Message: defaultErrorMessage,
				Err: fmt.Errorf("decode response: %w", err)}
		}
	}

	if method != http.MethodGet {
		a.notifier.Success(successMessage(data))
	}

	return nil
}

// errorMessage picks data.message, then message, then error from a JSON
// error body.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Data    struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	if json.Unmarshal(data, &body) != nil {
		return defaultErrorMessage
	}
	switch {
	case body.Data.Message != "":
		return body.Data.Message
	case body.Message != "":
		return body.Message
	case body.Error != "":
		return body.Error
	}
	return defaultErrorMessage
}

func successMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Data    struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	if json.Unmarshal(data, &body) != nil {
		return defaultSuccessMessage
	}
	switch {
	case body.Message != "":
		return body.Message
	case body.Data.Message != "":
		return body.Data.Message
	}
	return defaultSuccessMessage
}
