// Package netx is the object transfer engine: a single HTTP PUT of a file's
// bytes to a presigned storage URL with progress reporting.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/shipseva/docupload/internal/common"
	"github.com/shipseva/docupload/internal/logging"
)

// Progress is one progress tick of a transfer.
type Progress struct {
	Loaded  int64
	Total   int64
	Percent int
}

type ProgressFunc func(Progress)

type FailureReason string

const (
	ReasonStatus    FailureReason = "status"
	ReasonNetwork   FailureReason = "network"
	ReasonCancelled FailureReason = "cancelled"
	ReasonExpired   FailureReason = "expired"
)

// TransferError describes why a PUT did not succeed. It matches
// common.ErrAuthorizationExpired for ReasonExpired and common.ErrTransfer
// otherwise.
type TransferError struct {
	Reason     FailureReason
	StatusCode int
	Body       string
	Err        error
}

func (e *TransferError) Error() string {
	switch e.Reason {
	case ReasonStatus:
		return fmt.Sprintf("upload failed with status: %d", e.StatusCode)
	case ReasonCancelled:
		return "upload was cancelled"
	case ReasonExpired:
		return "upload authorization expired"
	default:
		return "network error during upload"
	}
}

func (e *TransferError) Unwrap() []error {
	sentinel := common.ErrTransfer
	if e.Reason == ReasonExpired {
		sentinel = common.ErrAuthorizationExpired
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

// ExpiredError is returned without touching the network when a grant has
// already lapsed.
func ExpiredError() *TransferError {
	return &TransferError{Reason: ReasonExpired}
}

type Uploader struct {
	client *http.Client
	log    logging.Logger
}

// NewUploader returns an Uploader. No timeout is imposed beyond the one the
// caller's context or client carries.
func NewUploader(client *http.Client, log logging.Logger) *Uploader {
	if client == nil {
		client = &http.Client{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Uploader{client: client, log: log}
}

// Put uploads size bytes from body to url with the given content type.
// onProgress (may be nil) is called after every chunk handed to the
// transport. A nil return means storage answered 2xx; any other outcome is a
// *TransferError.
func (u *Uploader) Put(ctx context.Context, url string, body io.Reader, size int64, contentType string, onProgress ProgressFunc) error {
	var reader io.Reader = http.NoBody
	if size > 0 {
		reader = &progressReader{r: body, total: size, fn: onProgress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, reader)
	if err != nil {
		return &TransferError{Reason: ReasonNetwork, Err: err}
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &TransferError{Reason: ReasonCancelled, Err: ctx.Err()}
		}
		u.log.Warn(ctx, "object transfer failed", "error", err)
		return &TransferError{Reason: ReasonNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if size == 0 && onProgress != nil {
			onProgress(Progress{Percent: 100})
		}
		return nil
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	text := string(b)

	if resp.StatusCode == http.StatusForbidden && isExpiryBody(text) {
		return &TransferError{Reason: ReasonExpired, StatusCode: resp.StatusCode, Body: text}
	}

	u.log.Warn(ctx, "storage rejected upload", "status", resp.StatusCode)
	return &TransferError{
		Reason:     ReasonStatus,
		StatusCode: resp.StatusCode,
		Body:       text,
		Err:        errors.New(resp.Status),
	}
}

// S3 and MinIO both answer "Request has expired" (AccessDenied) once the
// X-Amz-Expires window has passed.
func isExpiryBody(body string) bool {
	return strings.Contains(strings.ToLower(body), "request has expired")
}

type progressReader struct {
	r      io.Reader
	loaded int64
	total  int64
	fn     ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		if p.fn != nil {
			p.fn(Progress{Loaded: p.loaded, Total: p.total, Percent: percent(p.loaded, p.total)})
		}
	}
	return n, err
}

func percent(loaded, total int64) int {
	if total <= 0 {
		return 100
	}
	v := int(math.Round(float64(loaded) / float64(total) * 100))
	if v > 100 {
		return 100
	}
	return v
}
