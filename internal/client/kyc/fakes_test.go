package kyc

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/shipseva/docupload/internal/client/upload"
	"github.com/shipseva/docupload/internal/logging"
	"github.com/shipseva/docupload/internal/netx"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	pdfBytes = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
)

type fakeAuth struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeAuth) RequestAuthorization(_ context.Context, req upload.Request) (*upload.Grant, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[req.DocumentType]++
	f.mu.Unlock()

	return &upload.Grant{
		UploadURL: "https://storage.test/" + req.DocumentType + "/" + req.FileName + "?sig=1",
		FileURL:   "https://cdn.test/" + req.FolderPath + "/" + req.DocumentType + "/" + req.FileName,
		ExpiresIn: 3600,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeAuth) count(documentType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[documentType]
}

// fakeStorage fails PUTs whose URL contains a string in failing.
type fakeStorage struct {
	mu        sync.Mutex
	failing   map[string]bool
	active    int
	maxActive int
	delay     time.Duration
}

func (f *fakeStorage) setFailing(documentType string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing == nil {
		f.failing = make(map[string]bool)
	}
	f.failing[documentType] = fail
}

func (f *fakeStorage) Put(ctx context.Context, url string, body io.Reader, size int64, contentType string, onProgress netx.ProgressFunc) error {
	_, _ = io.Copy(io.Discard, body)

	f.mu.Lock()
	f.active++
	f.maxActive = max(f.maxActive, f.active)
	fail := false
	for k, v := range f.failing {
		if v && strings.Contains(url, "/"+k+"/") {
			fail = true
		}
	}
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	f.active--
	f.mu.Unlock()

	if fail {
		return &netx.TransferError{Reason: netx.ReasonStatus, StatusCode: 503}
	}
	if onProgress != nil {
		onProgress(netx.Progress{Loaded: size, Total: size, Percent: 100})
	}
	return nil
}

type fakeBackend struct {
	mu      sync.Mutex
	created []Submission
	updates map[string][]Update
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (b *fakeBackend) Create(ctx context.Context, s Submission) (*Response, error) {
	b.mu.Lock()
	b.created = append(b.created, s)
	err := b.err
	b.mu.Unlock()

	if b.entered != nil {
		b.entered <- struct{}{}
	}
	if b.block != nil {
		<-b.block
	}
	if err != nil {
		return nil, err
	}
	return &Response{Success: true, Message: "KYC submitted"}, nil
}

func (b *fakeBackend) Update(ctx context.Context, id string, u Update) (*Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.updates == nil {
		b.updates = make(map[string][]Update)
	}
	b.updates[id] = append(b.updates[id], u)
	if b.err != nil {
		return nil, b.err
	}
	return &Response{Success: true, Message: "KYC updated"}, nil
}

func (b *fakeBackend) createCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.created)
}

type fakeRecorder struct {
	mu       sync.Mutex
	uploads  []string
	outcomes []bool
}

func (r *fakeRecorder) RecordUpload(_ context.Context, attempt, field, documentType, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = append(r.uploads, field)
	return nil
}

func (r *fakeRecorder) RecordOutcome(_ context.Context, attempt string, submitted bool, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, submitted)
	return nil
}

func newTestForm(auth upload.Authorizer, storage upload.Transferer) *Form {
	return NewForm(FormOptions{
		Folder:     "kyc",
		Authorizer: auth,
		Transferer: storage,
		Logger:     logging.Nop(),
	})
}

func validScalars() Scalars {
	return Scalars{
		PANNumber:    "ABCDE1234F",
		AadharNumber: "123412341234",
	}
}

// fillMandatory selects a file into each mandatory field.
func fillMandatory(form *Form) error {
	if err := form.Select(FieldPanFront, upload.FromBytes("pan.jpg", "image/jpeg", pngBytes)); err != nil {
		return err
	}
	if err := form.Select(FieldAadharFront, upload.FromBytes("front.png", "image/png", pngBytes)); err != nil {
		return err
	}
	return form.Select(FieldAadharBack, upload.FromBytes("back.png", "image/png", pngBytes))
}
