package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shipseva/docupload/internal/client/config"
	"github.com/shipseva/docupload/internal/client/journal"
	"github.com/shipseva/docupload/internal/client/kyc"
	"github.com/shipseva/docupload/internal/client/session"
	"github.com/shipseva/docupload/internal/client/upload"
	"github.com/shipseva/docupload/internal/logging"
	"github.com/shipseva/docupload/internal/netx"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type stubAuthorizer struct{}

func (stubAuthorizer) RequestAuthorization(_ context.Context, req upload.Request) (*upload.Grant, error) {
	return &upload.Grant{
		UploadURL: "https://storage.test/" + req.DocumentType + "?sig=1",
		FileURL:   "https://cdn.test/" + req.FolderPath + "/" + req.DocumentType + "/" + req.FileName,
		ExpiresIn: 3600,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

type stubStorage struct {
	mu   sync.Mutex
	fail map[string]bool
}

func (s *stubStorage) Put(_ context.Context, url string, body io.Reader, size int64, _ string, onProgress netx.ProgressFunc) error {
	_, _ = io.Copy(io.Discard, body)
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.fail {
		if strings.Contains(url, "/"+k+"?") {
			return &netx.TransferError{Reason: netx.ReasonStatus, StatusCode: 500}
		}
	}
	if onProgress != nil {
		onProgress(netx.Progress{Loaded: size, Total: size, Percent: 100})
	}
	return nil
}

type stubBackend struct {
	mu        sync.Mutex
	created   []kyc.Submission
	updated   map[string]kyc.Update
	records   []kyc.Record
	status    *kyc.Response
	createErr error
}

func (b *stubBackend) Create(_ context.Context, s kyc.Submission) (*kyc.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, s)
	if b.createErr != nil {
		return nil, b.createErr
	}
	return &kyc.Response{Success: true, Data: &kyc.ResponseData{KYCID: "kyc-9", Status: kyc.RecordPending}}, nil
}

func (b *stubBackend) Update(_ context.Context, id string, u kyc.Update) (*kyc.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.updated == nil {
		b.updated = make(map[string]kyc.Update)
	}
	b.updated[id] = u
	return &kyc.Response{Success: true}, nil
}

func (b *stubBackend) Documents(context.Context) ([]kyc.Record, error) {
	return b.records, nil
}

func (b *stubBackend) Status(context.Context) (*kyc.Response, error) {
	return b.status, nil
}

type testApp struct {
	*App
	out     *bytes.Buffer
	backend *stubBackend
	storage *stubStorage
	journal *journal.Journal
}

func newTestApp(t *testing.T, token string) *testApp {
	t.Helper()

	j, err := journal.Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	out := &bytes.Buffer{}
	storage := &stubStorage{fail: map[string]bool{}}
	backend := &stubBackend{}

	form := kyc.NewForm(kyc.FormOptions{
		Folder:     "kyc",
		Authorizer: stubAuthorizer{},
		Transferer: storage,
		Logger:     logging.Nop(),
	})

	app := &App{
		config:  &config.Config{},
		session: session.NewMemory(token),
		form:    form,
		coord:   kyc.NewCoordinator(backend, j, 2, logging.Nop()),
		api:     backend,
		journal: j,
		reader:  bufio.NewReader(strings.NewReader("")),
		out:     out,
		log:     logging.Nop(),
	}
	return &testApp{App: app, out: out, backend: backend, storage: storage, journal: j}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
