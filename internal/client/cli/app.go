package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/shipseva/docupload/internal/client/config"
	"github.com/shipseva/docupload/internal/client/journal"
	"github.com/shipseva/docupload/internal/client/kyc"
	"github.com/shipseva/docupload/internal/client/session"
	"github.com/shipseva/docupload/internal/client/upload"
	"github.com/shipseva/docupload/internal/logging"
	"github.com/shipseva/docupload/internal/netx"
)

// submitter runs submissions; *kyc.Coordinator in production.
type submitter interface {
	Submit(ctx context.Context, form *kyc.Form) (*kyc.Outcome, error)
	Resubmit(ctx context.Context, rec kyc.Record, form *kyc.Form) (*kyc.Outcome, error)
	Retry(ctx context.Context, form *kyc.Form, field string) (*kyc.Outcome, error)
	Reset()
}

// backend is the read side of the KYC API.
type backend interface {
	Documents(ctx context.Context) ([]kyc.Record, error)
	Status(ctx context.Context) (*kyc.Response, error)
}

// history is the read side of the upload journal.
type history interface {
	Attempts(ctx context.Context, limit int) ([]journal.Attempt, error)
	Orphans(ctx context.Context) ([]journal.Orphan, error)
	Forget(ctx context.Context, attempt string) error
}

type App struct {
	config  *config.Config
	session *session.Memory
	form    *kyc.Form
	coord   submitter
	api     backend
	journal history
	reader  *bufio.Reader
	out     io.Writer
	log     logging.Logger
	closers []func() error
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewText(os.Stderr, c.LogLevel)

	j, err := journal.Open(ctx, c.JournalPath)
	if err != nil {
		log.Error(ctx, "error initializing journal", "path", c.JournalPath, "error", err)
		return nil, err
	}

	a := &App{
		config:  c,
		session: session.NewMemory(c.Token),
		journal: j,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		log:     log,
		closers: []func() error{j.Close},
	}
	a.session.OnLogout(func(ctx context.Context) {
		fmt.Fprintln(a.out, "Logged out, use 'login' to continue")
	})

	var previewer upload.Previewer
	if p, err := upload.NewTempPreviewer(""); err != nil {
		log.Warn(ctx, "previews disabled", "error", err)
	} else {
		previewer = p
	}

	apiClient := &http.Client{Timeout: c.RequestTimeout}

	a.form = kyc.NewForm(kyc.FormOptions{
		Folder:     c.Folder,
		Authorizer: upload.NewAuthClient(c.AuthEndpoint, apiClient, a.session, log),
		// Transfers are bounded by the grant, not by a client timeout.
		Transferer: netx.NewUploader(nil, log),
		Previewer:  previewer,
		Logger:     log,
	})
	watchProgress(a.form, a.out, isTerminal(int(os.Stdout.Fd())))

	api := kyc.NewAPI(c.KYCEndpoint, apiClient, a.session, printNotifier{w: a.out}, log)
	a.api = api
	a.coord = kyc.NewCoordinator(api, j, c.Concurrency, log)

	return a, nil
}

// Run executes args as a single command, or starts the REPL when args is
// empty. The returned error is the command's.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.Close()

	if len(args) > 0 {
		return a.exec(ctx, args[0], args[1:])
	}

	fmt.Fprintln(a.out, "shipseva-kyc (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
	return nil
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Token() != ""
}

// status is the REPL prompt decoration.
func (a *App) status() string {
	if !a.isLoggedIn() {
		return "(logged out)"
	}
	ready := 0
	for _, s := range a.form.Snapshots() {
		if s.State != upload.StateEmpty {
			ready++
		}
	}
	return fmt.Sprintf("(%d/%d documents)", ready, len(a.form.Fields()))
}

// printNotifier shows backend outcomes to the user.
type printNotifier struct {
	w io.Writer
}

func (n printNotifier) Success(msg string) { fmt.Fprintln(n.w, "OK:", msg) }
func (n printNotifier) Error(msg string)   { fmt.Fprintln(n.w, "Error:", msg) }
