// Package server initializes and runs the upload authorization intermediary.
// It configures the storage presigner, handles graceful shutdown and starts
// the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/shipseva/docupload/internal/logging"
	"github.com/shipseva/docupload/internal/server/auth"
	"github.com/shipseva/docupload/internal/server/config"
	"github.com/shipseva/docupload/internal/server/httpapi"
	"github.com/shipseva/docupload/internal/server/presign"
)

// devTokenValidity bounds tokens printed by IssueToken.
const devTokenValidity = 24 * time.Hour

// IssueToken writes a bearer token for cfg.IssueToken signed with the
// configured secret.
func IssueToken(cfg *config.Config, w io.Writer) error {
	if cfg.SecretKey == "" {
		return errors.New("no JWT secret configured; bearer auth is disabled")
	}
	token, err := auth.GenerateToken(cfg.IssueToken, []byte(cfg.SecretKey), devTokenValidity)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, token)
	return err
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	service *presign.Service
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	p, err := presign.New(c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	return &App{config: c, logger: logger, service: presign.NewService(c, p, logger)}, nil
}

// Service exposes the authorization service for alternative front ends
// such as the Lambda adapter.
func (app *App) Service() *presign.Service {
	return app.service
}

func (app *App) Logger() logging.Logger {
	return app.logger
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.config, app.service, app.logger)
	s := httpapi.NewServer(app.config.ListenAddr, router, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.StorageDriver)
	if app.config.S3Bucket == "" || !app.config.HasCredentials() {
		app.logger.Warn(ctx, "storage is not fully configured; authorization requests will fail")
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
