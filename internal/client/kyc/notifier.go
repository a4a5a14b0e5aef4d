package kyc

import (
	"context"

	"github.com/shipseva/docupload/internal/logging"
)

// Notifier shows the outcome of backend calls to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier reports through a logger.
type LogNotifier struct {
	Log logging.Logger
}

func (n LogNotifier) Success(msg string) {
	n.Log.Info(context.Background(), msg)
}

func (n LogNotifier) Error(msg string) {
	n.Log.Error(context.Background(), msg)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}
