// Package logging defines the structured-logging interface shared by the
// upload intermediary and the KYC client. The only implementation wraps
// log/slog; tests and optional collaborators use Nop.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "grant issued", "key", key, "expires_in", 3600)
type Logger interface {
	// Debug logs verbose diagnostics such as per-chunk upload progress.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a recoverable failure (rejected file, failed transfer).
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures that need operator attention.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
