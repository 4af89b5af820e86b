// Package logging defines the structured-logging interface the server and
// client code log through. The interface keeps the backend swappable; the
// shipped implementation wraps slog.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are key-value
// pairs:
//
//	log.Info(ctx, "Message sent", "from", fromUsername, "to", toUsername)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key-value pairs,
	// e.g. With("module", "http_server").
	With(args ...any) Logger
}
