// Package logging builds the structured logger shared by the server,
// the queue consumer and the CLI.
package logging

import (
	"log/slog"
	"os"
)

// New returns a slog.Logger configured for the given environment:
// JSON output in production, human-readable text elsewhere.
func New(env string) *slog.Logger {
	var h slog.Handler
	if env == "prod" || env == "production" {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(h)
}
