package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger writes JSON lines to stdout. Debug is only on in dev, test runs
// stay quiet below warn.
func NewLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env)
}

func newLogger(w io.Writer, env string) *slog.Logger {
	level := slog.LevelInfo

	switch env {
	case "dev":
		level = slog.LevelDebug
	case "test":
		level = slog.LevelWarn
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTraceHandler(handler)).With("env", env)
}
