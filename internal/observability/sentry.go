package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// ReportError logs err and forwards it to Sentry when a client is configured.
func ReportError(ctx context.Context, msg string, err error, attrs ...any) {
	slog.Default().ErrorContext(ctx, msg, append(attrs, "err", err)...)

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}

	hub = hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("event", msg)
		for i := 0; i+1 < len(attrs); i += 2 {
			if key, ok := attrs[i].(string); ok {
				scope.SetExtra(key, attrs[i+1])
			}
		}
		hub.CaptureException(err)
	})
}

// ReportPanic forwards a recovered panic value to Sentry.
func ReportPanic(ctx context.Context, recovered any, attrs ...any) {
	slog.Default().ErrorContext(ctx, "panic_recovered", append(attrs, "panic", recovered)...)

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}

	hub.Clone().Recover(recovered)
}
