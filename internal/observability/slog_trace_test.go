package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/geocoder89/homage/internal/actorctx"
	"github.com/geocoder89/homage/internal/domain/user"
	"go.opentelemetry.io/otel/trace"
)

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return rec
}

func TestTraceHandlerAddsUserAndSpan(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewTraceHandler(slog.NewJSONHandler(&buf, nil)))

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{2},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = actorctx.WithUser(ctx, user.User{ID: 42, Name: "Alice"})

	log.InfoContext(ctx, "http_request")

	rec := decodeRecord(t, &buf)
	if rec["user_id"] != float64(42) {
		t.Fatalf("expected user_id 42, got %v", rec["user_id"])
	}
	if rec["trace_id"] != sc.TraceID().String() {
		t.Fatalf("expected trace_id %s, got %v", sc.TraceID(), rec["trace_id"])
	}
	if rec["span_id"] != sc.SpanID().String() {
		t.Fatalf("expected span_id %s, got %v", sc.SpanID(), rec["span_id"])
	}
}

func TestTraceHandlerAnonymousRequest(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewTraceHandler(slog.NewJSONHandler(&buf, nil)))

	log.InfoContext(context.Background(), "http_request")

	rec := decodeRecord(t, &buf)
	for _, k := range []string{"user_id", "trace_id", "span_id"} {
		if _, ok := rec[k]; ok {
			t.Fatalf("expected no %s on an anonymous untraced record, got %v", k, rec[k])
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		env       string
		debugOn   bool
		infoShown bool
	}{
		{"dev", true, true},
		{"prod", false, true},
		{"test", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			log := newLogger(&buf, tt.env)

			if got := log.Enabled(context.Background(), slog.LevelDebug); got != tt.debugOn {
				t.Fatalf("debug enabled = %v, want %v", got, tt.debugOn)
			}

			log.Info("token_issued")
			if shown := buf.Len() > 0; shown != tt.infoShown {
				t.Fatalf("info shown = %v, want %v", shown, tt.infoShown)
			}
			if tt.infoShown && decodeRecord(t, &buf)["env"] != tt.env {
				t.Fatalf("expected env attr %q in %s", tt.env, buf.String())
			}
		})
	}
}
