package telemetry

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestInitTracer_ExportsSpans(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	var buf bytes.Buffer
	shutdown, err := initTracer("interview-coach-test", &buf, logger)
	if err != nil {
		t.Fatalf("initTracer() error = %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "session.start")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}
	if !strings.Contains(buf.String(), "session.start") {
		t.Errorf("exported spans = %q, want session.start", buf.String())
	}
	if !strings.Contains(buf.String(), "interview-coach-test") {
		t.Error("exported spans are missing the service name")
	}
}

func TestDisabled(t *testing.T) {
	shutdown := Disabled(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}
