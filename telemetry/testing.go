package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestTelemetry is an enabled Telemetry backed by in-memory span and metric readers.
type TestTelemetry struct {
	*TelemetryImpl
	mr    *sdkmetric.ManualReader
	spans *tracetest.SpanRecorder
}

// NewTestTelemetry creates a new TestTelemetry instance for testing.
// It also installs its providers as the otel globals.
func NewTestTelemetry(t *testing.T) *TestTelemetry {
	t.Helper()

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	otel.SetTracerProvider(tp)

	mr := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(mr))
	otel.SetMeterProvider(mp)

	impl, err := newTelemetry(tp, mp, "test", "test")
	if err != nil {
		t.Fatalf("create test telemetry: %v", err)
	}
	impl.enabled = true

	return &TestTelemetry{
		TelemetryImpl: impl,
		mr:            mr,
		spans:         spans,
	}
}

// Shutdown gracefully shuts down the test telemetry providers
func (tt *TestTelemetry) Shutdown(ctx context.Context) error {
	return tt.TelemetryImpl.Shutdown(ctx)
}

// GetReader returns the metric reader for testing
func (tt *TestTelemetry) GetReader() *sdkmetric.ManualReader {
	return tt.mr
}

// EndedSpans returns the spans finished so far.
func (tt *TestTelemetry) EndedSpans() []sdktrace.ReadOnlySpan {
	return tt.spans.Ended()
}
