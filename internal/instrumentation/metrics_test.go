package instrumentation

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func newTestMetrics(t *testing.T, detailedLabels bool) *Metrics {
	t.Helper()
	provider := sdkmetric.NewMeterProvider()
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	m, err := NewMetrics(provider.Meter("test"), detailedLabels)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return m
}

func TestNewMetrics(t *testing.T) {
	m := newTestMetrics(t, false)
	if m == nil {
		t.Fatal("NewMetrics() returned nil")
	}
}

func TestRecordingDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	m := newTestMetrics(t, true)

	m.RecordHTTPRequest(ctx, "POST", "/", 200, 50*time.Millisecond)
	m.RecordTask(ctx, "completed", "", 2*time.Second)
	m.RecordTask(ctx, "failed", "ModelTimeout", 60*time.Second)
	m.RecordModelCall(ctx, "claude-sonnet-4", StatusSuccess, time.Second)
	m.RecordToolInvocation(ctx, "calendar_list_events", StatusSuccess, 100*time.Millisecond)
	m.RecordToolInvocationWithAccount(ctx, "calendar_list_events", StatusError, "work", 100*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceCalendar, "list", StatusSuccess, 80*time.Millisecond)
	m.IncrementActiveStreams(ctx)
	m.DecrementActiveStreams(ctx)
}

func TestNoopMetricsDoesNotPanic(t *testing.T) {
	// A zero-value Metrics is the no-op recorder returned when
	// instrumentation is disabled.
	ctx := context.Background()
	m := &Metrics{}

	m.RecordHTTPRequest(ctx, "GET", "/healthz", 200, time.Millisecond)
	m.RecordTask(ctx, "completed", "", time.Second)
	m.RecordModelCall(ctx, "claude-sonnet-4", StatusSuccess, time.Second)
	m.RecordToolInvocation(ctx, "calendar_list_reminders", StatusSuccess, time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceTasks, "list", StatusError, time.Millisecond)
	m.IncrementActiveStreams(ctx)
	m.DecrementActiveStreams(ctx)
}
