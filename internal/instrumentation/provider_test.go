package instrumentation

import (
	"context"
	"testing"
)

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{
		ServiceName: "test",
		Enabled:     false,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if provider.Enabled() {
		t.Error("Enabled() = true for disabled provider")
	}
	if provider.Metrics() == nil {
		t.Error("Metrics() = nil, want no-op recorder")
	}
	if provider.Tracer("test") == nil {
		t.Error("Tracer() = nil, want no-op tracer")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewProviderPrometheus(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test",
		ServiceVersion:  "0.0.1",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer func() {
		_ = provider.Shutdown(ctx)
	}()

	if !provider.Enabled() {
		t.Error("Enabled() = false")
	}
	if provider.Metrics() == nil {
		t.Fatal("Metrics() = nil")
	}
}

func TestNewProviderInvalidExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		ServiceName:     "test",
		Enabled:         true,
		MetricsExporter: "bogus",
	})
	if err == nil {
		t.Error("NewProvider() should fail for unknown metrics exporter")
	}
}
