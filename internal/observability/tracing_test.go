package observability

import (
	"context"
	"testing"
)

func TestTracingConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("BIC_TRACING_ENABLED", "")
	t.Setenv("BIC_TRACING_EXPORTER", "")
	t.Setenv("BIC_TRACING_SERVICE_NAME", "")
	t.Setenv("BIC_TRACING_SAMPLE_RATIO", "")

	cfg := TracingConfigFromEnv()
	if cfg.Enabled {
		t.Error("tracing enabled by default; want disabled")
	}
	if cfg.Exporter != "stdout" {
		t.Errorf("Exporter = %q, want stdout", cfg.Exporter)
	}
	if cfg.ServiceName != "bicsim" {
		t.Errorf("ServiceName = %q, want bicsim", cfg.ServiceName)
	}
	if cfg.SampleRatio != 1.0 {
		t.Errorf("SampleRatio = %v, want 1.0", cfg.SampleRatio)
	}
}

func TestTracingConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("BIC_TRACING_ENABLED", "TRUE")
	t.Setenv("BIC_TRACING_EXPORTER", "OTLP")
	t.Setenv("BIC_TRACING_SERVICE_NAME", "bic-sweeper")
	t.Setenv("BIC_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("BIC_OTLP_ENDPOINT", "collector:4317")

	cfg := TracingConfigFromEnv()
	if !cfg.Enabled {
		t.Error("tracing not enabled")
	}
	if cfg.Exporter != "otlp" {
		t.Errorf("Exporter = %q, want otlp", cfg.Exporter)
	}
	if cfg.ServiceName != "bic-sweeper" {
		t.Errorf("ServiceName = %q, want bic-sweeper", cfg.ServiceName)
	}
	if cfg.SampleRatio != 0.25 {
		t.Errorf("SampleRatio = %v, want 0.25", cfg.SampleRatio)
	}
	if cfg.Endpoint != "collector:4317" {
		t.Errorf("Endpoint = %q, want collector:4317", cfg.Endpoint)
	}
}

func TestTracingConfigFromEnv_InvalidRatioFallsBack(t *testing.T) {
	t.Setenv("BIC_TRACING_SAMPLE_RATIO", "seven")
	if cfg := TracingConfigFromEnv(); cfg.SampleRatio != 1.0 {
		t.Errorf("SampleRatio = %v, want fallback 1.0", cfg.SampleRatio)
	}
}

func TestInitTracing_DisabledReturnsNoopShutdown(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown func is nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
