package instrumentation

import (
	"os"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	// Clear environment to get defaults
	os.Unsetenv("OTEL_SERVICE_NAME")
	os.Unsetenv("INSTRUMENTATION_ENABLED")
	os.Unsetenv("METRICS_EXPORTER")
	os.Unsetenv("TRACING_EXPORTER")

	config := DefaultConfig()

	if config.ServiceName != "planka-mcp" {
		t.Errorf("expected ServiceName 'planka-mcp', got %q", config.ServiceName)
	}

	if !config.Enabled {
		t.Error("expected Enabled to be true by default")
	}

	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected MetricsExporter 'prometheus', got %q", config.MetricsExporter)
	}

	if config.TracingExporter != ExporterNone {
		t.Errorf("expected TracingExporter 'none', got %q", config.TracingExporter)
	}

	if config.TraceSamplingRate != 0.1 {
		t.Errorf("expected TraceSamplingRate 0.1, got %f", config.TraceSamplingRate)
	}

	if config.AuditLogging.IncludeIDs {
		t.Error("expected entity ids to be excluded from audit logs by default")
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	os.Setenv("OTEL_SERVICE_NAME", "test-service")
	os.Setenv("INSTRUMENTATION_ENABLED", "false")
	os.Setenv("METRICS_EXPORTER", "stdout")
	os.Setenv("TRACING_EXPORTER", "stdout")
	os.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	os.Setenv("AUDIT_LOGGING_INCLUDE_IDS", "true")

	defer func() {
		os.Unsetenv("OTEL_SERVICE_NAME")
		os.Unsetenv("INSTRUMENTATION_ENABLED")
		os.Unsetenv("METRICS_EXPORTER")
		os.Unsetenv("TRACING_EXPORTER")
		os.Unsetenv("OTEL_TRACES_SAMPLER_ARG")
		os.Unsetenv("AUDIT_LOGGING_INCLUDE_IDS")
	}()

	config := DefaultConfig()

	if config.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %q", config.ServiceName)
	}

	if config.Enabled {
		t.Error("expected Enabled to be false")
	}

	if config.MetricsExporter != "stdout" {
		t.Errorf("expected MetricsExporter 'stdout', got %q", config.MetricsExporter)
	}

	if config.TracingExporter != "stdout" {
		t.Errorf("expected TracingExporter 'stdout', got %q", config.TracingExporter)
	}

	if config.TraceSamplingRate != 0.5 {
		t.Errorf("expected TraceSamplingRate 0.5, got %f", config.TraceSamplingRate)
	}

	if !config.AuditLogging.IncludeIDs {
		t.Error("expected IncludeIDs to be true")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errContains string
	}{
		{
			name: "valid config with prometheus",
			config: Config{
				ServiceName:     "test",
				Enabled:         true,
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterNone,
			},
		},
		{
			name: "valid config with otlp",
			config: Config{
				ServiceName:     "test",
				MetricsExporter: ExporterOTLP,
				TracingExporter: ExporterOTLP,
				OTLPEndpoint:    "localhost:4318",
			},
		},
		{
			name: "sampling rate too high",
			config: Config{
				TraceSamplingRate: 1.5,
			},
			expectError: true,
			errContains: "sampling rate",
		},
		{
			name: "sampling rate negative",
			config: Config{
				TraceSamplingRate: -0.1,
			},
			expectError: true,
			errContains: "sampling rate",
		},
		{
			name: "unknown metrics exporter",
			config: Config{
				MetricsExporter: "statsd",
			},
			expectError: true,
			errContains: "metrics exporter",
		},
		{
			name: "unknown tracing exporter",
			config: Config{
				TracingExporter: "jaeger",
			},
			expectError: true,
			errContains: "tracing exporter",
		},
		{
			name: "otlp tracing without endpoint",
			config: Config{
				TracingExporter: ExporterOTLP,
			},
			expectError: true,
			errContains: "OTLP endpoint",
		},
		{
			name: "otlp metrics without endpoint",
			config: Config{
				MetricsExporter: ExporterOTLP,
			},
			expectError: true,
			errContains: "OTLP endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not mention %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
