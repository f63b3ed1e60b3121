package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/planka-community/planka-mcp/internal/instrumentation"
)

func TestNewHTTPServer(t *testing.T) {
	if _, err := NewHTTPServer(nil, HTTPServerConfig{}); err == nil {
		t.Error("expected error for nil mcp server")
	}

	mcpSrv := mcpserver.NewMCPServer("test", "0.0.0")
	srv, err := NewHTTPServer(mcpSrv, HTTPServerConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.Addr() != DefaultHTTPAddr {
		t.Errorf("expected default addr %s, got %s", DefaultHTTPAddr, srv.Addr())
	}
	if srv.config.EndpointPath != DefaultMCPEndpoint {
		t.Errorf("expected default endpoint %s, got %s", DefaultMCPEndpoint, srv.config.EndpointPath)
	}
}

func TestMetricsMiddleware_NilMetricsPassthrough(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("test", "0.0.0")
	srv, err := NewHTTPServer(mcpSrv, HTTPServerConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	srv.metricsMiddleware(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/mcp", nil))

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rr.Code)
	}
}

func TestMetricsMiddleware_RecordsStatus(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("test", "0.0.0")
	srv, err := NewHTTPServer(mcpSrv, HTTPServerConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := instrumentation.NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	srv.SetMetrics(metrics)

	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rr := httptest.NewRecorder()
	srv.metricsMiddleware(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 to pass through, got %d", rr.Code)
	}
}

func TestMetricsMiddleware_DefaultsStatusOK(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("test", "0.0.0")
	srv, err := NewHTTPServer(mcpSrv, HTTPServerConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := instrumentation.NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	srv.SetMetrics(metrics)

	// Handler that never calls WriteHeader; the recorder must report 200.
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	srv.metricsMiddleware(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/mcp", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}
