package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/planka-community/planka-mcp/internal/instrumentation"
)

const (
	// DefaultHTTPAddr is the default listen address for the streamable HTTP transport.
	DefaultHTTPAddr = ":8080"

	// DefaultMCPEndpoint is the path the MCP streamable HTTP handler is mounted on.
	DefaultMCPEndpoint = "/mcp"

	// DefaultHTTPReadHeaderTimeout bounds how long reading request headers may take.
	DefaultHTTPReadHeaderTimeout = 10 * time.Second

	// DefaultHTTPIdleTimeout is the keep-alive idle timeout for HTTP connections.
	DefaultHTTPIdleTimeout = 120 * time.Second
)

// HTTPServerConfig holds configuration for the streamable HTTP transport.
type HTTPServerConfig struct {
	// Addr is the address to bind to (e.g., ":8080").
	Addr string

	// EndpointPath is the path the MCP handler is mounted on. Defaults to /mcp.
	EndpointPath string

	// DisableStreaming forces plain JSON responses instead of SSE streams.
	// Useful behind proxies that buffer responses.
	DisableStreaming bool
}

// HTTPServer exposes the MCP server over the streamable HTTP transport,
// alongside health endpoints for Kubernetes probes. Metrics are served
// separately by MetricsServer.
type HTTPServer struct {
	config        HTTPServerConfig
	mcpServer     *mcpserver.MCPServer
	httpServer    *http.Server
	healthChecker *HealthChecker
	metrics       *instrumentation.Metrics
}

// NewHTTPServer creates a streamable HTTP server for the given MCP server.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}
	if config.EndpointPath == "" {
		config.EndpointPath = DefaultMCPEndpoint
	}

	return &HTTPServer{
		config:    config,
		mcpServer: mcpServer,
	}, nil
}

// SetHealthChecker attaches a health checker whose endpoints are served
// alongside the MCP endpoint.
func (s *HTTPServer) SetHealthChecker(hc *HealthChecker) {
	s.healthChecker = hc
}

// SetMetrics attaches a metrics recorder for per-request HTTP metrics.
func (s *HTTPServer) SetMetrics(metrics *instrumentation.Metrics) {
	s.metrics = metrics
}

// Start starts the HTTP server in a blocking manner.
func (s *HTTPServer) Start() error {
	opts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath(s.config.EndpointPath),
	}
	if s.config.DisableStreaming {
		opts = append(opts, mcpserver.WithDisableStreaming(true))
	}

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer, opts...)

	mux := http.NewServeMux()
	mux.Handle(s.config.EndpointPath, streamable)

	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.metricsMiddleware(mux),
		ReadHeaderTimeout: DefaultHTTPReadHeaderTimeout,
		IdleTimeout:       DefaultHTTPIdleTimeout,
	}

	slog.Info("starting streamable HTTP server",
		"addr", s.config.Addr,
		"endpoint", s.config.EndpointPath)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		slog.Info("shutting down streamable HTTP server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.config.Addr
}

// statusRecorder captures the response status code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware records request count and duration per method, path
// and status. Paths are normalized to keep label cardinality bounded.
func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.metrics.RecordHTTPRequest(r.Context(),
			r.Method,
			instrumentation.NormalizePath(r.URL.Path),
			rec.status,
			time.Since(start))
	})
}
