package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/planka-community/planka-mcp/internal/instrumentation"
	"github.com/planka-community/planka-mcp/internal/planka"
)

// tokenRevokeTimeout bounds the best-effort session logout during
// shutdown.
const tokenRevokeTimeout = 5 * time.Second

// ServerContext holds the shared state for the MCP server. All tool
// handlers go through the single kanban client it owns; the client
// manages its own token lifecycle, so handlers never see credentials.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	client      *planka.Client
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context with a kanban client
// built from the given configuration. Configuration problems surface
// here, before any tool is registered.
func NewServerContext(ctx context.Context, config planka.Config) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	client, err := planka.NewClient(config)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create kanban client: %w", err)
	}

	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		client: client,
	}, nil
}

// NewServerContextWithClient creates a server context around an
// existing client. Used by tests to inject a client bound to a test
// server.
func NewServerContextWithClient(ctx context.Context, client *planka.Client) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		client: client,
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the shared kanban client.
func (sc *ServerContext) Client() *planka.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.client
}

// SetClient replaces the shared kanban client.
func (sc *ServerContext) SetClient(client *planka.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.client = client
}

// Metrics returns the metrics recorder, or nil if instrumentation is
// not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder for tool instrumentation.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil if not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger for tool invocations.
func (sc *ServerContext) SetAuditLogger(logger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = logger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context. Any session token the client
// acquired is revoked before the context is cancelled.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	if sc.shutdown {
		sc.mu.Unlock()
		return nil
	}
	sc.shutdown = true
	client := sc.client
	sc.mu.Unlock()

	var err error
	if client != nil {
		// Revocation runs under its own deadline; the server context is
		// about to be cancelled.
		revokeCtx, cancel := context.WithTimeout(context.Background(), tokenRevokeTimeout)
		defer cancel()
		err = client.Close(revokeCtx)
	}

	sc.cancel()
	return err
}
