package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation captures all information about a tool invocation for
// audit logging. This provides a trail of every board mutation an agent
// performs through the server.
//
// # Cardinality Considerations
//
// BoardID and CardID are unbounded identifiers. When logging, consider:
//   - Using LogAttrs() which omits them for general operational logs
//   - Only logging ids in audit-specific log streams via LogAuditAttrs()
//   - Ensuring id-bearing logs have appropriate access controls
type ToolInvocation struct {
	// Tool name
	Tool string

	// Target information for kanban operations
	Resource  string // API resource (projects, boards, cards, tasks, labels, comments)
	Operation string // Operation type (list, get, create, update, delete, attach, detach)
	BoardID   string // Target board, when the tool addresses one
	CardID    string // Target card, when the tool addresses one

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// Status returns "success" or "error" based on the Success field.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging. Entity ids
// are omitted, so the attribute set is safe for metrics-adjacent log
// pipelines. For the full audit record, use LogAuditAttrs.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.Resource != "" {
		attrs = append(attrs, slog.String("resource", ti.Resource))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes for full audit logging,
// including the board and card ids the tool addressed.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.Resource != "" {
		attrs = append(attrs, slog.String("resource", ti.Resource))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.BoardID != "" {
		attrs = append(attrs, slog.String("board_id", ti.BoardID))
	}
	if ti.CardID != "" {
		attrs = append(attrs, slog.String("card_id", ti.CardID))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// NewToolInvocation creates a new ToolInvocation with timing started.
// Call Complete() when the tool operation finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithTarget sets the resource and operation the tool performs.
func (ti *ToolInvocation) WithTarget(resource, operation string) *ToolInvocation {
	ti.Resource = resource
	ti.Operation = operation
	return ti
}

// WithBoard sets the target board id.
func (ti *ToolInvocation) WithBoard(boardID string) *ToolInvocation {
	ti.BoardID = boardID
	return ti
}

// WithCard sets the target card id.
func (ti *ToolInvocation) WithCard(cardID string) *ToolInvocation {
	ti.CardID = cardID
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete marks the invocation as completed and calculates duration.
// Returns the same ToolInvocation for method chaining.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// AuditLogger provides structured audit logging for tool invocations.
// It wraps slog.Logger with convenience methods for logging tool operations.
type AuditLogger struct {
	logger     *slog.Logger
	includeIDs bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// Entity ids are not included by default.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includeIDs: false,
		enabled:    true,
	}
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includeIDs: config.IncludeIDs,
		enabled:    config.Enabled,
	}
}

// SetIncludeIDs sets whether board and card ids appear in log lines.
func (al *AuditLogger) SetIncludeIDs(include bool) {
	al.includeIDs = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogToolInvocation logs a tool invocation. When the logger is
// configured with IncludeIDs, the full audit attributes with entity
// ids are used; otherwise the cardinality-controlled set.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includeIDs {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ti.Success {
		al.logger.Info("tool_executed", args...)
	} else {
		al.logger.Warn("tool_failed", args...)
	}
}

// LogToolAudit logs a tool invocation with full audit details including
// entity ids, regardless of the IncludeIDs configuration. Use
// LogToolInvocation for configuration-aware logging.
func (al *AuditLogger) LogToolAudit(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	attrs := ti.LogAuditAttrs()
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	al.logger.Info("tool_audit", args...)
}
