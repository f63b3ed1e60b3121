package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/planka-community/planka-mcp/internal/instrumentation"
	"github.com/planka-community/planka-mcp/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with metrics and audit logging.
// It records tool invocation metrics and logs the invocation for audit purposes.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Metrics and audit logger may be nil if not configured
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)

		attachIDsFromArgs(invocation, request)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				invocation.CompleteWithError(err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			invocation.CompleteSuccess()
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, duration)
		}

		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}

// InstrumentedToolHandlerWithTarget is like InstrumentedToolHandler but also
// records the kanban resource and operation type for more detailed metrics.
//
// This handler records both:
// - MCP tool invocation metrics (mcp_tool_invocations_total, mcp_tool_duration_seconds)
// - Kanban API operation metrics (planka_api_operations_total, planka_api_operation_duration_seconds)
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithTarget("my_tool", instrumentation.ResourceCards, instrumentation.OperationList, sc, handler))
func InstrumentedToolHandlerWithTarget(
	toolName string,
	resource string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithTarget(resource, operation)

		attachIDsFromArgs(invocation, request)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				invocation.CompleteWithError(err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			invocation.CompleteSuccess()
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, duration)
			metrics.RecordPlankaOperation(ctx, resource, operation, status, duration)
		}

		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}

// attachIDsFromArgs picks board/card ids out of the request arguments
// so audit records can correlate invocations with kanban entities. The
// audit logger decides whether they are actually emitted.
func attachIDsFromArgs(invocation *instrumentation.ToolInvocation, request mcp.CallToolRequest) {
	args := request.GetArguments()
	if args == nil {
		return
	}
	if boardID, ok := args["boardId"].(string); ok && boardID != "" {
		invocation.WithBoard(boardID)
	}
	if cardID, ok := args["cardId"].(string); ok && cardID != "" {
		invocation.WithCard(cardID)
	}
}
