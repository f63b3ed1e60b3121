// Package server provides the runtime plumbing around the MCP server:
// shared state for tool handlers, the streamable HTTP transport, health
// check endpoints for Kubernetes probes, and a dedicated Prometheus
// metrics listener.
//
// ServerContext is the hub: it owns the kanban API client that every
// tool handler uses, plus the optional metrics recorder and audit
// logger. It is safe for concurrent use and supports coordinated
// shutdown via Shutdown().
package server
