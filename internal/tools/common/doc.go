// Package common provides shared helpers for MCP tool packages:
// instrumented handler wrappers that record metrics and audit logs
// around every tool invocation.
package common
