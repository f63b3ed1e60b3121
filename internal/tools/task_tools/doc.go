// Package task_tools provides MCP tools for card checklists: batch
// task creation with automatic checklist provisioning, task updates,
// completion and deletion, and explicit checklist creation.
//
// Every tool here mutates the board, so the package registers nothing
// when the server runs read-only.
package task_tools
