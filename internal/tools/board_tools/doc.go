// Package board_tools provides MCP tools for projects, boards and
// lists: the workspace structure view, board summaries with per-card
// task counters, and creation of projects, boards and lists.
//
// Read tools are always registered; creation tools only when the
// server runs with writes enabled.
package board_tools
