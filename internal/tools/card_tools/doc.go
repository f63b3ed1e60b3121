// Package card_tools provides MCP tools for cards and their comments:
// the card detail view with sorted relations, card create/update/
// delete, and comment management.
package card_tools
