// Package label_tools provides MCP tools for board labels: palette
// listing, label CRUD, and attaching, detaching and bulk-updating the
// labels on a card.
package label_tools
