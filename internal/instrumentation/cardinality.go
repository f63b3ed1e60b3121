package instrumentation

import (
	"net/url"
	"strings"
)

// Cardinality management helpers for metrics.
//
// High cardinality in metrics causes increased memory usage in the
// metrics backend, slower queries, and higher storage costs. Entity ids
// (boards, cards) are unbounded and must never become label values
// unless DetailedLabels is explicitly enabled.

// ExtractServerHost reduces a kanban base URL to its host for
// low-cardinality labeling of which server an operation targeted.
//
// Example:
//
//	ExtractServerHost("https://kanban.example.com/planka")  // "kanban.example.com"
//	ExtractServerHost("http://localhost:3000")              // "localhost:3000"
//	ExtractServerHost("not a url")                          // "unknown"
func ExtractServerHost(baseURL string) string {
	if baseURL == "" {
		return "unknown"
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

// NormalizePath collapses id path segments so request paths form a
// bounded label set. Numeric and snowflake-style segments become ":id".
//
// Example:
//
//	NormalizePath("/api/cards/1234567890/comments")  // "/api/cards/:id/comments"
func NormalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if isIDSegment(seg) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func isIDSegment(seg string) bool {
	if len(seg) < 8 {
		return false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Common operation types for kanban API metrics.
// Status and Resource constants are defined in config.go.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationAttach = "attach"
	OperationDetach = "detach"
)
