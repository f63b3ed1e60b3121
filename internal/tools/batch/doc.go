// Package batch provides helpers for tools that accept one id or many:
// argument parsing for string-or-array parameters, strictly ordered
// sequential fan-out, and aggregated result formatting.
package batch
