// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the codebase
// (operation, service, tool, status, error, board_id, card_id) together
// with attribute constructors so log call sites stay consistent and
// greppable. Session tokens are never logged directly; SanitizeToken
// masks them down to a length indicator.
package logging
