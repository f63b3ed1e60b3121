package logging

import (
	"log/slog"
	"testing"
)

func TestErr_Nil(t *testing.T) {
	attr := Err(nil)
	// A nil error must produce an empty group that slog omits entirely.
	if attr.Value.Kind() != slog.KindGroup {
		t.Errorf("Expected group kind for nil error, got %v", attr.Value.Kind())
	}
	if len(attr.Value.Group()) != 0 {
		t.Errorf("Expected empty group for nil error, got %d attrs", len(attr.Value.Group()))
	}
}

func TestErr_NonNil(t *testing.T) {
	attr := Err(errTest)
	if attr.Key != KeyError {
		t.Errorf("Expected key %q, got %q", KeyError, attr.Key)
	}
	if attr.Value.String() != "boom" {
		t.Errorf("Expected value 'boom', got %q", attr.Value.String())
	}
}

type testErr string

func (e testErr) Error() string { return string(e) }

var errTest = testErr("boom")

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "empty", token: "", want: "<empty>"},
		{name: "short", token: "abc", want: "[token:3 chars]"},
		{name: "jwt-like", token: "eyJhbGciOiJIUzI1NiJ9.payload.sig", want: "[token:32 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeToken(tt.token); got != tt.want {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestAttributeConstructors(t *testing.T) {
	if got := Operation("board_fetch"); got.Key != KeyOperation || got.Value.String() != "board_fetch" {
		t.Errorf("Operation attr = %v", got)
	}
	if got := Service("planka"); got.Key != KeyService || got.Value.String() != "planka" {
		t.Errorf("Service attr = %v", got)
	}
	if got := Tool("planka_get_board"); got.Key != KeyTool || got.Value.String() != "planka_get_board" {
		t.Errorf("Tool attr = %v", got)
	}
	if got := Board("b1"); got.Key != KeyBoard || got.Value.String() != "b1" {
		t.Errorf("Board attr = %v", got)
	}
	if got := Card("c1"); got.Key != KeyCard || got.Value.String() != "c1" {
		t.Errorf("Card attr = %v", got)
	}
	if got := Status(StatusSuccess); got.Key != KeyStatus || got.Value.String() != "success" {
		t.Errorf("Status attr = %v", got)
	}
}

func TestWithHelpers(t *testing.T) {
	logger := slog.Default()

	// The With helpers must return a derived, non-nil logger.
	if WithOperation(logger, "op") == nil {
		t.Error("WithOperation returned nil")
	}
	if WithTool(logger, "tool") == nil {
		t.Error("WithTool returned nil")
	}
	if WithService(logger, "svc") == nil {
		t.Error("WithService returned nil")
	}
}
