package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	testBoardID     = "1234567890123456"
	testCardID      = "6543210987654321"
	testToolCreate  = "planka_create_card"
	testToolBoard   = "planka_get_board"
	testToolProject = "planka_get_projects"
)

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testToolCreate)

	if ti.Tool != testToolCreate {
		t.Errorf("Tool = %q, want %q", ti.Tool, testToolCreate)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Error != "" {
		t.Errorf("Error should be empty, got %q", ti.Error)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testToolBoard)
	err := errors.New("permission denied")

	ti.CompleteWithError(err)

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "permission denied" {
		t.Errorf("Error = %q, want %q", ti.Error, "permission denied")
	}
}

func TestToolInvocation_WithTarget(t *testing.T) {
	ti := NewToolInvocation(testToolCreate)
	ti.WithTarget(ResourceCards, OperationCreate)

	if ti.Resource != ResourceCards {
		t.Errorf("Resource = %q, want %q", ti.Resource, ResourceCards)
	}
	if ti.Operation != OperationCreate {
		t.Errorf("Operation = %q, want %q", ti.Operation, OperationCreate)
	}
}

func TestToolInvocation_WithBoardAndCard(t *testing.T) {
	ti := NewToolInvocation(testToolCreate).
		WithBoard(testBoardID).
		WithCard(testCardID)

	if ti.BoardID != testBoardID {
		t.Errorf("BoardID = %q, want %q", ti.BoardID, testBoardID)
	}
	if ti.CardID != testCardID {
		t.Errorf("CardID = %q, want %q", ti.CardID, testCardID)
	}
}

func TestToolInvocation_Status(t *testing.T) {
	ti := NewToolInvocation(testToolProject)

	ti.Complete(true, nil)
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusSuccess)
	}

	ti.Complete(false, errors.New("boom"))
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func TestToolInvocation_LogAttrsOmitIDs(t *testing.T) {
	ti := NewToolInvocation(testToolCreate).
		WithTarget(ResourceCards, OperationCreate).
		WithBoard(testBoardID).
		WithCard(testCardID)
	ti.CompleteSuccess()

	for _, attr := range ti.LogAttrs() {
		if attr.Key == "board_id" || attr.Key == "card_id" {
			t.Errorf("LogAttrs must not carry entity ids, found %s", attr.Key)
		}
	}
}

func TestToolInvocation_LogAuditAttrsIncludeIDs(t *testing.T) {
	ti := NewToolInvocation(testToolCreate).
		WithTarget(ResourceCards, OperationCreate).
		WithBoard(testBoardID).
		WithCard(testCardID)
	ti.CompleteSuccess()

	keys := make(map[string]bool)
	for _, attr := range ti.LogAuditAttrs() {
		keys[string(attr.Key)] = true
	}

	for _, want := range []string{"tool", "resource", "operation", "board_id", "card_id"} {
		if !keys[want] {
			t.Errorf("LogAuditAttrs missing %q", want)
		}
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true, IncludeIDs: true})

	ti := NewToolInvocation(testToolCreate).
		WithTarget(ResourceCards, OperationCreate).
		WithBoard(testBoardID)
	ti.CompleteSuccess()

	al.LogToolInvocation(ti)

	out := buf.String()
	if !strings.Contains(out, "tool_executed") {
		t.Errorf("expected tool_executed message, got %q", out)
	}
	if !strings.Contains(out, testBoardID) {
		t.Errorf("expected board id in audit output, got %q", out)
	}
}

func TestAuditLogger_IDsOmittedByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLogger(logger)

	ti := NewToolInvocation(testToolCreate).WithBoard(testBoardID)
	ti.CompleteWithError(errors.New("nope"))

	al.LogToolInvocation(ti)

	out := buf.String()
	if !strings.Contains(out, "tool_failed") {
		t.Errorf("expected tool_failed message, got %q", out)
	}
	if strings.Contains(out, testBoardID) {
		t.Errorf("board id leaked into default audit output: %q", out)
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: false})

	ti := NewToolInvocation(testToolCreate)
	ti.CompleteSuccess()

	al.LogToolInvocation(ti)
	al.LogToolAudit(ti)

	if buf.Len() != 0 {
		t.Errorf("disabled audit logger wrote output: %q", buf.String())
	}
}
