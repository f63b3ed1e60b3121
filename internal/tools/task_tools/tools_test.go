package task_tools

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/planka-community/planka-mcp/internal/server"
)

func TestGetClient_NotConfigured(t *testing.T) {
	sc := server.NewServerContextWithClient(context.Background(), nil)
	defer func() { _ = sc.Shutdown() }()

	_, err := getClient(sc)
	if err == nil {
		t.Fatal("expected error for unconfigured client")
	}
}

func TestRegisterTaskTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0")
	sc := server.NewServerContextWithClient(context.Background(), nil)
	defer func() { _ = sc.Shutdown() }()

	if err := RegisterTaskTools(s, sc, false); err != nil {
		t.Errorf("RegisterTaskTools() error = %v", err)
	}
}

func TestRegisterTaskTools_ReadOnlyRegistersNothing(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0")
	sc := server.NewServerContextWithClient(context.Background(), nil)
	defer func() { _ = sc.Shutdown() }()

	// All task tools are mutating; read-only mode is a no-op
	if err := RegisterTaskTools(s, sc, true); err != nil {
		t.Errorf("RegisterTaskTools() read-only error = %v", err)
	}
}
