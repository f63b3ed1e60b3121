package card_tools

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

func TestRegisterCardTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0")
	sc := server.NewServerContextWithClient(context.Background(), nil)
	defer func() { _ = sc.Shutdown() }()

	if err := RegisterCardTools(s, sc, false); err != nil {
		t.Errorf("RegisterCardTools() error = %v", err)
	}
}

func TestRegisterCardTools_ReadOnly(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0")
	sc := server.NewServerContextWithClient(context.Background(), nil)
	defer func() { _ = sc.Shutdown() }()

	if err := RegisterCardTools(s, sc, true); err != nil {
		t.Errorf("RegisterCardTools() read-only error = %v", err)
	}
}
