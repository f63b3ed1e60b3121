package instrumentation

import "testing"

func TestExtractServerHost(t *testing.T) {
	tests := []struct {
		baseURL  string
		expected string
	}{
		{"https://kanban.example.com", "kanban.example.com"},
		{"https://kanban.example.com/planka", "kanban.example.com"},
		{"http://localhost:3000", "localhost:3000"},
		{"http://10.0.0.5:1337", "10.0.0.5:1337"},
		{"not a url", "unknown"},
		{"", "unknown"},
		{"/relative/path", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.baseURL, func(t *testing.T) {
			result := ExtractServerHost(tt.baseURL)
			if result != tt.expected {
				t.Errorf("ExtractServerHost(%q) = %q, want %q", tt.baseURL, result, tt.expected)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/cards/1234567890/comments", "/api/cards/:id/comments"},
		{"/api/boards/98765432101234", "/api/boards/:id"},
		{"/api/projects", "/api/projects"},
		{"/api/card-labels/555555555555", "/api/card-labels/:id"},
		// Short numeric segments are kept; they are not snowflake ids.
		{"/api/v1/projects", "/api/v1/projects"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := NormalizePath(tt.path)
			if result != tt.expected {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestOperationConstants(t *testing.T) {
	operations := map[string]string{
		OperationList:   "list",
		OperationGet:    "get",
		OperationCreate: "create",
		OperationUpdate: "update",
		OperationDelete: "delete",
		OperationAttach: "attach",
		OperationDetach: "detach",
	}

	for constant, expected := range operations {
		if constant != expected {
			t.Errorf("Operation constant = %q, want %q", constant, expected)
		}
	}
}
