package cmd

import (
	"testing"

	"github.com/planka-community/planka-mcp/internal/planka"
	"github.com/planka-community/planka-mcp/internal/server"
)

func TestResolvePlankaEnv_FlagsWinOverEnvironment(t *testing.T) {
	t.Setenv("PLANKA_BASE_URL", "http://env.example.com")
	t.Setenv("PLANKA_EMAIL", "env@example.com")
	t.Setenv("PLANKA_PASSWORD", "env-secret")

	config := planka.Config{
		BaseURL:  "http://flag.example.com",
		Email:    "flag@example.com",
		Password: "flag-secret",
	}
	resolvePlankaEnv(&config)

	if config.BaseURL != "http://flag.example.com" {
		t.Errorf("BaseURL = %q, want flag value", config.BaseURL)
	}
	if config.Email != "flag@example.com" {
		t.Errorf("Email = %q, want flag value", config.Email)
	}
	if config.Password != "flag-secret" {
		t.Errorf("Password = %q, want flag value", config.Password)
	}
}

func TestResolvePlankaEnv_FillsUnsetFields(t *testing.T) {
	t.Setenv("PLANKA_BASE_URL", "http://env.example.com")
	t.Setenv("PLANKA_EMAIL", "env@example.com")
	t.Setenv("PLANKA_PASSWORD", "env-secret")

	config := planka.Config{Email: "flag@example.com"}
	resolvePlankaEnv(&config)

	if config.BaseURL != "http://env.example.com" {
		t.Errorf("BaseURL = %q, want env value", config.BaseURL)
	}
	if config.Email != "flag@example.com" {
		t.Errorf("Email = %q, want flag value", config.Email)
	}
	if config.Password != "env-secret" {
		t.Errorf("Password = %q, want env value", config.Password)
	}
}

func TestResolveMetricsEnv(t *testing.T) {
	tests := []struct {
		name        string
		config      MetricsConfig
		envEnabled  string
		envAddr     string
		wantEnabled bool
		wantAddr    string
	}{
		{
			name:        "no env keeps flag values",
			config:      MetricsConfig{Enabled: true, Addr: server.DefaultMetricsAddr},
			wantEnabled: true,
			wantAddr:    server.DefaultMetricsAddr,
		},
		{
			name:        "METRICS_ENABLED false disables",
			config:      MetricsConfig{Enabled: true, Addr: server.DefaultMetricsAddr},
			envEnabled:  "false",
			wantEnabled: false,
			wantAddr:    server.DefaultMetricsAddr,
		},
		{
			name:        "METRICS_ADDR overrides default addr",
			config:      MetricsConfig{Enabled: true, Addr: server.DefaultMetricsAddr},
			envAddr:     ":9191",
			wantEnabled: true,
			wantAddr:    ":9191",
		},
		{
			name:        "METRICS_ADDR does not override explicit addr",
			config:      MetricsConfig{Enabled: true, Addr: ":7070"},
			envAddr:     ":9191",
			wantEnabled: true,
			wantAddr:    ":7070",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("METRICS_ENABLED", tt.envEnabled)
			t.Setenv("METRICS_ADDR", tt.envAddr)

			config := tt.config
			resolveMetricsEnv(&config)

			if config.Enabled != tt.wantEnabled {
				t.Errorf("Enabled = %v, want %v", config.Enabled, tt.wantEnabled)
			}
			if config.Addr != tt.wantAddr {
				t.Errorf("Addr = %q, want %q", config.Addr, tt.wantAddr)
			}
		})
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		tool     string
		expected string
	}{
		{"planka_list_projects", "Project and Board Tools"},
		{"planka_get_structure", "Project and Board Tools"},
		{"planka_get_board_summary", "Project and Board Tools"},
		{"planka_create_list", "Project and Board Tools"},
		{"planka_get_card", "Card Tools"},
		{"planka_list_comments", "Card Tools"},
		{"planka_add_tasks", "Checklist Tools"},
		{"planka_create_task_list", "Checklist Tools"},
		{"planka_set_card_labels", "Label Tools"},
		{"planka_list_label_colors", "Label Tools"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			if got := getCategoryFromToolName(tt.tool); got != tt.expected {
				t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.tool, got, tt.expected)
			}
		})
	}
}
