package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/planka-community/planka-mcp/internal/instrumentation"
	"github.com/planka-community/planka-mcp/internal/planka"
	"github.com/planka-community/planka-mcp/internal/server"
	"github.com/planka-community/planka-mcp/internal/tools/board_tools"
	"github.com/planka-community/planka-mcp/internal/tools/card_tools"
	"github.com/planka-community/planka-mcp/internal/tools/label_tools"
	"github.com/planka-community/planka-mcp/internal/tools/task_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode        bool
		transport        string
		httpAddr         string
		yolo             bool
		disableStreaming bool
		plankaBaseURL    string
		plankaEmail      string
		plankaPassword   string
		// Metrics server configuration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Planka kanban
tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (card creation, deletion, label changes, etc.)

Planka Configuration:
  The server authenticates with a service account:
    --planka-base-url https://kanban.example.com OR PLANKA_BASE_URL env var
    --planka-email OR PLANKA_EMAIL env var (email or username)
    --planka-password OR PLANKA_PASSWORD env var

  The session token is acquired on first use and refreshed automatically
  before the server-side expiry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			plankaConfig := planka.Config{
				BaseURL:  plankaBaseURL,
				Email:    plankaEmail,
				Password: plankaPassword,
			}
			resolvePlankaEnv(&plankaConfig)

			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}

			return runServe(transport, debugMode, httpAddr, yolo, disableStreaming, plankaConfig, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (card creation, deletion, label changes, etc.). Default is read-only mode.")
	cmd.Flags().BoolVar(&disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().StringVar(&plankaBaseURL, "planka-base-url", "", "Planka server base URL. Can also use PLANKA_BASE_URL env var.")
	cmd.Flags().StringVar(&plankaEmail, "planka-email", "", "Planka service account email or username. Can also use PLANKA_EMAIL env var.")
	cmd.Flags().StringVar(&plankaPassword, "planka-password", "", "Planka service account password. Can also use PLANKA_PASSWORD env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// resolvePlankaEnv fills unset Planka connection fields from the
// PLANKA_* environment variables. Flags win over the environment.
func resolvePlankaEnv(config *planka.Config) {
	env := planka.ConfigFromEnv()
	if config.BaseURL == "" {
		config.BaseURL = env.BaseURL
	}
	if config.Email == "" {
		config.Email = env.Email
	}
	if config.Password == "" {
		config.Password = env.Password
	}
}

// resolveMetricsEnv applies METRICS_ENABLED / METRICS_ADDR env
// overrides for values left at their flag defaults.
func resolveMetricsEnv(config *MetricsConfig) {
	if enabled := os.Getenv("METRICS_ENABLED"); enabled == "false" {
		config.Enabled = false
	}
	if config.Addr == "" || config.Addr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Addr = addr
		}
	}
}

func runServe(transport string, debugMode bool, httpAddr string, yolo bool, disableStreaming bool, plankaConfig planka.Config, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if debugMode {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	resolveMetricsEnv(&metricsConfig)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if transport != "stdio" && metricsConfig.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		// Wait for metrics server to be ready or fail
		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// Create server context. Configuration problems (missing URL or
	// credentials) surface here, before any transport starts.
	serverContext, err := server.NewServerContext(shutdownCtx, plankaConfig)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("planka-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)

	// readOnly is the inverse of yolo
	readOnly := !yolo

	// Log the mode for visibility (only for non-stdio transports)
	if transport != "stdio" {
		if readOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	// Register all tools
	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		fmt.Printf("Starting planka-mcp server with %s transport...\n", transport)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, httpAddr, disableStreaming, metricsConfig, provider)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	// Define all tool registrations
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Board",
			register: func() error {
				return board_tools.RegisterBoardTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Card",
			register: func() error {
				return card_tools.RegisterCardTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Task",
			register: func() error {
				return task_tools.RegisterTaskTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Label",
			register: func() error {
				return label_tools.RegisterLabelTools(mcpSrv, ctx, readOnly)
			},
		},
	}

	// Register all tools
	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, addr string, disableStreaming bool, metricsConfig MetricsConfig, instrProvider *instrumentation.Provider) error {
	httpServer, err := server.NewHTTPServer(mcpSrv, server.HTTPServerConfig{
		Addr:             addr,
		DisableStreaming: disableStreaming,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	// Set up health checker for health check endpoints
	healthChecker := server.NewHealthChecker(serverContext)
	httpServer.SetHealthChecker(healthChecker)

	// Set up HTTP instrumentation for metrics
	if instrProvider != nil && instrProvider.Enabled() {
		httpServer.SetMetrics(instrProvider.Metrics())
	}

	fmt.Printf("Streamable HTTP server starting on %s\n", addr)
	fmt.Printf("  HTTP endpoint: %s\n", server.DefaultMCPEndpoint)
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")
	if metricsConfig.Enabled {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", metricsConfig.Addr)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}
