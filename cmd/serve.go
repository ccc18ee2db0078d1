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

	"github.com/ssprakash1302/google-calender-mcp-server/internal/instrumentation"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/resources"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/server"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/service"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/tools/calendar_tools"
)

// defaultTimezone is the IANA zone label applied to event times when neither
// the --timezone flag nor the TIMEZONE env var is set.
const defaultTimezone = "America/Los_Angeles"

// serveConfig holds the resolved serve settings after flag/env merging.
type serveConfig struct {
	Debug      bool
	Transport  string
	HTTPAddr   string
	ReadOnly   bool
	ServiceURL string
	Timezone   string
	Metrics    MetricsConfig
}

func newServeCmd() *cobra.Command {
	var (
		debugMode  bool
		transport  string
		httpAddr   string
		readOnly   bool
		serviceURL string
		timezone   string

		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Google Calendar
tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on --http-addr

The tools do not talk to Google directly; every call is forwarded over HTTP
to the calendar agent API (see 'api' command). Point --service-url or the
CALENDAR_SERVICE_URL env var at a running instance.

Safety Mode:
  Use --readonly to expose only list_events. Scheduling, updating and
  deleting are then not registered at all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := serveConfig{
				Debug:      debugMode,
				Transport:  transport,
				HTTPAddr:   httpAddr,
				ReadOnly:   readOnly,
				ServiceURL: serviceURL,
				Timezone:   timezone,
				Metrics: MetricsConfig{
					Enabled: metricsEnabled,
					Addr:    metricsAddr,
				},
			}

			// Apply environment fallbacks for flags the user did not set
			loadServeEnvVars(cmd, &cfg)

			return runServe(cfg)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8001", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&readOnly, "readonly", false, "Expose only read tools. Scheduling, updating and deleting are disabled.")
	cmd.Flags().StringVar(&serviceURL, "service-url", service.DefaultBaseURL, "Base URL of the calendar agent API. Can also use CALENDAR_SERVICE_URL env var.")
	cmd.Flags().StringVar(&timezone, "timezone", defaultTimezone, "IANA timezone label for event times. Can also use TIMEZONE env var.")

	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Serve Prometheus metrics on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Listen address for the metrics port. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadServeEnvVars loads serve configuration from environment variables.
// Environment variables only override flag values when the flag was not
// explicitly set. The cmd parameter is used to check if flags were set by
// the user.
func loadServeEnvVars(cmd *cobra.Command, cfg *serveConfig) {
	if !cmd.Flags().Changed("service-url") {
		if url := os.Getenv("CALENDAR_SERVICE_URL"); url != "" {
			cfg.ServiceURL = url
		}
	}

	if !cmd.Flags().Changed("timezone") {
		if tz := os.Getenv("TIMEZONE"); tz != "" {
			cfg.Timezone = tz
		}
	}

	loadMetricsEnvVars(cmd, &cfg.Metrics)
}

// setupLogging installs the default slog logger. The handler writes to
// stderr so stdout stays clean for the stdio transport's JSON-RPC stream.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runServe(cfg serveConfig) error {
	setupLogging(cfg.Debug)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if cfg.Transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// The metrics port only makes sense for long-running HTTP deployments;
	// stdio sessions skip it.
	var metricsServer *server.MetricsServer
	if cfg.Transport != "stdio" {
		metricsServer, err = startMetricsServer(cfg.Metrics, provider)
		if err != nil {
			return err
		}
	}

	serverContext := server.NewServerContext(cfg.Timezone)

	// Point the tool layer at the calendar agent API
	serviceClient := service.NewClient(cfg.ServiceURL)
	serverContext.SetServiceClient(serviceClient)

	// Tool handlers read the recorder and audit logger off the server context
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		stopMetricsServer(metricsServer)
		serverContext.Shutdown()
	}()

	mcpSrv := mcpserver.NewMCPServer("google-calendar-server", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // no subscribe, no listChanged
	)

	// Keep stdio sessions quiet
	if cfg.Transport != "stdio" {
		if cfg.ReadOnly {
			log.Println("Starting server in READ-ONLY mode (scheduling, updating and deleting disabled)")
		} else {
			log.Println("Starting server with write tools enabled")
		}
	}

	if err := registerAllTools(mcpSrv, serverContext, cfg.ReadOnly); err != nil {
		return err
	}

	switch cfg.Transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		fmt.Printf("Starting google-calendar-server with %s transport...\n", cfg.Transport)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, serviceClient, cfg.HTTPAddr, metricsServer, provider)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
	}
}

// runStdioServer blocks on the stdio transport until the client closes the
// stream.
func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools wires the calendar tools and the service resources into
// the MCP server.
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, ctx, readOnly); err != nil {
		return fmt.Errorf("failed to register Calendar tools: %w", err)
	}
	if err := resources.RegisterServiceResources(mcpSrv, ctx); err != nil {
		return fmt.Errorf("failed to register service resources: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, serviceClient *service.Client, addr string, metricsServer *server.MetricsServer, instrProvider *instrumentation.Provider) error {
	httpServer := server.NewMCPHTTPServer(mcpSrv, server.DefaultMCPEndpointPath)

	// Set up health checker for health check endpoints. Readiness follows
	// the reachability of the calendar agent API.
	healthChecker := server.NewHealthChecker(serverContext)
	if serviceClient != nil {
		healthChecker.SetUpstreamCheck(serviceClient.Health)
	}
	httpServer.SetHealthChecker(healthChecker)

	// Set up HTTP instrumentation for metrics
	if instrProvider != nil && instrProvider.Enabled() {
		httpServer.SetMetrics(instrProvider.Metrics())
	}

	fmt.Printf("Streamable HTTP server starting on %s\n", addr)
	fmt.Printf("  MCP endpoint: %s\n", httpServer.EndpointPath())
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")
	if serviceClient != nil {
		fmt.Printf("  Calendar agent API: %s\n", serviceClient.BaseURL())
	}
	if metricsServer != nil {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", metricsServer.Addr())
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		// Fail readiness first so probes drop this instance before the drain
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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
