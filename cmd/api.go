package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/agent"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/calendar"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/google"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/instrumentation"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/logging"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/notify"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/server"
)

// defaultAPIMetricsAddr keeps the API's metrics port clear of the MCP
// server's default (:9090) so both processes can share a host.
const defaultAPIMetricsAddr = ":9091"

// apiConfig holds the resolved api settings after flag/env merging.
type apiConfig struct {
	Debug    bool
	Addr     string
	Timezone string
	Account  string
	Metrics  MetricsConfig
}

func newAPICmd() *cobra.Command {
	var (
		debugMode bool
		addr      string
		timezone  string
		account   string

		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Start the calendar agent HTTP API",
		Long: `Start the HTTP API that owns the calendar agent. This is the process the
MCP tools forward their calls to.

Routes:
  GET    /              status message
  GET    /health        health probe
  GET    /events        next 10 upcoming events
  POST   /schedule      create an event, email the attendees
  PUT    /event/update  partial update, email the attendees
  DELETE /event         delete an event, email the prior attendees

Scheduling, updating and deleting send best-effort notification emails over
SMTP; set EMAIL_ADDRESS and EMAIL_PASSWORD (an app password for Gmail) to
enable them. Without credentials the calendar operations still work and the
skipped deliveries are logged.

Requires a stored Google OAuth token; run the 'auth' command first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := apiConfig{
				Debug:    debugMode,
				Addr:     addr,
				Timezone: timezone,
				Account:  account,
				Metrics: MetricsConfig{
					Enabled: metricsEnabled,
					Addr:    metricsAddr,
				},
			}

			// Apply environment fallbacks for flags the user did not set
			loadAPIEnvVars(cmd, &cfg)

			return runAPI(cfg)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&addr, "addr", server.DefaultFacadeAddr, "Listen address for the API. Can also use FACADE_ADDR env var.")
	cmd.Flags().StringVar(&timezone, "timezone", defaultTimezone, "IANA timezone label for event times. Can also use TIMEZONE env var.")
	cmd.Flags().StringVar(&account, "account", "default", "Google account name whose token to use. Can also use GOOGLE_ACCOUNT env var.")

	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Serve Prometheus metrics on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", defaultAPIMetricsAddr, "Listen address for the metrics port. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadAPIEnvVars loads API configuration from environment variables.
// Environment variables only override flag values when the flag was not
// explicitly set.
func loadAPIEnvVars(cmd *cobra.Command, cfg *apiConfig) {
	if !cmd.Flags().Changed("addr") {
		if v := os.Getenv("FACADE_ADDR"); v != "" {
			cfg.Addr = v
		}
	}

	if !cmd.Flags().Changed("timezone") {
		if v := os.Getenv("TIMEZONE"); v != "" {
			cfg.Timezone = v
		}
	}

	if !cmd.Flags().Changed("account") {
		if v := os.Getenv("GOOGLE_ACCOUNT"); v != "" {
			cfg.Account = v
		}
	}

	loadMetricsEnvVars(cmd, &cfg.Metrics)
}

func runAPI(cfg apiConfig) error {
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
			log.Printf("Error during instrumentation shutdown: %v", err)
		}
	}()

	metricsServer, err := startMetricsServer(cfg.Metrics, provider)
	if err != nil {
		return err
	}
	defer stopMetricsServer(metricsServer)

	calendarClient, err := calendar.NewClient(shutdownCtx, calendar.Config{
		Account:  cfg.Account,
		TimeZone: cfg.Timezone,
	})
	if err != nil {
		if !google.HasTokenForAccount(cfg.Account) {
			return fmt.Errorf("%s", google.GetAuthenticationErrorMessage(cfg.Account))
		}
		return fmt.Errorf("failed to create calendar client: %w", err)
	}

	mailer := notify.NewMailer(notify.Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     smtpPortFromEnv(),
		Address:  os.Getenv("EMAIL_ADDRESS"),
		Password: os.Getenv("EMAIL_PASSWORD"),
	}, slog.Default())
	if !mailer.Configured() {
		slog.Warn("email credentials not configured, notification emails will be skipped")
	}

	agentOpts := []agent.Option{
		agent.WithLogger(logging.NewSlogAdapter(slog.Default())),
	}
	if provider.Enabled() {
		agentOpts = append(agentOpts, agent.WithMetrics(provider.Metrics()))
	}
	calendarAgent := agent.New(calendarClient, mailer, agentOpts...)

	facade, err := server.NewFacadeServer(server.FacadeConfig{
		Addr:  cfg.Addr,
		Agent: calendarAgent,
	})
	if err != nil {
		return fmt.Errorf("failed to create facade server: %w", err)
	}
	if provider.Enabled() {
		facade.SetMetrics(provider.Metrics())
	}

	fmt.Printf("Calendar agent API starting on %s\n", facade.Addr())
	fmt.Printf("  Account: %s\n", cfg.Account)
	fmt.Printf("  Timezone: %s\n", cfg.Timezone)
	if mailer.Configured() {
		fmt.Println("  Notifications: enabled")
	} else {
		fmt.Println("  Notifications: disabled (set EMAIL_ADDRESS and EMAIL_PASSWORD)")
	}
	if metricsServer != nil {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", metricsServer.Addr())
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := facade.Start(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		fmt.Println("Shutdown signal received, stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := facade.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down API server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("API server stopped with error: %w", err)
		}
		fmt.Println("API server stopped normally")
	}

	fmt.Println("API server gracefully stopped")
	return nil
}

// smtpPortFromEnv parses SMTP_PORT. Zero lets the mailer fall back to its
// default port.
func smtpPortFromEnv() int {
	portStr := os.Getenv("SMTP_PORT")
	if portStr == "" {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Printf("Warning: invalid SMTP_PORT value %q, using default", portStr)
		return 0
	}
	return port
}
