package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/instrumentation"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/server"
)

// MetricsConfig holds the metrics server settings shared by the serve and
// api commands. Each command picks its own default address so both
// processes can run on one host.
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// loadMetricsEnvVars applies METRICS_ENABLED and METRICS_ADDR for flags the
// user did not set explicitly.
func loadMetricsEnvVars(cmd *cobra.Command, m *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if v := os.Getenv("METRICS_ENABLED"); v != "" {
			if parsed, err := strconv.ParseBool(v); err == nil {
				m.Enabled = parsed
			} else {
				log.Printf("Warning: invalid METRICS_ENABLED value %q (expected true/false), using default", v)
			}
		}
	}

	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			m.Addr = addr
		}
	}
}

// startMetricsServer launches the scrape endpoint and waits until its
// listener accepts connections, so a taken port fails the command instead
// of surfacing at scrape time. Returns nil when metrics are disabled or
// instrumentation is off.
func startMetricsServer(cfg MetricsConfig, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	if !cfg.Enabled || !provider.Enabled() {
		return nil, nil
	}

	srv, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    cfg.Addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	ready := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		if err := srv.StartWithReadySignal(ready); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ready:
		log.Printf("Metrics server started on %s", srv.Addr())
		return srv, nil
	case err := <-errCh:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

// stopMetricsServer drains the scrape endpoint with a bounded timeout.
// Safe to call with nil.
func stopMetricsServer(srv *server.MetricsServer) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during metrics server shutdown: %v", err)
	}
}
