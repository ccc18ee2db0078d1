package cmd

import (
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/server"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/service"
)

func defaultServeConfig() serveConfig {
	return serveConfig{
		Transport:  "stdio",
		HTTPAddr:   ":8001",
		ServiceURL: service.DefaultBaseURL,
		Timezone:   defaultTimezone,
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    server.DefaultMetricsAddr,
		},
	}
}

func TestLoadServeEnvVars(t *testing.T) {
	t.Run("env fills unset flags", func(t *testing.T) {
		t.Setenv("CALENDAR_SERVICE_URL", "http://env.example:5002")
		t.Setenv("TIMEZONE", "Europe/Berlin")
		t.Setenv("METRICS_ENABLED", "false")
		t.Setenv("METRICS_ADDR", ":9999")

		cmd := newServeCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg := defaultServeConfig()
		loadServeEnvVars(cmd, &cfg)

		if cfg.ServiceURL != "http://env.example:5002" {
			t.Errorf("ServiceURL = %q, want %q", cfg.ServiceURL, "http://env.example:5002")
		}
		if cfg.Timezone != "Europe/Berlin" {
			t.Errorf("Timezone = %q, want %q", cfg.Timezone, "Europe/Berlin")
		}
		if cfg.Metrics.Enabled {
			t.Error("Metrics.Enabled = true, want false")
		}
		if cfg.Metrics.Addr != ":9999" {
			t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9999")
		}
	})

	t.Run("flags take precedence over env", func(t *testing.T) {
		t.Setenv("CALENDAR_SERVICE_URL", "http://env.example:5002")
		t.Setenv("TIMEZONE", "Europe/Berlin")
		t.Setenv("METRICS_ENABLED", "false")

		cmd := newServeCmd()
		args := []string{
			"--service-url", "http://flag.example:5002",
			"--timezone", "UTC",
			"--metrics-enabled=true",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg := defaultServeConfig()
		cfg.ServiceURL = "http://flag.example:5002"
		cfg.Timezone = "UTC"
		loadServeEnvVars(cmd, &cfg)

		if cfg.ServiceURL != "http://flag.example:5002" {
			t.Errorf("ServiceURL = %q, want flag value to win", cfg.ServiceURL)
		}
		if cfg.Timezone != "UTC" {
			t.Errorf("Timezone = %q, want flag value to win", cfg.Timezone)
		}
		if !cfg.Metrics.Enabled {
			t.Error("Metrics.Enabled = false, want flag value to win")
		}
	})

	t.Run("invalid METRICS_ENABLED keeps the default", func(t *testing.T) {
		t.Setenv("METRICS_ENABLED", "banana")

		cmd := newServeCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg := defaultServeConfig()
		loadServeEnvVars(cmd, &cfg)

		if !cfg.Metrics.Enabled {
			t.Error("Metrics.Enabled = false, want default true for unparseable env value")
		}
	})

	t.Run("empty env leaves defaults untouched", func(t *testing.T) {
		t.Setenv("CALENDAR_SERVICE_URL", "")
		t.Setenv("TIMEZONE", "")
		t.Setenv("METRICS_ENABLED", "")
		t.Setenv("METRICS_ADDR", "")

		cmd := newServeCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg := defaultServeConfig()
		loadServeEnvVars(cmd, &cfg)

		if cfg.ServiceURL != service.DefaultBaseURL {
			t.Errorf("ServiceURL = %q, want default %q", cfg.ServiceURL, service.DefaultBaseURL)
		}
		if cfg.Timezone != defaultTimezone {
			t.Errorf("Timezone = %q, want default %q", cfg.Timezone, defaultTimezone)
		}
		if !cfg.Metrics.Enabled {
			t.Error("Metrics.Enabled = false, want default true")
		}
	})
}

func TestRegisterAllTools(t *testing.T) {
	tests := []struct {
		name      string
		readOnly  bool
		wantTools []string
	}{
		{
			name:     "write mode registers all tools",
			readOnly: false,
			wantTools: []string{
				"list_events",
				"schedule_event",
				"update_event",
				"delete_event",
			},
		},
		{
			name:      "read-only mode registers only list_events",
			readOnly:  true,
			wantTools: []string{"list_events"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := server.NewServerContext("UTC")
			defer sc.Shutdown()

			mcpSrv := mcpserver.NewMCPServer("test-server", "0.0.0",
				mcpserver.WithToolCapabilities(true),
				mcpserver.WithResourceCapabilities(false, false),
			)

			if err := registerAllTools(mcpSrv, sc, tt.readOnly); err != nil {
				t.Fatalf("registerAllTools() error = %v", err)
			}

			registered := make(map[string]bool)
			for _, serverTool := range mcpSrv.ListTools() {
				registered[serverTool.Tool.Name] = true
			}

			if len(registered) != len(tt.wantTools) {
				t.Errorf("registered %d tools, want %d (%v)", len(registered), len(tt.wantTools), registered)
			}
			for _, name := range tt.wantTools {
				if !registered[name] {
					t.Errorf("tool %q not registered", name)
				}
			}
		})
	}
}
