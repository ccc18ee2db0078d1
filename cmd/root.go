package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd is the base command; subcommands attach to it in init.
var rootCmd = &cobra.Command{
	Use:   "google-calender-mcp-server",
	Short: "Google Calendar agent with an HTTP API and MCP tools",
	Long: `google-calender-mcp-server manages a Google Calendar and notifies
attendees about changes by email.

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants (default)
  - The calendar agent HTTP API the MCP tools talk to`,
	SilenceUsage: true,
}

// version is injected by main at startup
var version = "dev"

// SetVersion records the build version and exposes it through --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the CLI.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "google-calender-mcp-server version %s\n" .Version}}`)

	// Load .env if present; a missing file is not an error
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	// A bare invocation starts the MCP server
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAPICmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
