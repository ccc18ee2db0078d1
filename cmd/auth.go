package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google and store an OAuth token",
		Long: `Run the out-of-band Google OAuth flow for the calendar scope.

Prints a consent URL; open it in a browser, approve access and paste the
resulting authorization code back into the terminal. The token is stored
under the user cache directory and picked up by the 'api' command.

Requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET to be set (a desktop-type
OAuth client from the Google Cloud console).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, account)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name to store the token under")

	return cmd
}

func runAuth(cmd *cobra.Command, account string) error {
	if os.Getenv("GOOGLE_CLIENT_ID") == "" || os.Getenv("GOOGLE_CLIENT_SECRET") == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
	}

	out := cmd.OutOrStdout()

	if google.HasTokenForAccount(account) {
		fmt.Fprintf(out, "A token for account %q already exists and will be replaced.\n\n", account)
	}

	fmt.Fprintf(out, "Open the following URL in a browser and approve access:\n\n%s\n\n", google.GetAuthURL())
	fmt.Fprint(out, "Enter the authorization code: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	code, err := reader.ReadString('\n')
	if err != nil && code == "" {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("authorization code must not be empty")
	}

	if err := google.SaveTokenForAccount(cmd.Context(), account, code); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Fprintf(out, "Token saved for account %q.\n", account)
	return nil
}
