package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calagent/calagent/internal/google"
)

func newAuthCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "auth [account]",
		Short: "Authorize access to a Google account",
		Long: `Run the OAuth flow for a Google account and cache the resulting token.

The agent reads calendar events and reminders through this token. Without an
account argument the "default" account is used; named accounts let one
deployment serve several calendars.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account := "default"
			if len(args) > 0 {
				account = args[0]
			}
			return runAuth(cmd, account, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-authorize even if a cached token exists")

	return cmd
}

func runAuth(cmd *cobra.Command, account string, force bool) error {
	out := cmd.OutOrStdout()

	if google.HasTokenForAccount(account) && !force {
		fmt.Fprintf(out, "Account %q is already authorized. Use --force to re-authorize.\n", account)
		return nil
	}

	fmt.Fprintf(out, "Visit the following URL to authorize account %q:\n\n%s\n\n", account, google.GetAuthURL())
	fmt.Fprint(out, "Enter the authorization code: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}

	authCode := strings.TrimSpace(line)
	if authCode == "" {
		return fmt.Errorf("no authorization code provided")
	}

	if err := google.SaveTokenForAccount(cmd.Context(), account, authCode); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Fprintf(out, "Token saved for account %q.\n", account)
	return nil
}
