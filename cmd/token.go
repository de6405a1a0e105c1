package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/calagent/calagent/internal/a2a"
	"github.com/calagent/calagent/internal/config"
)

func newTokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token [subject]",
		Short: "Mint a bearer session token for the agent endpoint",
		Long: `Mint a signed bearer token for an endpoint running with session auth
(JWT_SECRET set). Pass the token to clients via "calagent chat
--bearer-token" or an Authorization header.

The subject names the token holder and shows up anonymized in the endpoint's
logs. Token lifetime defaults to SESSION_EXPIRY_SECONDS from the
environment.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := "default"
			if len(args) > 0 {
				subject = args[0]
			}
			return runToken(cmd, subject, ttl)
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (e.g. 24h). Defaults to SESSION_EXPIRY_SECONDS.")

	return cmd
}

func runToken(cmd *cobra.Command, subject string, ttl time.Duration) error {
	cfg := config.FromEnv()
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set; the endpoint has no session auth to mint tokens for")
	}
	if ttl <= 0 {
		ttl = cfg.SessionExpiry
	}

	token, err := a2a.NewSessionToken(cfg.JWTSecret, subject, ttl)
	if err != nil {
		return fmt.Errorf("failed to mint session token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
