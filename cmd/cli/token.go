package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/wire"
)

var tokenCmd = &cobra.Command{
	Use:   "token user-id",
	Short: "Store a GitHub personal access token for a user",
	Long: `Token stores the GitHub token given with --github-token (or CS_GITHUB_TOKEN)
as the user's GitHub account credential. Reviews and repository connections
act on behalf of this token.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if token() == "" {
			return fmt.Errorf("no token given\n\nTip: pass --github-token or set CS_GITHUB_TOKEN")
		}
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		defer cleanup()

		account := &core.Account{UserID: args[0], ProviderID: core.ProviderGitHub, AccessToken: token()}
		if err := app.Store.UpsertAccount(ctx, account); err != nil {
			return err
		}
		successColor.Printf("✓ GitHub token stored for %s\n", args[0])
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(tokenCmd)
}
