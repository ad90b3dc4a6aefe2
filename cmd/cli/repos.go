package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/code-sentry/internal/wire"
)

var connectUser string

var connectCmd = &cobra.Command{
	Use:   "connect owner/repo",
	Short: "Register the review webhook on a repository and index its contents",
	Long: `Connect registers the code-sentry webhook on the repository (reusing an
existing one that already points at this service), records the repository for
the given user and indexes its files for context retrieval.

The user must have a GitHub token stored with "sentry-cli token".`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		owner, repo, err := repoArg(args[0])
		if err != nil {
			return err
		}
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		defer cleanup()

		titleColor.Printf("Connecting %s/%s\n", owner, repo)
		res, err := app.Repos.Connect(ctx, connectUser, owner, repo)
		if err != nil {
			return err
		}
		successColor.Printf("✓ Connected (webhook %d)\n", res.Repository.WebhookID)
		dimColor.Printf("  %d files indexed as %d documents\n", res.Files, res.Documents)
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect owner/repo",
	Short: "Remove the review webhook and forget the repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		owner, repo, err := repoArg(args[0])
		if err != nil {
			return err
		}
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		defer cleanup()

		if err := app.Repos.Disconnect(ctx, owner, repo); err != nil {
			return err
		}
		successColor.Printf("✓ Disconnected %s/%s\n", owner, repo)
		return nil
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex owner/repo",
	Short: "Rebuild the retrieval corpus of a connected repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		owner, repo, err := repoArg(args[0])
		if err != nil {
			return err
		}
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		defer cleanup()

		res, err := app.Repos.Reindex(ctx, owner, repo)
		if err != nil {
			return err
		}
		successColor.Printf("✓ Reindexed %s: %d files, %d documents\n", res.Repository.FullName, res.Files, res.Documents)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	connectCmd.Flags().StringVarP(&connectUser, "user", "u", "", "ID of the user the repository belongs to")
	_ = connectCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(connectCmd, disconnectCmd, reindexCmd)
}
