package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/wire"
	"github.com/sevigo/code-sentry/internal/workflow"
)

var reviewCmd = &cobra.Command{
	Use:   "review [pr-url]",
	Short: "Review a pull request of a connected repository and wait for the result",
	Long: `Review runs the same pipeline as a pull_request webhook: it fetches the diff,
retrieves context from the repository corpus, generates a review, posts it as
a comment and records the outcome. The command waits until the run finishes.

Examples:
  sentry-cli review https://github.com/owner/repo/pull/123`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(reviewCmd)
}

func runReview(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	owner, repo, prNumber, err := core.ParsePullRequestURL(args[0])
	if err != nil {
		return fmt.Errorf("%w\n\nExpected format: https://github.com/owner/repo/pull/123", err)
	}

	titleColor.Println("code-sentry - PR Review")
	dimColor.Printf("   Target: %s/%s#%d\n\n", owner, repo, prNumber)

	app, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w\n\nTip: Check that your config.yaml exists and is valid", err)
	}
	defer cleanup()

	start := time.Now()
	runID, err := app.Trigger.RequestReview(ctx, owner, repo, prNumber)
	if err != nil {
		return err
	}
	dimColor.Printf("   Run: %s\n", runID)

	// Stop drains the queue, so it returns once the run has finished.
	app.Dispatcher.Stop()

	run, err := app.Engine.Store().GetRun(ctx, runID)
	if err != nil {
		return err
	}
	dimColor.Printf("   Finished in %s\n", time.Since(start).Round(time.Millisecond))

	switch run.State {
	case workflow.StateCompleted:
		successColor.Println("✓ Review posted")
	case workflow.StateFailed:
		errorColor.Printf("✗ Review failed: %s\n", run.Error)
		return fmt.Errorf("review run %s failed", runID)
	default:
		warnColor.Printf("! Review run is still %s, the server will resume it\n", run.State)
		return nil
	}

	return printLatestReview(ctx, app.Store, owner, repo, prNumber)
}
