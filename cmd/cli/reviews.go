package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/code-sentry/internal/storage"
	"github.com/sevigo/code-sentry/internal/wire"
)

var (
	outputJSON bool
	showLatest bool
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews owner/repo pr-number",
	Short: "List the recorded reviews of a pull request",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		owner, repo, err := repoArg(args[0])
		if err != nil {
			return err
		}
		prNumber, err := strconv.Atoi(args[1])
		if err != nil || prNumber <= 0 {
			return fmt.Errorf("invalid pull request number %q", args[1])
		}
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		if showLatest {
			return printLatestReview(ctx, app.Store, owner, repo, prNumber)
		}

		repository, err := app.Store.FindRepositoryByOwnerAndName(ctx, owner, repo)
		if err != nil {
			return fmt.Errorf("repository %s/%s is not connected: %w", owner, repo, err)
		}
		records, err := app.Store.ListReviewsForPR(ctx, repository.ID, prNumber)
		if err != nil {
			return err
		}

		if outputJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(records)
		}

		if len(records) == 0 {
			warnColor.Printf("No reviews recorded for %s/%s#%d\n", owner, repo, prNumber)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tCREATED")
		for _, rec := range records {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", rec.ID, rec.Status, rec.PRTitle, rec.CreatedAt.Format(time.RFC822))
		}
		return w.Flush()
	},
}

func printLatestReview(ctx context.Context, store storage.Store, owner, repo string, prNumber int) error {
	repository, err := store.FindRepositoryByOwnerAndName(ctx, owner, repo)
	if err != nil {
		return fmt.Errorf("repository %s/%s is not connected: %w", owner, repo, err)
	}
	records, err := store.ListReviewsForPR(ctx, repository.ID, prNumber)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		warnColor.Printf("No reviews recorded for %s/%s#%d\n", owner, repo, prNumber)
		return nil
	}
	printRecord(records[0])
	return nil
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewsCmd.Flags().BoolVar(&outputJSON, "json", false, "Output reviews as JSON")
	reviewsCmd.Flags().BoolVar(&showLatest, "latest", false, "Render the latest review")
	rootCmd.AddCommand(reviewsCmd)
}
