package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sevigo/code-sentry/internal/config"
	"github.com/sevigo/code-sentry/internal/crawler"
	"github.com/sevigo/code-sentry/internal/github"
	"github.com/sevigo/code-sentry/internal/logger"
	"github.com/sevigo/code-sentry/internal/repository"
)

var (
	installationID   int64
	crawlConcurrency int
	crawlJSON        bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl owner/repo [path]",
	Short: "List the files the crawler would index",
	Long: `Crawl walks the repository through the GitHub contents API exactly as
connect and reindex do, honoring .code-sentry.yml, and prints every file it
keeps. It needs no database.

Authenticate with --github-token, or with --installation-id when a GitHub App
is configured (github.app_id and github.private_key_path).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCrawl,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	crawlCmd.Flags().Int64Var(&installationID, "installation-id", 0, "GitHub App installation to mint a token for")
	crawlCmd.Flags().IntVarP(&crawlConcurrency, "concurrency", "c", 0, "Parallel host calls (defaults to crawler.concurrency)")
	crawlCmd.Flags().BoolVar(&crawlJSON, "json", false, "Output entries as JSON, including content")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(_ *cobra.Command, args []string) error {
	owner, repo, err := repoArg(args[0])
	if err != nil {
		return err
	}
	rootPath := ""
	if len(args) == 2 {
		rootPath = args[1]
	}
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.Logging, os.Stderr)

	tok := token()
	if tok == "" {
		if installationID == 0 || cfg.GitHub.AppID == 0 {
			return fmt.Errorf("no credentials\n\nTip: pass --github-token, or --installation-id with github.app_id configured")
		}
		tok, err = github.InstallationToken(ctx, cfg.GitHub.AppID, cfg.GitHub.PrivateKeyPath, installationID, log)
		if err != nil {
			return err
		}
	}

	clients, err := github.NewClientFactory(cfg.GitHub.APIURL, log)
	if err != nil {
		return err
	}
	client := clients.ForToken(ctx, tok)

	concurrency := cfg.Crawler.Concurrency
	if crawlConcurrency > 0 {
		concurrency = crawlConcurrency
	}
	repoCfg, err := repository.LoadRepoConfig(ctx, client, owner, repo, log)
	if err != nil {
		return err
	}

	entries, err := crawler.New(
		crawler.WithConcurrency(concurrency),
		crawler.WithRepoConfig(repoCfg),
		crawler.WithLogger(log),
	).Crawl(ctx, client, owner, repo, rootPath)
	if err != nil {
		return err
	}

	if crawlJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PATH\tBYTES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\n", e.Path, len(e.Content))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	successColor.Printf("%d files\n", len(entries))
	return nil
}
