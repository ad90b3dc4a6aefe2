package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/code-sentry/internal/core"
)

var githubToken string

var rootCmd = &cobra.Command{
	Use:   "sentry-cli",
	Short: "sentry-cli is the command-line interface for code-sentry.",
	Long: `A CLI for administering code-sentry: connecting repositories, storing
access tokens, triggering reviews and inspecting review history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub token (defaults to CS_GITHUB_TOKEN)")

	if err := viper.BindPFlag("GITHUB_TOKEN", rootCmd.PersistentFlags().Lookup("github-token")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
}

// initConfig reads ENV variables for the CLI-only settings.
func initConfig() {
	viper.SetEnvPrefix("CS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func token() string {
	return viper.GetString("GITHUB_TOKEN")
}

// repoArg parses an "owner/repo" argument.
func repoArg(arg string) (string, string, error) {
	owner, repo, err := core.SplitFullName(arg)
	if err != nil {
		return "", "", fmt.Errorf("expected owner/repo, got %q", arg)
	}
	return owner, repo, nil
}
