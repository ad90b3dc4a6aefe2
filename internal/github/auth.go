package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"
)

// InstallationToken mints a short-lived token for a GitHub App installation.
// It lets operators crawl repositories the app is installed on without a
// personal access token.
func InstallationToken(ctx context.Context, appID int64, privateKeyPath string, installationID int64, logger *slog.Logger) (string, error) {
	logger.Info("creating GitHub installation token", "installation_id", installationID)

	privateKey, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return "", fmt.Errorf("failed to read private key from %s: %w", privateKeyPath, err)
	}

	// The apps transport signs JWTs; it can only talk to the GitHub App API.
	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, appID, privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	appClient := github.NewClient(&http.Client{Transport: appTransport})

	token, _, err := appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create installation token for installation ID %d: %w", installationID, err)
	}
	if token.GetToken() == "" {
		return "", fmt.Errorf("received an empty installation token")
	}
	logger.Info("installation token created", "installation_id", installationID, "expires_at", token.GetExpiresAt())
	return token.GetToken(), nil
}
