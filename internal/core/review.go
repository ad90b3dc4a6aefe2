package core

import "time"

// ReviewStatus is the terminal state recorded for a pipeline run.
type ReviewStatus string

const (
	ReviewStatusCompleted ReviewStatus = "completed"
	ReviewStatusFailed    ReviewStatus = "failed"
)

// PullRequestData is the result of the first pipeline step.
type PullRequestData struct {
	Diff        string `json:"diff"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// AccessToken is never checkpointed.
	AccessToken string `json:"-"`
}

// ReviewRecord is a persisted, append-only pipeline outcome.
type ReviewRecord struct {
	ID           int64        `db:"id" json:"id"`
	RepositoryID int64        `db:"repository_id" json:"repository_id"`
	PRNumber     int          `db:"pr_number" json:"pr_number"`
	PRTitle      string       `db:"pr_title" json:"pr_title"`
	PRURL        string       `db:"pr_url" json:"pr_url"`
	ReviewText   string       `db:"review" json:"review"`
	Status       ReviewStatus `db:"status" json:"status"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// CrawlEntry is one non-binary file found by the repository crawler.
type CrawlEntry struct {
	Path    string
	Content string
}

// Repository is a GitHub repository connected by a user.
type Repository struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	GitHubID  int64     `db:"github_id" json:"github_id"`
	Owner     string    `db:"owner" json:"owner"`
	Name      string    `db:"name" json:"name"`
	FullName  string    `db:"full_name" json:"full_name"`
	WebhookID int64     `db:"webhook_id" json:"webhook_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Account links a user to an OAuth provider credential.
type Account struct {
	ID          int64  `db:"id"`
	UserID      string `db:"user_id"`
	ProviderID  string `db:"provider_id"`
	AccessToken string `db:"access_token"`
}

// ProviderGitHub is the provider id of GitHub accounts.
const ProviderGitHub = "github"
