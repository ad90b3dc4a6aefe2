package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	// import db drivers
	_ "github.com/lib/pq"

	"github.com/sevigo/code-sentry/internal/core"
)

// Store defines the interface for all relational database operations.
// Lookups return an error wrapping core.ErrNotFound when no row matches.
//
//go:generate mockgen -destination=../../mocks/mock_store.go -package=mocks . Store
type Store interface {
	FindRepositoryByOwnerAndName(ctx context.Context, owner, name string) (*core.Repository, error)
	UpsertRepository(ctx context.Context, repo *core.Repository) error
	DeleteRepository(ctx context.Context, id int64) error

	FindAccountByUserAndProvider(ctx context.Context, userID, providerID string) (*core.Account, error)
	UpsertAccount(ctx context.Context, account *core.Account) error

	InsertReviewRecord(ctx context.Context, record *core.ReviewRecord) error
	ListReviewsForPR(ctx context.Context, repositoryID int64, prNumber int) ([]*core.ReviewRecord, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a new Store
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) FindRepositoryByOwnerAndName(ctx context.Context, owner, name string) (*core.Repository, error) {
	query := `
		SELECT id, user_id, github_id, owner, name, full_name, webhook_id, created_at, updated_at
		FROM repositories
		WHERE owner = $1 AND name = $2`

	var repo core.Repository
	if err := s.db.GetContext(ctx, &repo, query, owner, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("repository %s/%s: %w", owner, name, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find repository %s/%s: %w", owner, name, err)
	}
	return &repo, nil
}

// UpsertRepository inserts the repository or updates the existing row with the
// same owner and name. ID and timestamps are filled in from the database.
func (s *postgresStore) UpsertRepository(ctx context.Context, repo *core.Repository) error {
	query := `
		INSERT INTO repositories (user_id, github_id, owner, name, full_name, webhook_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner, name) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			github_id = EXCLUDED.github_id,
			full_name = EXCLUDED.full_name,
			webhook_id = EXCLUDED.webhook_id,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	row := s.db.QueryRowxContext(ctx, query, repo.UserID, repo.GitHubID, repo.Owner, repo.Name, repo.FullName, repo.WebhookID)
	if err := row.Scan(&repo.ID, &repo.CreatedAt, &repo.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert repository %s: %w", repo.FullName, err)
	}
	return nil
}

func (s *postgresStore) DeleteRepository(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM repositories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete repository %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("repository %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (s *postgresStore) FindAccountByUserAndProvider(ctx context.Context, userID, providerID string) (*core.Account, error) {
	query := `
		SELECT id, user_id, provider_id, access_token
		FROM accounts
		WHERE user_id = $1 AND provider_id = $2`

	var acc core.Account
	if err := s.db.GetContext(ctx, &acc, query, userID, providerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s account for user %s: %w", providerID, userID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &acc, nil
}

func (s *postgresStore) UpsertAccount(ctx context.Context, account *core.Account) error {
	query := `
		INSERT INTO accounts (user_id, provider_id, access_token)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, provider_id) DO UPDATE SET access_token = EXCLUDED.access_token
		RETURNING id`

	row := s.db.QueryRowxContext(ctx, query, account.UserID, account.ProviderID, account.AccessToken)
	if err := row.Scan(&account.ID); err != nil {
		return fmt.Errorf("failed to upsert account for user %s: %w", account.UserID, err)
	}
	return nil
}

// InsertReviewRecord appends a review record. Records are never updated.
func (s *postgresStore) InsertReviewRecord(ctx context.Context, record *core.ReviewRecord) error {
	query := `
		INSERT INTO reviews (repository_id, pr_number, pr_title, pr_url, review, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	row := s.db.QueryRowxContext(ctx, query,
		record.RepositoryID, record.PRNumber, record.PRTitle, record.PRURL, record.ReviewText, record.Status)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert review for PR #%d: %w", record.PRNumber, err)
	}
	return nil
}

// ListReviewsForPR returns every review of a pull request, newest first.
func (s *postgresStore) ListReviewsForPR(ctx context.Context, repositoryID int64, prNumber int) ([]*core.ReviewRecord, error) {
	query := `
		SELECT id, repository_id, pr_number, pr_title, pr_url, review, status, created_at
		FROM reviews
		WHERE repository_id = $1 AND pr_number = $2
		ORDER BY created_at DESC, id DESC`

	var records []*core.ReviewRecord
	if err := s.db.SelectContext(ctx, &records, query, repositoryID, prNumber); err != nil {
		return nil, fmt.Errorf("failed to list reviews for PR #%d: %w", prNumber, err)
	}
	return records, nil
}
