package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/code-sentry/internal/core"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = raw.Close()
	})
	return sqlx.NewDb(raw, "postgres"), mock
}

func TestFindRepositoryByOwnerAndName(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)
	now := time.Now()

	cols := []string{"id", "user_id", "github_id", "owner", "name", "full_name", "webhook_id", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT (.+) FROM repositories WHERE owner = \$1 AND name = \$2`).
		WithArgs("acme", "widgets").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(7, "user-1", 123, "acme", "widgets", "acme/widgets", 99, now, now))

	repo, err := store.FindRepositoryByOwnerAndName(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	assert.Equal(t, int64(7), repo.ID)
	assert.Equal(t, "user-1", repo.UserID)
	assert.Equal(t, int64(99), repo.WebhookID)
}

func TestFindRepositoryByOwnerAndName_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery(`FROM repositories`).
		WithArgs("acme", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.FindRepositoryByOwnerAndName(context.Background(), "acme", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestFindAccountByUserAndProvider(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery(`FROM accounts WHERE user_id = \$1 AND provider_id = \$2`).
		WithArgs("user-1", core.ProviderGitHub).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "provider_id", "access_token"}).
			AddRow(1, "user-1", "github", "tok"))

	acc, err := store.FindAccountByUserAndProvider(context.Background(), "user-1", core.ProviderGitHub)
	require.NoError(t, err)
	assert.Equal(t, "tok", acc.AccessToken)

	mock.ExpectQuery(`FROM accounts`).
		WithArgs("user-2", core.ProviderGitHub).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = store.FindAccountByUserAndProvider(context.Background(), "user-2", core.ProviderGitHub)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestInsertReviewRecord(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)
	now := time.Now()

	rec := &core.ReviewRecord{
		RepositoryID: 7,
		PRNumber:     42,
		PRTitle:      "Add widget",
		PRURL:        "https://github.com/acme/widgets/pull/42",
		ReviewText:   "LGTM",
		Status:       core.ReviewStatusCompleted,
	}
	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs(int64(7), 42, "Add widget", rec.PRURL, "LGTM", core.ReviewStatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, now))

	require.NoError(t, store.InsertReviewRecord(context.Background(), rec))
	assert.Equal(t, int64(11), rec.ID)
	assert.Equal(t, now, rec.CreatedAt)
}

func TestInsertReviewRecord_Error(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery(`INSERT INTO reviews`).WillReturnError(errors.New("connection reset"))

	err := store.InsertReviewRecord(context.Background(), &core.ReviewRecord{PRNumber: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestListReviewsForPR(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)
	now := time.Now()

	cols := []string{"id", "repository_id", "pr_number", "pr_title", "pr_url", "review", "status", "created_at"}
	mock.ExpectQuery(`FROM reviews WHERE repository_id = \$1 AND pr_number = \$2 ORDER BY created_at DESC`).
		WithArgs(int64(7), 42).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, 7, 42, "t", "u", "second", "failed", now).
			AddRow(1, 7, 42, "t", "u", "first", "completed", now.Add(-time.Hour)))

	records, err := store.ListReviewsForPR(context.Background(), 7, 42)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, core.ReviewStatusFailed, records[0].Status)
	assert.Equal(t, "first", records[1].ReviewText)
}

func TestUpsertRepository(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)
	now := time.Now()

	repo := &core.Repository{UserID: "user-1", Owner: "acme", Name: "widgets", FullName: "acme/widgets", WebhookID: 99}
	mock.ExpectQuery(`INSERT INTO repositories (.+) ON CONFLICT \(owner, name\) DO UPDATE`).
		WithArgs("user-1", int64(0), "acme", "widgets", "acme/widgets", int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	require.NoError(t, store.UpsertRepository(context.Background(), repo))
	assert.Equal(t, int64(7), repo.ID)
}

func TestDeleteRepository(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectExec(`DELETE FROM repositories WHERE id = \$1`).WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.DeleteRepository(context.Background(), 7))

	mock.ExpectExec(`DELETE FROM repositories`).WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, store.DeleteRepository(context.Background(), 8), core.ErrNotFound)
}
