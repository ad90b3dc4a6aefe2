package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/mocks"
)

func TestRecorder_Record(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	rec := &core.ReviewRecord{RepositoryID: 7, PRNumber: 1, Status: core.ReviewStatusCompleted}

	store.EXPECT().InsertReviewRecord(gomock.Any(), rec).Return(errors.New("connection reset"))

	err := NewRecorder(store, quietLogger()).Record(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record review")
}

func TestRecorder_RecordFailure(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		setup     func(store *mocks.MockStore)
		wantTitle string
	}{
		{
			name:  "writes failed record",
			title: "Add widget",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().FindRepositoryByOwnerAndName(gomock.Any(), "acme", "widgets").Return(testRepo, nil)
			},
			wantTitle: "Add widget",
		},
		{
			name: "falls back to placeholder title",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().FindRepositoryByOwnerAndName(gomock.Any(), "acme", "widgets").Return(testRepo, nil)
			},
			wantTitle: failedFetchTitle,
		},
		{
			name: "unconnected repository is skipped",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().FindRepositoryByOwnerAndName(gomock.Any(), "acme", "widgets").Return(nil, core.ErrNotFound)
			},
		},
		{
			name: "lookup error is swallowed",
			setup: func(store *mocks.MockStore) {
				store.EXPECT().FindRepositoryByOwnerAndName(gomock.Any(), "acme", "widgets").Return(nil, errors.New("timeout"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockStore(ctrl)
			tt.setup(store)

			if tt.wantTitle != "" {
				store.EXPECT().InsertReviewRecord(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *core.ReviewRecord) error {
						assert.Equal(t, int64(7), rec.RepositoryID)
						assert.Equal(t, tt.wantTitle, rec.PRTitle)
						assert.Equal(t, "https://github.com/acme/widgets/pull/42", rec.PRURL)
						assert.Equal(t, "boom", rec.ReviewText)
						assert.Equal(t, core.ReviewStatusFailed, rec.Status)
						return nil
					})
			}

			NewRecorder(store, quietLogger()).RecordFailure(context.Background(), "acme", "widgets", 42, tt.title, "boom")
		})
	}
}
