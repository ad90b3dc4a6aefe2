package llm_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/sevigo/goframe/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/llm"
	"github.com/sevigo/code-sentry/mocks"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetriever_Retrieve(t *testing.T) {
	testCases := []struct {
		name      string
		numDocs   int
		wantLimit int
		docs      []schema.Document
		searchErr error
		want      []string
		wantErr   bool
	}{
		{
			name:      "rank order preserved",
			wantLimit: 5,
			docs: []schema.Document{
				{PageContent: "first"},
				{PageContent: "second"},
			},
			want: []string{"first", "second"},
		},
		{
			name:      "parent text preferred",
			numDocs:   3,
			wantLimit: 3,
			docs: []schema.Document{
				{PageContent: "chunk", Metadata: map[string]any{"full_parent_text": "func Parent() { chunk }"}},
				{PageContent: ""},
			},
			want: []string{"func Parent() { chunk }"},
		},
		{
			name:      "empty corpus",
			wantLimit: 5,
			want:      []string{},
		},
		{
			name:      "search failure",
			wantLimit: 5,
			searchErr: errors.New("qdrant unavailable"),
			wantErr:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockVectorStore(ctrl)
			store.EXPECT().
				SimilaritySearch(gomock.Any(), "acme/widgets", "Add widget\nAdds a widget", tc.wantLimit).
				Return(tc.docs, tc.searchErr)

			r := llm.NewRetriever(store, tc.numDocs, quietLogger())
			got, err := r.Retrieve(context.Background(), "Add widget\nAdds a widget", "acme/widgets")
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type lineChunker struct{}

func (lineChunker) Documents(path, content string) ([]schema.Document, error) {
	if path == "broken.go" {
		return nil, errors.New("syntax error")
	}
	return []schema.Document{schema.NewDocument(content, map[string]any{"source": path})}, nil
}

func TestIndexer_Index(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)

	var stored []schema.Document
	store.EXPECT().AddDocuments(gomock.Any(), "acme/widgets", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, docs []schema.Document) error {
			stored = append(stored, docs...)
			return nil
		}).MinTimes(1)

	ix := llm.NewIndexer(store, lineChunker{}, quietLogger())
	n, err := ix.Index(context.Background(), "acme/widgets", []core.CrawlEntry{
		{Path: "README.md", Content: "# widgets"},
		{Path: "broken.go", Content: "func ("},
		{Path: "main.go", Content: "package main"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, stored, 2)
	assert.Equal(t, "README.md", stored[0].Metadata["source"])
	assert.Equal(t, "main.go", stored[1].Metadata["source"])
}

func TestIndexer_IndexStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().AddDocuments(gomock.Any(), "acme/widgets", gomock.Any()).Return(errors.New("disk full"))

	ix := llm.NewIndexer(store, lineChunker{}, quietLogger())
	_, err := ix.Index(context.Background(), "acme/widgets", []core.CrawlEntry{{Path: "a.go", Content: "package a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestIndexer_Drop(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().DeleteScope(gomock.Any(), "acme/widgets").Return(nil)

	ix := llm.NewIndexer(store, lineChunker{}, quietLogger())
	require.NoError(t, ix.Drop(context.Background(), "acme/widgets"))
}
