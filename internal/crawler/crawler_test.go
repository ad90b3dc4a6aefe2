package crawler

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/github"
)

type fakeTree struct {
	mu      sync.Mutex
	entries map[string]*github.TreeEntry
	calls   []string

	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeTree) GetTreeEntry(_ context.Context, _, _, path string) (*github.TreeEntry, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	entry, ok := f.entries[path]
	if !ok {
		return nil, fmt.Errorf("get contents of %s: %w", path, core.ErrNotFound)
	}
	return entry, nil
}

func file(path, content string) *github.TreeEntry {
	return &github.TreeEntry{File: &github.FileEntry{
		Path:     path,
		Encoding: "base64",
		Content:  base64.StdEncoding.EncodeToString([]byte(content)),
	}}
}

func dir(children ...github.DirEntry) *github.TreeEntry {
	return &github.TreeEntry{Dir: children}
}

func f(path string) github.DirEntry { return github.DirEntry{Path: path, Type: "file"} }
func d(path string) github.DirEntry { return github.DirEntry{Path: path, Type: "dir"} }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRepo() *fakeTree {
	return &fakeTree{entries: map[string]*github.TreeEntry{
		"":            dir(f("README.md"), f("logo.png"), d("src")),
		"README.md":   file("README.md", "# widgets"),
		"logo.png":    file("logo.png", "binary"),
		"src":         dir(f("src/main.ts")),
		"src/main.ts": file("src/main.ts", "console.log(1)"),
	}}
}

func TestCrawl_DirectorySkipsDenylisted(t *testing.T) {
	tree := sampleRepo()
	c := New(WithLogger(quietLogger()))

	entries, err := c.Crawl(context.Background(), tree, "acme", "widgets", "")
	require.NoError(t, err)
	assert.Equal(t, []core.CrawlEntry{
		{Path: "README.md", Content: "# widgets"},
		{Path: "src/main.ts", Content: "console.log(1)"},
	}, entries)
	assert.NotContains(t, tree.calls, "logo.png", "denylisted files must not be fetched")
}

func TestCrawl_SingleFileRoot(t *testing.T) {
	tree := &fakeTree{entries: map[string]*github.TreeEntry{
		"diagram.svg": file("diagram.svg", "<svg/>"),
		"main.go":     file("main.go", "package main"),
	}}
	c := New(WithLogger(quietLogger()))

	entries, err := c.Crawl(context.Background(), tree, "acme", "widgets", "diagram.svg")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)

	entries, err = c.Crawl(context.Background(), tree, "acme", "widgets", "main.go")
	require.NoError(t, err)
	assert.Equal(t, []core.CrawlEntry{{Path: "main.go", Content: "package main"}}, entries)
}

func TestCrawl_EmptyDirectory(t *testing.T) {
	tree := &fakeTree{entries: map[string]*github.TreeEntry{"": dir()}}

	entries, err := New(WithLogger(quietLogger())).Crawl(context.Background(), tree, "acme", "widgets", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCrawl_DepthFirstHostOrder(t *testing.T) {
	tree := &fakeTree{entries: map[string]*github.TreeEntry{
		"":            dir(d("a"), f("z.go"), d("b")),
		"a":           dir(f("a/1.go"), d("a/deep")),
		"a/deep":      dir(f("a/deep/2.go")),
		"a/1.go":      file("a/1.go", "1"),
		"a/deep/2.go": file("a/deep/2.go", "2"),
		"z.go":        file("z.go", "z"),
		"b":           dir(f("b/3.go")),
		"b/3.go":      file("b/3.go", "3"),
	}}

	for _, concurrency := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			c := New(WithConcurrency(concurrency), WithLogger(quietLogger()))
			entries, err := c.Crawl(context.Background(), tree, "acme", "widgets", "")
			require.NoError(t, err)

			var paths []string
			for _, e := range entries {
				paths = append(paths, e.Path)
			}
			assert.Equal(t, []string{"a/1.go", "a/deep/2.go", "z.go", "b/3.go"}, paths)
		})
	}
}

func TestCrawl_CaseInsensitiveDenylist(t *testing.T) {
	tree := &fakeTree{entries: map[string]*github.TreeEntry{
		"":          dir(f("Photo.JPG"), f("Archive.Tar.GZ"), f("notes.txt")),
		"notes.txt": file("notes.txt", "hi"),
	}}

	entries, err := New(WithLogger(quietLogger())).Crawl(context.Background(), tree, "acme", "widgets", "")
	require.NoError(t, err)
	assert.Equal(t, []core.CrawlEntry{{Path: "notes.txt", Content: "hi"}}, entries)
}

func TestCrawl_RepoConfigExclusions(t *testing.T) {
	tree := &fakeTree{entries: map[string]*github.TreeEntry{
		"":           dir(f("go.sum"), f("main.go"), d("vendor"), d("pkg")),
		"main.go":    file("main.go", "package main"),
		"go.sum":     file("go.sum", "hashes"),
		"pkg":        dir(d("pkg/vendor"), f("pkg/lib.go")),
		"pkg/lib.go": file("pkg/lib.go", "package pkg"),
	}}
	cfg := &core.RepoConfig{ExcludeDirs: []string{"vendor"}, ExcludeExts: []string{".sum"}}

	entries, err := New(WithRepoConfig(cfg), WithLogger(quietLogger())).Crawl(context.Background(), tree, "acme", "widgets", "")
	require.NoError(t, err)
	assert.Equal(t, []core.CrawlEntry{
		{Path: "main.go", Content: "package main"},
		{Path: "pkg/lib.go", Content: "package pkg"},
	}, entries)
	assert.NotContains(t, tree.calls, "vendor")
	assert.NotContains(t, tree.calls, "pkg/vendor")
}

func TestCrawl_SkipsContentNotInlined(t *testing.T) {
	tree := &fakeTree{entries: map[string]*github.TreeEntry{
		"":          dir(f("big.sql"), f("small.sql"), github.DirEntry{Path: "link", Type: "symlink"}),
		"big.sql":   {File: &github.FileEntry{Path: "big.sql", Encoding: "none", Size: 5 << 20}},
		"small.sql": file("small.sql", "select 1"),
	}}

	entries, err := New(WithLogger(quietLogger())).Crawl(context.Background(), tree, "acme", "widgets", "")
	require.NoError(t, err)
	assert.Equal(t, []core.CrawlEntry{{Path: "small.sql", Content: "select 1"}}, entries)
}

func TestCrawl_PropagatesHostErrors(t *testing.T) {
	tree := &fakeTree{entries: map[string]*github.TreeEntry{
		"":          dir(f("README.md"), d("missing")),
		"README.md": file("README.md", "x"),
	}}

	for _, concurrency := range []int{1, 3} {
		c := New(WithConcurrency(concurrency), WithLogger(quietLogger()))
		_, err := c.Crawl(context.Background(), tree, "acme", "widgets", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrNotFound))
	}
}

func TestCrawl_ConcurrencyIsBounded(t *testing.T) {
	entries := map[string]*github.TreeEntry{}
	var children []github.DirEntry
	for i := range 20 {
		p := fmt.Sprintf("f%02d.go", i)
		children = append(children, f(p))
		entries[p] = file(p, p)
	}
	entries[""] = dir(children...)
	tree := &fakeTree{entries: entries, delay: 5 * time.Millisecond}

	out, err := New(WithConcurrency(3), WithLogger(quietLogger())).Crawl(context.Background(), tree, "acme", "widgets", "")
	require.NoError(t, err)
	require.Len(t, out, 20)
	assert.Equal(t, "f00.go", out[0].Path)
	assert.Equal(t, "f19.go", out[19].Path)
	assert.LessOrEqual(t, tree.peak.Load(), int32(3))
}

func TestDefaultDenylist(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"logo.png", true},
		{"docs/Manual.PDF", true},
		{"fonts/inter.woff2", true},
		{"README.md", false},
		{"Makefile", false},
		{"src/png.go", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, defaultExts.matches(tt.path), tt.path)
	}
}
