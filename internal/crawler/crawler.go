// Package crawler walks a repository through the host's contents API and
// collects the text files used as retrieval context.
package crawler

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sevigo/code-sentry/internal/core"
	"github.com/sevigo/code-sentry/internal/github"
)

// TreeReader is the part of the GitHub gateway the crawler needs. The
// credential is bound to the reader.
type TreeReader interface {
	GetTreeEntry(ctx context.Context, owner, repo, path string) (*github.TreeEntry, error)
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithConcurrency caps the number of in-flight host calls. Values above one
// switch the crawl from a sequential depth-first walk to a bounded fan-out.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithRepoConfig adds the exclusions of a repository's .code-sentry.yml.
func WithRepoConfig(cfg *core.RepoConfig) Option {
	return func(c *Crawler) {
		if cfg == nil {
			return
		}
		c.exts = newExtSet(defaultDenylist, cfg.ExcludeExts)
		c.excludeDirs = make(map[string]struct{}, len(cfg.ExcludeDirs))
		for _, d := range cfg.ExcludeDirs {
			c.excludeDirs[strings.Trim(d, "/")] = struct{}{}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// Crawler collects repository files. It is safe for concurrent use.
type Crawler struct {
	concurrency int
	exts        extSet
	excludeDirs map[string]struct{}
	logger      *slog.Logger
}

// New returns a Crawler with the default denylist and a sequential walk.
func New(opts ...Option) *Crawler {
	c := &Crawler{
		concurrency: 1,
		exts:        defaultExts,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl returns every non-denylisted file under rootPath, depth-first, in the
// order the host lists directory children. An empty rootPath is the repository root.
func (c *Crawler) Crawl(ctx context.Context, reader TreeReader, owner, repo, rootPath string) ([]core.CrawlEntry, error) {
	w := &walk{
		crawler: c,
		reader:  reader,
		owner:   owner,
		repo:    repo,
	}
	if c.concurrency > 1 {
		w.sem = semaphore.NewWeighted(int64(c.concurrency))
	}

	c.logger.Debug("crawling repository", "repo", owner+"/"+repo, "path", rootPath, "concurrency", c.concurrency)

	root, err := w.get(ctx, rootPath)
	if err != nil {
		return nil, err
	}
	if !root.IsDir() {
		if c.exts.matches(root.File.Path) {
			return []core.CrawlEntry{}, nil
		}
		entry, ok, err := c.decode(root.File)
		if err != nil || !ok {
			return []core.CrawlEntry{}, err
		}
		return []core.CrawlEntry{entry}, nil
	}

	entries, err := w.dir(ctx, root.Dir)
	if err != nil {
		return nil, err
	}
	c.logger.Info("repository crawled", "repo", owner+"/"+repo, "path", rootPath, "files", len(entries))
	return entries, nil
}

type walk struct {
	crawler *Crawler
	reader  TreeReader
	owner   string
	repo    string
	// sem is nil for a sequential walk.
	sem *semaphore.Weighted
}

func (w *walk) get(ctx context.Context, p string) (*github.TreeEntry, error) {
	if w.sem != nil {
		if err := w.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer w.sem.Release(1)
	}
	entry, err := w.reader.GetTreeEntry(ctx, w.owner, w.repo, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s:%s: %w", w.owner, w.repo, p, err)
	}
	return entry, nil
}

// dir visits the children of one directory listing and concatenates their
// entries in listing order.
func (w *walk) dir(ctx context.Context, children []github.DirEntry) ([]core.CrawlEntry, error) {
	if w.sem == nil {
		var out []core.CrawlEntry
		for _, child := range children {
			entries, err := w.child(ctx, child)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		return nonNil(out), nil
	}

	results := make([][]core.CrawlEntry, len(children))
	g, gctx := errgroup.WithContext(ctx)
	for i, child := range children {
		g.Go(func() error {
			entries, err := w.child(gctx, child)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []core.CrawlEntry
	for _, r := range results {
		out = append(out, r...)
	}
	return nonNil(out), nil
}

func (w *walk) child(ctx context.Context, child github.DirEntry) ([]core.CrawlEntry, error) {
	c := w.crawler
	switch child.Type {
	case "file":
		if c.exts.matches(child.Path) {
			return nil, nil
		}
		entry, err := w.get(ctx, child.Path)
		if err != nil {
			return nil, err
		}
		if entry.IsDir() {
			return nil, nil
		}
		file, ok, err := c.decode(entry.File)
		if err != nil || !ok {
			return nil, err
		}
		return []core.CrawlEntry{file}, nil
	case "dir":
		if c.isExcludedDir(child.Path) {
			return nil, nil
		}
		entry, err := w.get(ctx, child.Path)
		if err != nil {
			return nil, err
		}
		return w.dir(ctx, entry.Dir)
	default:
		// symlinks and submodules are not followed
		return nil, nil
	}
}

func (c *Crawler) isExcludedDir(p string) bool {
	if len(c.excludeDirs) == 0 {
		return false
	}
	if _, ok := c.excludeDirs[p]; ok {
		return true
	}
	for _, part := range strings.Split(p, "/") {
		if _, ok := c.excludeDirs[part]; ok {
			return true
		}
	}
	return false
}

// decode turns a file's transport encoding into text. ok is false when the
// host did not inline the content.
func (c *Crawler) decode(f *github.FileEntry) (core.CrawlEntry, bool, error) {
	switch f.Encoding {
	case "base64":
		raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(f.Content, "\n", ""))
		if err != nil {
			return core.CrawlEntry{}, false, fmt.Errorf("failed to decode %s: %w", f.Path, err)
		}
		return core.CrawlEntry{Path: f.Path, Content: string(raw)}, true, nil
	case "":
		return core.CrawlEntry{Path: f.Path, Content: f.Content}, true, nil
	default:
		c.logger.Debug("skipping file without inline content", "path", f.Path, "encoding", f.Encoding, "size", f.Size)
		return core.CrawlEntry{}, false, nil
	}
}

func nonNil(entries []core.CrawlEntry) []core.CrawlEntry {
	if entries == nil {
		return []core.CrawlEntry{}
	}
	return entries
}
