// Package gitsource fetches post content from a git repository so a site can
// be built straight from its source repo (CI, remote authoring).
package gitsource

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/postbuilder/internal/logfields"
)

// Fetcher clones content repositories into throwaway checkouts.
type Fetcher struct {
	baseDir string // parent for temp checkouts; "" means the OS temp dir
}

// NewFetcher creates a fetcher. baseDir may be empty.
func NewFetcher(baseDir string) *Fetcher { return &Fetcher{baseDir: baseDir} }

// Fetch clones url at branch (default branch when empty) into a fresh
// temporary directory and returns its path. The caller owns the directory
// and removes it when the run ends.
func (f *Fetcher) Fetch(ctx context.Context, url, branch string) (string, error) {
	checkout, err := os.MkdirTemp(f.baseDir, "postbuilder-content-*")
	if err != nil {
		return "", fmt.Errorf("create checkout directory: %w", err)
	}

	opts := &git.CloneOptions{URL: url}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}

	slog.Debug("Cloning content repository", logfields.URL(url), logfields.Path(checkout))
	repo, err := git.PlainCloneContext(ctx, checkout, false, opts)
	if err != nil {
		_ = os.RemoveAll(checkout)
		return "", fmt.Errorf("clone %s: %w", url, err)
	}

	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Content repository cloned",
			logfields.URL(url),
			slog.String("commit", ref.Hash().String()[:8]),
			logfields.Path(checkout))
	} else {
		slog.Info("Content repository cloned", logfields.URL(url), logfields.Path(checkout))
	}
	return checkout, nil
}
