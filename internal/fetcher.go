package internal

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Fetcher materializes a repository checkout into a workspace and
// reads the exact revision of an existing checkout. Split into two
// operations because the authoritative revision read happens after the
// fetch and supersedes the optimistic resolver guess.
type Fetcher interface {
	Fetch(ctx context.Context, loc SourceLocation, dir string) error
	HeadRevision(dir string) (string, error)
}

type GitFetcher struct{}

func NewGitFetcher() *GitFetcher {
	return &GitFetcher{}
}

// Fetch performs a shallow, single-branch clone into dir.
func (f *GitFetcher) Fetch(ctx context.Context, loc SourceLocation, dir string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          loc.CloneURL(),
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		return &FetchError{URL: loc.CloneURL(), Err: err}
	}
	return nil
}

// HeadRevision reads the commit hash the checkout in dir points at.
func (f *GitFetcher) HeadRevision(dir string) (string, error) {
	gitFs := osfs.New(filepath.Join(dir, git.GitDirName))
	storage := filesystem.NewStorage(gitFs, cache.NewObjectLRUDefault())
	wt := osfs.New(dir)

	repo, err := git.Open(storage, wt)
	if err != nil {
		return "", fmt.Errorf("open checkout: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}

	return head.Hash().String(), nil
}
