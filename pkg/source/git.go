package source

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/go-git/go-git/v5"
)

// Fetcher clones and updates git repositories.
type Fetcher interface {
	Clone(ctx context.Context, url, dir string) error
	Pull(ctx context.Context, dir string) error
}

// GitFetcher is the go-git backed Fetcher.
type GitFetcher struct {
	// Progress receives the remote's progress output, if set.
	Progress io.Writer
}

// NewGitFetcher returns a GitFetcher without progress output.
func NewGitFetcher() *GitFetcher {
	return &GitFetcher{}
}

// Clone makes a shallow clone of url at dir. The clone is made in a hidden
// sibling and renamed into place, so a failed clone leaves nothing behind.
func (g *GitFetcher) Clone(ctx context.Context, url, dir string) error {
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrCacheAccess, "cannot create %s", parent).
			WithDetail(errors.DetailPath, parent)
	}
	tmp, err := os.MkdirTemp(parent, ".clone-")
	if err != nil {
		return errors.Wrapf(err, errors.ErrCacheAccess, "cannot create clone directory in %s", parent).
			WithDetail(errors.DetailPath, parent)
	}

	_, err = git.PlainCloneContext(ctx, tmp, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
		Progress:     g.Progress,
	})
	if err != nil {
		_ = os.RemoveAll(tmp)
		return errors.Wrapf(err, errors.ErrSourceFetch, "cannot clone %s", url).
			WithDetail("url", url)
	}

	if err := os.Rename(tmp, dir); err != nil {
		_ = os.RemoveAll(tmp)
		return errors.Wrapf(err, errors.ErrCacheAccess, "cannot move clone into %s", dir).
			WithDetail(errors.DetailPath, dir)
	}
	return nil
}

// Pull updates the clone at dir from its origin.
func (g *GitFetcher) Pull(ctx context.Context, dir string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceFetch, "%s is not a git repository", dir).
			WithDetail(errors.DetailPath, dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceFetch, "cannot open worktree of %s", dir).
			WithDetail(errors.DetailPath, dir)
	}
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName: git.DefaultRemoteName,
		Depth:      1,
		Force:      true,
		Progress:   g.Progress,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.Wrapf(err, errors.ErrSourceFetch, "cannot update %s", dir).
			WithDetail(errors.DetailPath, dir)
	}
	return nil
}
