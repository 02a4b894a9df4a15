// Package git adapts a local git repository to the planning ports.
package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/relicta-tech/resolvo/internal/application/planning"
	rerrors "github.com/relicta-tech/resolvo/internal/errors"
)

// DefaultLocalTimeout bounds read-only repository operations.
const DefaultLocalTimeout = 30 * time.Second

// DefaultTagPrefix is the prefix version tags carry by convention.
const DefaultTagPrefix = "v"

// errStopIteration is a sentinel error used to signal early termination of
// commit iteration.
var errStopIteration = errors.New("stop iteration")

// Ensure Source implements the planning port.
var _ planning.CommitSource = (*Source)(nil)

// Source reads commit history and tags from a local repository using
// go-git.
type Source struct {
	repo      *gogit.Repository
	root      string
	tagPrefix string
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithTagPrefix sets the prefix stripped from tag names before they are
// parsed as versions.
func WithTagPrefix(prefix string) SourceOption {
	return func(s *Source) {
		s.tagPrefix = prefix
	}
}

// NewSource opens the repository at path.
func NewSource(path string, opts ...SourceOption) (*Source, error) {
	const op = "git.NewSource"

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, rerrors.GitWrap(err, op, "failed to get absolute path")
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, rerrors.GitWrap(err, op, "failed to open repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, rerrors.GitWrap(err, op, "failed to get worktree")
	}

	s := &Source{
		repo:      repo,
		root:      worktree.Filesystem.Root(),
		tagPrefix: DefaultTagPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the absolute path of the repository root.
func (s *Source) Root() string {
	return s.root
}

// CommitsSince returns commits after fromRef up to HEAD, oldest first. An
// empty fromRef walks the full history.
func (s *Source) CommitsSince(ctx context.Context, fromRef string) ([]planning.RawCommit, error) {
	const op = "git.CommitsSince"

	ctx, cancel := withLocalTimeout(ctx)
	defer cancel()

	stop := plumbing.ZeroHash
	if fromRef != "" {
		hash, err := s.resolveRef(fromRef)
		if err != nil {
			return nil, rerrors.GitWrap(err, op, fmt.Sprintf("failed to resolve reference %s", fromRef))
		}
		stop = hash
	}

	head, err := s.repo.Head()
	if err != nil {
		return nil, rerrors.GitWrap(err, op, "failed to get HEAD")
	}

	iter, err := s.repo.Log(&gogit.LogOptions{
		From:  head.Hash(),
		Order: gogit.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, rerrors.GitWrap(err, op, "failed to get log iterator")
	}
	defer iter.Close()

	var commits []planning.RawCommit
	err = iter.ForEach(func(c *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if stop != plumbing.ZeroHash && c.Hash == stop {
			return errStopIteration
		}
		commits = append(commits, planning.RawCommit{
			Hash:    c.Hash.String(),
			Message: c.Message,
			Files:   s.changedFiles(ctx, c),
			Author:  c.Author.Name,
			Email:   c.Author.Email,
			Date:    c.Author.When,
		})
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		if ctx.Err() != nil {
			return nil, rerrors.GitWrap(ctx.Err(), op, "operation canceled")
		}
		return nil, rerrors.GitWrap(err, op, "failed to iterate commits")
	}

	reverse(commits)
	return commits, nil
}

// changedFiles returns the paths touched by a commit, diffed against its
// first parent. A commit whose diff cannot be computed reports no files,
// which downgrades relevance matching to commit scopes.
func (s *Source) changedFiles(ctx context.Context, c *object.Commit) []string {
	stats, err := c.StatsContext(ctx)
	if err != nil {
		return nil
	}

	files := make([]string, 0, len(stats))
	for _, stat := range stats {
		files = append(files, stat.Name)
	}
	return files
}

// resolveRef resolves a tag, branch or commit hash to a hash.
func (s *Source) resolveRef(ref string) (plumbing.Hash, error) {
	if plumbing.IsHash(ref) {
		return plumbing.NewHash(ref), nil
	}

	resolved, err := s.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve reference %s: %w", ref, err)
	}
	return *resolved, nil
}

func reverse(commits []planning.RawCommit) {
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
}

// withLocalTimeout applies a timeout for local repository operations unless
// the context already carries a shorter deadline.
func withLocalTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) < DefaultLocalTimeout {
			return ctx, func() {}
		}
	}
	return context.WithTimeout(ctx, DefaultLocalTimeout)
}
