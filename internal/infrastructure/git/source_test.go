// Package git adapts a local git repository to the planning ports.
package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepo builds a real repository in a temp directory.
type testRepo struct {
	t     *testing.T
	dir   string
	repo  *gogit.Repository
	clock time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	return &testRepo{
		t:     t,
		dir:   dir,
		repo:  repo,
		clock: time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
}

// makeCommit writes the given files and commits them. Commit times advance
// monotonically so the committer-time log order is deterministic.
func (r *testRepo) makeCommit(message string, files map[string]string) string {
	r.t.Helper()

	worktree, err := r.repo.Worktree()
	require.NoError(r.t, err)

	for name, content := range files {
		path := filepath.Join(r.dir, name)
		require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))
		_, err = worktree.Add(name)
		require.NoError(r.t, err)
	}

	r.clock = r.clock.Add(time.Minute)
	sig := &object.Signature{
		Name:  "Test Author",
		Email: "test@example.com",
		When:  r.clock,
	}
	hash, err := worktree.Commit(message, &gogit.CommitOptions{Author: sig})
	require.NoError(r.t, err)

	return hash.String()
}

// makeTag creates a tag at HEAD, annotated when a message is given.
func (r *testRepo) makeTag(name, message string) {
	r.t.Helper()

	head, err := r.repo.Head()
	require.NoError(r.t, err)

	if message != "" {
		_, err = r.repo.CreateTag(name, head.Hash(), &gogit.CreateTagOptions{
			Message: message,
			Tagger: &object.Signature{
				Name:  "Test Tagger",
				Email: "tagger@example.com",
				When:  r.clock,
			},
		})
	} else {
		refName := plumbing.NewTagReferenceName(name)
		err = r.repo.Storer.SetReference(plumbing.NewHashReference(refName, head.Hash()))
	}
	require.NoError(r.t, err)
}

func TestNewSource(t *testing.T) {
	t.Run("opens a repository", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.makeCommit("chore: scaffold", map[string]string{"README.md": "hi"})

		src, err := NewSource(repo.dir)
		require.NoError(t, err)
		assert.Equal(t, repo.dir, src.Root())
	})

	t.Run("finds the repository from a subdirectory", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.makeCommit("chore: scaffold", map[string]string{"packages/core/index.ts": "export {}"})

		src, err := NewSource(filepath.Join(repo.dir, "packages", "core"))
		require.NoError(t, err)
		assert.Equal(t, repo.dir, src.Root())
	})

	t.Run("fails outside a repository", func(t *testing.T) {
		_, err := NewSource(t.TempDir())
		require.Error(t, err)
	})
}

func TestSourceCommitsSince(t *testing.T) {
	ctx := context.Background()

	t.Run("full history oldest first", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.makeCommit("feat: one", map[string]string{"a.txt": "1"})
		repo.makeCommit("fix: two", map[string]string{"b.txt": "2"})
		repo.makeCommit("feat: three", map[string]string{"c.txt": "3"})

		src, err := NewSource(repo.dir)
		require.NoError(t, err)

		commits, err := src.CommitsSince(ctx, "")
		require.NoError(t, err)
		require.Len(t, commits, 3)
		assert.Equal(t, "feat: one", commits[0].Message)
		assert.Equal(t, "fix: two", commits[1].Message)
		assert.Equal(t, "feat: three", commits[2].Message)
		assert.Equal(t, "Test Author", commits[0].Author)
		assert.Equal(t, "test@example.com", commits[0].Email)
	})

	t.Run("since a tag excludes the tagged commit", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.makeCommit("feat: one", map[string]string{"a.txt": "1"})
		repo.makeTag("v1.0.0", "")
		repo.makeCommit("fix: two", map[string]string{"b.txt": "2"})
		repo.makeCommit("feat: three", map[string]string{"c.txt": "3"})

		src, err := NewSource(repo.dir)
		require.NoError(t, err)

		commits, err := src.CommitsSince(ctx, "v1.0.0")
		require.NoError(t, err)
		require.Len(t, commits, 2)
		assert.Equal(t, "fix: two", commits[0].Message)
		assert.Equal(t, "feat: three", commits[1].Message)
	})

	t.Run("records changed files per commit", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.makeCommit("chore: scaffold", map[string]string{"README.md": "hi"})
		repo.makeCommit("feat(core): add util", map[string]string{
			"packages/core/index.ts": "export {}",
			"packages/core/util.ts":  "export const x = 1",
		})

		src, err := NewSource(repo.dir)
		require.NoError(t, err)

		commits, err := src.CommitsSince(ctx, "")
		require.NoError(t, err)
		require.Len(t, commits, 2)
		assert.ElementsMatch(t, []string{"README.md"}, commits[0].Files)
		assert.ElementsMatch(t,
			[]string{"packages/core/index.ts", "packages/core/util.ts"},
			commits[1].Files)
	})

	t.Run("unknown reference fails", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.makeCommit("feat: one", map[string]string{"a.txt": "1"})

		src, err := NewSource(repo.dir)
		require.NoError(t, err)

		_, err = src.CommitsSince(ctx, "v9.9.9")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to resolve reference")
	})
}

func TestSourceLatestTag(t *testing.T) {
	ctx := context.Background()

	t.Run("no tags", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.makeCommit("feat: one", map[string]string{"a.txt": "1"})

		src, err := NewSource(repo.dir)
		require.NoError(t, err)

		tag, err := src.LatestTag(ctx)
		require.NoError(t, err)
		assert.Equal(t, "", tag)
	})

	t.Run("orders by version, not name or date", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.makeCommit("feat: one", map[string]string{"a.txt": "1"})
		repo.makeTag("v1.10.0", "")
		repo.makeCommit("fix: two", map[string]string{"b.txt": "2"})
		repo.makeTag("v1.2.0", "release 1.2.0")
		repo.makeTag("v0.9.0", "")

		src, err := NewSource(repo.dir)
		require.NoError(t, err)

		tag, err := src.LatestTag(ctx)
		require.NoError(t, err)
		assert.Equal(t, "v1.10.0", tag)
	})

	t.Run("ignores tags that are not versions", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.makeCommit("feat: one", map[string]string{"a.txt": "1"})
		repo.makeTag("nightly", "")
		repo.makeTag("v-next", "")
		repo.makeTag("v1.0.0", "")

		src, err := NewSource(repo.dir)
		require.NoError(t, err)

		tag, err := src.LatestTag(ctx)
		require.NoError(t, err)
		assert.Equal(t, "v1.0.0", tag)
	})

	t.Run("custom prefix", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.makeCommit("feat: one", map[string]string{"a.txt": "1"})
		repo.makeTag("release-2.0.0", "")
		repo.makeTag("v3.0.0", "")

		src, err := NewSource(repo.dir, WithTagPrefix("release-"))
		require.NoError(t, err)

		tag, err := src.LatestTag(ctx)
		require.NoError(t, err)
		assert.Equal(t, "release-2.0.0", tag)
	})
}
