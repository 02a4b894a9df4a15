// Package planning provides application use cases for computing release
// plans.
package planning

import (
	"context"
	"time"

	"github.com/relicta-tech/resolvo/internal/domain/override"
	"github.com/relicta-tech/resolvo/internal/domain/version"
	"github.com/relicta-tech/resolvo/internal/domain/workspace"
)

// RawCommit is one commit record as the source produced it, before
// conventional-commit classification.
type RawCommit struct {
	Hash    string
	Message string
	Files   []string
	Author  string
	Email   string
	Date    time.Time
}

// CommitSource yields commit history from the repository.
type CommitSource interface {
	// CommitsSince returns commits after fromRef up to HEAD, oldest
	// first. An empty fromRef means the full history.
	CommitsSince(ctx context.Context, fromRef string) ([]RawCommit, error)
	// LatestTag returns the most recent version tag name, or "" when no
	// version tag exists.
	LatestTag(ctx context.Context) (string, error)
}

// WorkspaceSource discovers the packages of a repository.
type WorkspaceSource interface {
	Discover(ctx context.Context) (*workspace.Workspace, error)
}

// Registry answers what version of a package was last published.
type Registry interface {
	// LatestVersion returns the published version of the named package.
	// ok is false when the package was never published.
	LatestVersion(ctx context.Context, name string) (v version.Version, ok bool, err error)
}

// OverrideSource loads hand-authored override files.
type OverrideSource interface {
	Load(ctx context.Context) (*override.Set, error)
}
