// Package plan provides the release plan aggregate and the resolution
// logic that decides which version every package becomes next.
package plan

import (
	"fmt"

	"github.com/relicta-tech/resolvo/internal/domain/commit"
	"github.com/relicta-tech/resolvo/internal/domain/version"
)

// Dependency names a bumped dependency and the version it is moving to,
// used to annotate cascade bumps.
type Dependency struct {
	Name    string
	Version version.Version
}

// Bump is the terminal output unit of resolution: one package moving
// from its current version to a new one.
type Bump struct {
	pkg             string
	currentVersion  version.Version
	newVersion      version.Version
	releaseType     version.ReleaseType
	commits         []*commit.Commit
	updatedDeps     []Dependency
	overrideContent string
	cascade         bool
}

// BumpOption is a functional option for constructing bumps.
type BumpOption func(*Bump)

// WithCommits attaches the commits that justify the bump.
func WithCommits(commits []*commit.Commit) BumpOption {
	return func(b *Bump) {
		b.commits = commits
	}
}

// WithUpdatedDeps records which dependencies changed, for cascade bumps.
func WithUpdatedDeps(deps []Dependency) BumpOption {
	return func(b *Bump) {
		b.updatedDeps = deps
	}
}

// AsCascade marks the bump as dependency-driven. The updated dependency
// list can still be empty when the trigger was a private package.
func AsCascade() BumpOption {
	return func(b *Bump) {
		b.cascade = true
	}
}

// WithOverrideContent attaches concatenated override-file bodies for
// changelog rendering.
func WithOverrideContent(content string) BumpOption {
	return func(b *Bump) {
		b.overrideContent = content
	}
}

// NewBump creates a version bump.
func NewBump(pkg string, current, next version.Version, releaseType version.ReleaseType, opts ...BumpOption) *Bump {
	b := &Bump{
		pkg:            pkg,
		currentVersion: current,
		newVersion:     next,
		releaseType:    releaseType,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Package returns the package name.
func (b *Bump) Package() string {
	return b.pkg
}

// CurrentVersion returns the version the package is moving from.
func (b *Bump) CurrentVersion() version.Version {
	return b.currentVersion
}

// NewVersion returns the version the package is moving to.
func (b *Bump) NewVersion() version.Version {
	return b.newVersion
}

// ReleaseType returns the release type label for the bump.
func (b *Bump) ReleaseType() version.ReleaseType {
	return b.releaseType
}

// Commits returns the commits that justify the bump. Empty for cascade
// and override-only bumps.
func (b *Bump) Commits() []*commit.Commit {
	out := make([]*commit.Commit, len(b.commits))
	copy(out, b.commits)
	return out
}

// UpdatedDeps returns the bumped dependencies that triggered a cascade
// bump. Nil for primary bumps.
func (b *Bump) UpdatedDeps() []Dependency {
	out := make([]Dependency, len(b.updatedDeps))
	copy(out, b.updatedDeps)
	return out
}

// OverrideContent returns the concatenated override-file bodies attached
// to the bump.
func (b *Bump) OverrideContent() string {
	return b.overrideContent
}

// IsCascade returns true when the bump exists only because dependencies
// changed.
func (b *Bump) IsCascade() bool {
	return b.cascade
}

// String returns a compact representation for logs.
func (b *Bump) String() string {
	return fmt.Sprintf("%s: %s -> %s (%s)", b.pkg, b.currentVersion, b.newVersion, b.releaseType)
}
