package workspace

import (
	"github.com/relicta-tech/resolvo/internal/domain/commit"
)

// CommitAffects reports whether a commit is relevant to the package.
//
// Changed-file paths are authoritative when the commit carries them: the
// commit is relevant only if some changed file lies inside the package
// directory. When the commit source exposed no file data, scope matching
// is the fallback: a commit without a scope affects every package, and a
// scope equal to the package name or its de-scoped short name counts as
// a match.
func CommitAffects(c *commit.Commit, pkg *Package) bool {
	if c == nil || pkg == nil {
		return false
	}

	if c.HasFiles() {
		for _, file := range c.Files() {
			if pkg.ContainsFile(file) {
				return true
			}
		}
		return false
	}

	scope := c.Scope()
	if scope == "" {
		return true
	}
	return scope == pkg.Name() || scope == pkg.ShortName()
}

// RelevantCommits filters commits down to those affecting the package,
// preserving order.
func RelevantCommits(commits []*commit.Commit, pkg *Package) []*commit.Commit {
	var relevant []*commit.Commit
	for _, c := range commits {
		if CommitAffects(c, pkg) {
			relevant = append(relevant, c)
		}
	}
	return relevant
}
