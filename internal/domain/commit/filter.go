package commit

import "regexp"

// Patterns matching subjects that release tooling itself writes. Commits
// matching these must not feed back into severity resolution, otherwise
// every release would trigger the next one.
var (
	// Matches a subject that is exactly a semver version, optionally v-prefixed.
	bareVersionRegex = regexp.MustCompile(`^v?\d+\.\d+\.\d+(?:-[0-9A-Za-z][0-9A-Za-z.-]*)?(?:\+[0-9A-Za-z][0-9A-Za-z.-]*)?$`)

	// Matches a subject that is exactly a package@version token, scoped or not.
	packageVersionRegex = regexp.MustCompile(`^(?:@[A-Za-z0-9][\w.-]*/)?[A-Za-z0-9][\w.-]*@v?\d+\.\d+\.\d+(?:-[0-9A-Za-z][0-9A-Za-z.-]*)?$`)
)

// IsReleaseSubject reports whether a subject line is a synthetic release
// marker: a bare version like "1.2.0" or "v1.2.0", or a package@version
// token like "@scope/core@1.2.0".
func IsReleaseSubject(subject string) bool {
	return bareVersionRegex.MatchString(subject) || packageVersionRegex.MatchString(subject)
}

// IsReleaseArtifact reports whether the commit was written by release
// tooling rather than a developer. That covers chore commits scoped
// "release" and commits whose subject is a bare version or
// package@version token.
func (c *Commit) IsReleaseArtifact() bool {
	if c.commitType == "chore" && c.scope == "release" {
		return true
	}
	return IsReleaseSubject(c.subject)
}

// FilterReleaseArtifacts returns the commits that are not release
// artifacts, preserving order.
func FilterReleaseArtifacts(commits []*Commit) []*Commit {
	filtered := make([]*Commit, 0, len(commits))
	for _, c := range commits {
		if c == nil || c.IsReleaseArtifact() {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}
