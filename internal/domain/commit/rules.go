package commit

import (
	"github.com/relicta-tech/resolvo/internal/domain/version"
)

// Rules maps conventional commit types to the release severity they
// trigger. Types missing from the map never trigger a release on their
// own; a breaking change triggers a major release regardless of type.
type Rules map[string]version.ReleaseType

// DefaultRules returns the standard severity mapping: features are
// minor, fixes and performance improvements are patch.
func DefaultRules() Rules {
	return Rules{
		"feat": version.ReleaseTypeMinor,
		"fix":  version.ReleaseTypePatch,
		"perf": version.ReleaseTypePatch,
	}
}

// SeverityOf returns the severity a commit type triggers under these
// rules, or ReleaseTypeNone when the type is unmapped.
func (r Rules) SeverityOf(commitType string) version.ReleaseType {
	severity, ok := r[commitType]
	if !ok || !severity.IsValid() {
		return version.ReleaseTypeNone
	}
	return severity
}

// Merge returns a copy of r with the overrides applied on top. An
// override mapped to ReleaseTypeNone disables the type.
func (r Rules) Merge(overrides Rules) Rules {
	merged := make(Rules, len(r)+len(overrides))
	for t, severity := range r {
		merged[t] = severity
	}
	for t, severity := range overrides {
		merged[t] = severity
	}
	return merged
}

// ResolveReleaseType determines the release severity for a set of
// commits. Any breaking change dominates and resolves to major without
// consulting the rules; otherwise the result is the highest severity any
// single commit triggers. The result does not depend on commit order.
func ResolveReleaseType(commits []*Commit, rules Rules) version.ReleaseType {
	if rules == nil {
		rules = DefaultRules()
	}

	result := version.ReleaseTypeNone
	for _, c := range commits {
		if c == nil {
			continue
		}
		if c.IsBreaking() {
			return version.ReleaseTypeMajor
		}
		result = version.MaxReleaseType(result, rules.SeverityOf(c.Type()))
	}
	return result
}
