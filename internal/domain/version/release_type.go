// Package version provides domain types for semantic versioning.
package version

import (
	"fmt"
	"strings"
)

// ReleaseType represents the magnitude of a version change.
// The severity keywords order as none < patch < minor < major; the
// prerelease variants rank equal to their stable counterparts. Manual and
// initial are output-only labels that never participate in severity
// comparisons: manual marks a bump taken verbatim from an override file or
// an already-advanced manifest, initial marks a first release.
type ReleaseType string

const (
	// ReleaseTypeNone indicates no release is needed.
	ReleaseTypeNone ReleaseType = "none"
	// ReleaseTypePatch indicates a patch release with bug fixes.
	ReleaseTypePatch ReleaseType = "patch"
	// ReleaseTypeMinor indicates a minor release with new features.
	ReleaseTypeMinor ReleaseType = "minor"
	// ReleaseTypeMajor indicates a major release with breaking changes.
	ReleaseTypeMajor ReleaseType = "major"
	// ReleaseTypePrepatch indicates a patch release onto a prerelease channel.
	ReleaseTypePrepatch ReleaseType = "prepatch"
	// ReleaseTypePreminor indicates a minor release onto a prerelease channel.
	ReleaseTypePreminor ReleaseType = "preminor"
	// ReleaseTypePremajor indicates a major release onto a prerelease channel.
	ReleaseTypePremajor ReleaseType = "premajor"
	// ReleaseTypeManual indicates a version taken verbatim rather than computed.
	ReleaseTypeManual ReleaseType = "manual"
	// ReleaseTypeInitial indicates the first release of a package.
	ReleaseTypeInitial ReleaseType = "initial"
)

// String returns the string representation of the release type.
func (r ReleaseType) String() string {
	return string(r)
}

// IsValid returns true if the release type is valid.
func (r ReleaseType) IsValid() bool {
	switch r {
	case ReleaseTypeNone, ReleaseTypePatch, ReleaseTypeMinor, ReleaseTypeMajor,
		ReleaseTypePrepatch, ReleaseTypePreminor, ReleaseTypePremajor,
		ReleaseTypeManual, ReleaseTypeInitial:
		return true
	default:
		return false
	}
}

// TriggersRelease returns true if this release type produces a version bump.
func (r ReleaseType) TriggersRelease() bool {
	return r.IsValid() && r != ReleaseTypeNone
}

// Stable maps prerelease variants onto their stable counterparts. Severity
// keywords and output labels are returned unchanged.
func (r ReleaseType) Stable() ReleaseType {
	switch r {
	case ReleaseTypePrepatch:
		return ReleaseTypePatch
	case ReleaseTypePreminor:
		return ReleaseTypeMinor
	case ReleaseTypePremajor:
		return ReleaseTypeMajor
	default:
		return r
	}
}

// WithPrerelease maps severity keywords onto their prerelease variants.
func (r ReleaseType) WithPrerelease() ReleaseType {
	switch r {
	case ReleaseTypePatch:
		return ReleaseTypePrepatch
	case ReleaseTypeMinor:
		return ReleaseTypePreminor
	case ReleaseTypeMajor:
		return ReleaseTypePremajor
	default:
		return r
	}
}

// rank returns the severity ordering of a release type. Manual and initial
// do not participate in severity comparisons and rank as none.
func (r ReleaseType) rank() int {
	switch r.Stable() {
	case ReleaseTypePatch:
		return 1
	case ReleaseTypeMinor:
		return 2
	case ReleaseTypeMajor:
		return 3
	default:
		return 0
	}
}

// Description returns a human-readable description.
func (r ReleaseType) Description() string {
	switch r.Stable() {
	case ReleaseTypeMajor:
		return "Major release with breaking changes"
	case ReleaseTypeMinor:
		return "Minor release with new features"
	case ReleaseTypePatch:
		return "Patch release with bug fixes"
	case ReleaseTypeManual:
		return "Manually pinned release"
	case ReleaseTypeInitial:
		return "First release"
	case ReleaseTypeNone:
		return "No release needed"
	default:
		return "Unknown release type"
	}
}

// ParseReleaseType parses a string into a ReleaseType.
func ParseReleaseType(s string) (ReleaseType, error) {
	r := ReleaseType(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid release type: %q", s)
	}
	return r, nil
}

// MaxReleaseType returns the higher precedence release type.
// Major > Minor > Patch > None; prerelease variants compare as their
// stable counterparts, and the higher argument is returned as given.
func MaxReleaseType(a, b ReleaseType) ReleaseType {
	if b.rank() > a.rank() {
		return b
	}
	return a
}
