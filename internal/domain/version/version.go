// Package version provides domain types for semantic versioning.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a value object representing a semantic version.
// All operations return new instances.
type Version struct {
	v semver.Version
}

// Common prerelease channels.
const (
	ChannelAlpha = "alpha"
	ChannelBeta  = "beta"
	ChannelRC    = "rc"
)

// Zero is the zero version (0.0.0).
var Zero = Version{}

// New creates a Version from its numeric components.
func New(major, minor, patch uint64) Version {
	return Version{v: *semver.New(major, minor, patch, "", "")}
}

// Parse parses a semantic version string into a Version value object.
// A leading "v" prefix is accepted and stripped.
func Parse(s string) (Version, error) {
	sv, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if err != nil {
		return Zero, fmt.Errorf("invalid semantic version %q: %w", s, err)
	}
	return Version{v: *sv}, nil
}

// MustParse parses a semantic version string and panics if invalid.
// Use only for known-good version strings.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Major returns the major version component.
func (v Version) Major() uint64 {
	return v.v.Major()
}

// Minor returns the minor version component.
func (v Version) Minor() uint64 {
	return v.v.Minor()
}

// Patch returns the patch version component.
func (v Version) Patch() uint64 {
	return v.v.Patch()
}

// Prerelease returns the prerelease identifier.
func (v Version) Prerelease() string {
	return v.v.Prerelease()
}

// Metadata returns the build metadata.
func (v Version) Metadata() string {
	return v.v.Metadata()
}

// IsPrerelease returns true if this is a prerelease version.
func (v Version) IsPrerelease() bool {
	return v.v.Prerelease() != ""
}

// IsInitialDevelopment returns true for 0.x versions, which receive the
// semver initial-development discount when incremented.
func (v Version) IsInitialDevelopment() bool {
	return v.v.Major() == 0
}

// IsStable returns true for a stable release (>= 1.0.0 and no prerelease).
func (v Version) IsStable() bool {
	return v.v.Major() >= 1 && !v.IsPrerelease()
}

// IsZero returns true if this is the zero version.
func (v Version) IsZero() bool {
	return v.v.Major() == 0 && v.v.Minor() == 0 && v.v.Patch() == 0 &&
		v.v.Prerelease() == "" && v.v.Metadata() == ""
}

// String returns the string representation of the version (without 'v' prefix).
func (v Version) String() string {
	return v.v.String()
}

// TagString returns the version with 'v' prefix for git tags.
func (v Version) TagString() string {
	return "v" + v.v.String()
}

// WithPrerelease returns a new version with the specified prerelease identifier.
func (v Version) WithPrerelease(pre string) (Version, error) {
	next, err := v.v.SetPrerelease(pre)
	if err != nil {
		return Zero, fmt.Errorf("invalid prerelease identifier %q: %w", pre, err)
	}
	return Version{v: next}, nil
}

// WithoutPrerelease returns a new version without the prerelease identifier.
func (v Version) WithoutPrerelease() Version {
	next, _ := v.v.SetPrerelease("")
	return Version{v: next}
}

// IncMajor returns the next major version (minor and patch reset to zero).
func (v Version) IncMajor() Version {
	return Version{v: v.v.IncMajor()}
}

// IncMinor returns the next minor version (patch reset to zero).
func (v Version) IncMinor() Version {
	return Version{v: v.v.IncMinor()}
}

// IncPatch returns the next patch version. When the current version carries
// a prerelease identifier, the identifier is dropped and the patch digit is
// kept, which releases the prerelease.
func (v Version) IncPatch() Version {
	return Version{v: v.v.IncPatch()}
}

// Compare compares two versions.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
// Build metadata is ignored in comparisons per semver spec.
func (v Version) Compare(other Version) int {
	return v.v.Compare(&other.v)
}

// LessThan returns true if v < other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// GreaterThan returns true if v > other.
func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// Equal returns true if two versions are equal (ignoring metadata).
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}
