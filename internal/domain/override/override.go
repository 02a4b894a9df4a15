// Package override provides domain types for hand-authored release
// override files.
package override

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/relicta-tech/resolvo/internal/domain/version"
)

// explicitVersionRegex distinguishes a literal target version from a
// severity keyword in the release field.
var explicitVersionRegex = regexp.MustCompile(`^\d+\.\d+\.\d+`)

// Override represents one hand-authored release instruction. The release
// field is either a severity keyword (patch, minor, major) or an
// explicit literal version that wins outright over any computed bump.
type Override struct {
	id         string
	severity   version.ReleaseType
	explicit   version.Version
	isExplicit bool
	packages   []string
	prerelease string
	content    string
}

// Option is a functional option for constructing overrides.
type Option func(*Override)

// WithPackages scopes the override to the named packages. An override
// with no package scope is global.
func WithPackages(packages ...string) Option {
	return func(o *Override) {
		for _, name := range packages {
			if name = strings.TrimSpace(name); name != "" {
				o.packages = append(o.packages, name)
			}
		}
	}
}

// WithPrerelease names the pre-release channel the bump should target.
func WithPrerelease(channel string) Option {
	return func(o *Override) {
		o.prerelease = strings.TrimSpace(channel)
	}
}

// WithContent attaches the override's changelog body.
func WithContent(content string) Option {
	return func(o *Override) {
		o.content = strings.TrimSpace(content)
	}
}

// New creates an override from its release field. The field is an
// explicit version when it starts with X.Y.Z digits, otherwise it must
// be one of the severity keywords patch, minor or major.
func New(id, release string, opts ...Option) (*Override, error) {
	o := &Override{id: id}

	release = strings.TrimSpace(release)
	if release == "" {
		return nil, fmt.Errorf("override %s: empty release field", id)
	}

	if explicitVersionRegex.MatchString(release) {
		v, err := version.Parse(release)
		if err != nil {
			return nil, fmt.Errorf("override %s: invalid release version %q: %w", id, release, err)
		}
		o.explicit = v
		o.isExplicit = true
	} else {
		severity, err := version.ParseReleaseType(release)
		if err != nil {
			return nil, fmt.Errorf("override %s: invalid release field %q", id, release)
		}
		switch severity {
		case version.ReleaseTypePatch, version.ReleaseTypeMinor, version.ReleaseTypeMajor:
			o.severity = severity
		default:
			return nil, fmt.Errorf("override %s: release must be patch, minor, major or a version, got %q", id, release)
		}
	}

	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// ID returns the override identifier, normally the file name.
func (o *Override) ID() string {
	return o.id
}

// IsExplicit returns true when the override pins a literal version.
func (o *Override) IsExplicit() bool {
	return o.isExplicit
}

// Explicit returns the pinned version. Only meaningful when IsExplicit.
func (o *Override) Explicit() version.Version {
	return o.explicit
}

// Severity returns the severity keyword, or ReleaseTypeNone for an
// explicit override.
func (o *Override) Severity() version.ReleaseType {
	if o.isExplicit {
		return version.ReleaseTypeNone
	}
	return o.severity
}

// IsGlobal returns true when the override applies to every package.
func (o *Override) IsGlobal() bool {
	return len(o.packages) == 0
}

// Packages returns the package names the override is scoped to.
func (o *Override) Packages() []string {
	out := make([]string, len(o.packages))
	copy(out, o.packages)
	return out
}

// AppliesTo reports whether the override governs the named package.
func (o *Override) AppliesTo(name string) bool {
	if len(o.packages) == 0 {
		return true
	}
	for _, p := range o.packages {
		if p == name {
			return true
		}
	}
	return false
}

// Prerelease returns the pre-release channel, if any.
func (o *Override) Prerelease() string {
	return o.prerelease
}

// Content returns the changelog body.
func (o *Override) Content() string {
	return o.content
}
