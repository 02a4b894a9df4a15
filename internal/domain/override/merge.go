package override

import (
	"strings"

	"github.com/relicta-tech/resolvo/internal/domain/version"
)

// Resolution is the merged effect of every override applicable to one
// package. Precedence inside the set: an explicit version beats
// severity keywords, and among several explicit versions the highest
// wins. The pre-release channel is taken from the first file that names
// one, and all bodies are concatenated in file order for changelog
// rendering.
type Resolution struct {
	explicit    version.Version
	hasExplicit bool
	severity    version.ReleaseType
	prerelease  string
	content     string
}

// Merge resolves a list of applicable overrides, which must already be
// in id order (Set.For guarantees this).
func Merge(overrides []*Override) Resolution {
	res := Resolution{severity: version.ReleaseTypeNone}

	var bodies []string
	for _, o := range overrides {
		if o == nil {
			continue
		}

		if o.IsExplicit() {
			if !res.hasExplicit || o.Explicit().GreaterThan(res.explicit) {
				res.explicit = o.Explicit()
				res.hasExplicit = true
			}
		} else {
			res.severity = version.MaxReleaseType(res.severity, o.Severity())
		}

		if res.prerelease == "" && o.Prerelease() != "" {
			res.prerelease = o.Prerelease()
		}
		if o.Content() != "" {
			bodies = append(bodies, o.Content())
		}
	}

	res.content = strings.Join(bodies, "\n\n")
	return res
}

// HasExplicit returns true when some override pins a literal version.
func (r Resolution) HasExplicit() bool {
	return r.hasExplicit
}

// Explicit returns the winning pinned version. Only meaningful when
// HasExplicit.
func (r Resolution) Explicit() version.Version {
	return r.explicit
}

// Severity returns the highest severity keyword among the overrides, or
// ReleaseTypeNone.
func (r Resolution) Severity() version.ReleaseType {
	return r.severity
}

// Prerelease returns the pre-release channel, if any override named one.
func (r Resolution) Prerelease() string {
	return r.prerelease
}

// Content returns the concatenated changelog bodies, blank-line
// separated in file order.
func (r Resolution) Content() string {
	return r.content
}

// IsEmpty returns true when the resolution carries no release
// instruction at all.
func (r Resolution) IsEmpty() bool {
	return !r.hasExplicit && r.severity == version.ReleaseTypeNone &&
		r.prerelease == "" && r.content == ""
}
