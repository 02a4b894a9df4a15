package override

import "sort"

// Invalid records an override file that could not be interpreted. The
// scope is kept so the failure can be attributed to the packages the
// file meant to govern.
type Invalid struct {
	ID       string
	Packages []string
	Err      error
}

// appliesTo mirrors Override.AppliesTo for invalid records.
func (inv Invalid) appliesTo(name string) bool {
	if len(inv.Packages) == 0 {
		return true
	}
	for _, p := range inv.Packages {
		if p == name {
			return true
		}
	}
	return false
}

// Set holds the override files discovered for one run. Overrides are
// ordered lexicographically by id so that every "first file wins" rule
// resolves the same way on every platform.
type Set struct {
	overrides []*Override
	invalid   []Invalid
}

// NewSet creates a set from parsed overrides and invalid records.
func NewSet(overrides []*Override, invalid []Invalid) *Set {
	sorted := make([]*Override, len(overrides))
	copy(sorted, overrides)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].id < sorted[j].id
	})

	sortedInvalid := make([]Invalid, len(invalid))
	copy(sortedInvalid, invalid)
	sort.Slice(sortedInvalid, func(i, j int) bool {
		return sortedInvalid[i].ID < sortedInvalid[j].ID
	})

	return &Set{overrides: sorted, invalid: sortedInvalid}
}

// EmptySet returns a set with no overrides.
func EmptySet() *Set {
	return &Set{}
}

// All returns every valid override in id order.
func (s *Set) All() []*Override {
	out := make([]*Override, len(s.overrides))
	copy(out, s.overrides)
	return out
}

// For returns the overrides applicable to the named package, in id
// order.
func (s *Set) For(name string) []*Override {
	var applicable []*Override
	for _, o := range s.overrides {
		if o.AppliesTo(name) {
			applicable = append(applicable, o)
		}
	}
	return applicable
}

// InvalidFor returns the invalid records whose scope covers the named
// package.
func (s *Set) InvalidFor(name string) []Invalid {
	var applicable []Invalid
	for _, inv := range s.invalid {
		if inv.appliesTo(name) {
			applicable = append(applicable, inv)
		}
	}
	return applicable
}

// Invalid returns every invalid record.
func (s *Set) Invalid() []Invalid {
	out := make([]Invalid, len(s.invalid))
	copy(out, s.invalid)
	return out
}

// Len returns the number of valid overrides.
func (s *Set) Len() int {
	return len(s.overrides)
}

// IsEmpty returns true when the set holds neither valid nor invalid
// overrides.
func (s *Set) IsEmpty() bool {
	return len(s.overrides) == 0 && len(s.invalid) == 0
}
