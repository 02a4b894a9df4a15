package commit

import "sort"

// Categories groups commits by the section they belong to when a plan is
// rendered. A breaking commit appears in Breaking and is not repeated in
// its type category.
type Categories struct {
	Breaking []*Commit
	Features []*Commit
	Fixes    []*Commit
	Perf     []*Commit
	Other    []*Commit
}

// Categorize organizes commits for display, preserving input order
// within each category.
func Categorize(commits []*Commit) *Categories {
	cats := &Categories{}

	for _, c := range commits {
		if c == nil {
			continue
		}
		if c.IsBreaking() {
			cats.Breaking = append(cats.Breaking, c)
			continue
		}
		switch c.Type() {
		case "feat":
			cats.Features = append(cats.Features, c)
		case "fix":
			cats.Fixes = append(cats.Fixes, c)
		case "perf":
			cats.Perf = append(cats.Perf, c)
		default:
			cats.Other = append(cats.Other, c)
		}
	}

	return cats
}

// IsEmpty returns true when no commits were categorized.
func (cats *Categories) IsEmpty() bool {
	return len(cats.Breaking) == 0 && len(cats.Features) == 0 &&
		len(cats.Fixes) == 0 && len(cats.Perf) == 0 && len(cats.Other) == 0
}

// Total returns the number of categorized commits.
func (cats *Categories) Total() int {
	return len(cats.Breaking) + len(cats.Features) + len(cats.Fixes) +
		len(cats.Perf) + len(cats.Other)
}

// Scopes returns the unique scopes across commits, sorted.
func Scopes(commits []*Commit) []string {
	seen := make(map[string]struct{})
	for _, c := range commits {
		if c != nil && c.Scope() != "" {
			seen[c.Scope()] = struct{}{}
		}
	}

	scopes := make([]string, 0, len(seen))
	for scope := range seen {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	return scopes
}
