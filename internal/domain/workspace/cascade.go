package workspace

// Cascade computes which packages must receive a dependency-driven bump
// because something they depend on is already being bumped.
//
// Starting from the seed names, it repeatedly adds any package that
// declares a dependency or devDependency edge to an already-bumped
// package, until a fixed point is reached. Membership is set-based, so
// dependency cycles terminate naturally. Private packages propagate
// (their dependents are still reached through them) but are omitted from
// the returned list.
//
// The result preserves the input package order within each round of
// expansion, so callers that pass packages in name order get
// deterministic output.
func Cascade(packages []*Package, seeds []string) []*Package {
	bumped := make(map[string]bool, len(seeds)+len(packages))
	for _, name := range seeds {
		bumped[name] = true
	}

	var cascade []*Package
	for {
		var added []*Package
		for _, p := range packages {
			if bumped[p.name] {
				continue
			}
			for name := range bumped {
				if p.DependsOn(name) {
					added = append(added, p)
					break
				}
			}
		}

		if len(added) == 0 {
			return cascade
		}

		for _, p := range added {
			bumped[p.name] = true
			if !p.private {
				cascade = append(cascade, p)
			}
		}
	}
}
