package workspace

import "sort"

// Workspace is the set of packages discovered in a repository.
type Workspace struct {
	root     string
	packages []*Package
	byName   map[string]*Package
}

// NewWorkspace creates a workspace from discovered packages. Packages
// are kept in name order so plan output is deterministic.
func NewWorkspace(root string, packages []*Package) *Workspace {
	sorted := make([]*Package, len(packages))
	copy(sorted, packages)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].name < sorted[j].name
	})

	byName := make(map[string]*Package, len(sorted))
	for _, p := range sorted {
		byName[p.name] = p
	}

	return &Workspace{
		root:     root,
		packages: sorted,
		byName:   byName,
	}
}

// Root returns the repository root the workspace was discovered in.
func (w *Workspace) Root() string {
	return w.root
}

// Packages returns all packages in name order.
func (w *Workspace) Packages() []*Package {
	result := make([]*Package, len(w.packages))
	copy(result, w.packages)
	return result
}

// Package returns the package with the given name, or nil.
func (w *Workspace) Package(name string) *Package {
	return w.byName[name]
}

// Public returns the non-private packages in name order.
func (w *Workspace) Public() []*Package {
	var result []*Package
	for _, p := range w.packages {
		if !p.private {
			result = append(result, p)
		}
	}
	return result
}

// Names returns all package names in order.
func (w *Workspace) Names() []string {
	names := make([]string, len(w.packages))
	for i, p := range w.packages {
		names[i] = p.name
	}
	return names
}

// Len returns the number of packages.
func (w *Workspace) Len() int {
	return len(w.packages)
}

// IsMonorepo returns true when more than one package was discovered.
func (w *Workspace) IsMonorepo() bool {
	return len(w.packages) > 1
}
