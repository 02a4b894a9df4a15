// Package workspace provides domain types for monorepo package discovery
// and dependency analysis.
package workspace

import (
	"sort"
	"strings"
)

// Package represents a releasable package in the workspace. In a
// monorepo there are many; in a single-package repository exactly one.
type Package struct {
	name    string
	version string
	path    string
	private bool

	dependencies     map[string]string
	devDependencies  map[string]string
	peerDependencies map[string]string
}

// Option is a functional option for constructing packages.
type Option func(*Package)

// WithPrivate marks the package as private. Private packages are never
// released but still participate in dependency propagation.
func WithPrivate() Option {
	return func(p *Package) {
		p.private = true
	}
}

// WithDependencies sets the runtime dependency ranges.
func WithDependencies(deps map[string]string) Option {
	return func(p *Package) {
		p.dependencies = deps
	}
}

// WithDevDependencies sets the development dependency ranges.
func WithDevDependencies(deps map[string]string) Option {
	return func(p *Package) {
		p.devDependencies = deps
	}
}

// WithPeerDependencies sets the peer dependency ranges.
func WithPeerDependencies(deps map[string]string) Option {
	return func(p *Package) {
		p.peerDependencies = deps
	}
}

// New creates a new Package. The path is repo-relative with forward
// slashes; the version is the raw manifest string.
func New(name, version, path string, opts ...Option) *Package {
	p := &Package{
		name:    name,
		version: version,
		path:    normalizePath(path),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// normalizePath strips leading "./" and trailing "/" so path prefix
// checks behave uniformly.
func normalizePath(p string) string {
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// Name returns the package name.
func (p *Package) Name() string {
	return p.name
}

// ShortName returns the name with any scope prefix removed, e.g.
// "@scope/core" becomes "core".
func (p *Package) ShortName() string {
	if idx := strings.LastIndex(p.name, "/"); idx >= 0 {
		return p.name[idx+1:]
	}
	return p.name
}

// Version returns the raw manifest version string.
func (p *Package) Version() string {
	return p.version
}

// Path returns the repo-relative package directory. Empty for a package
// rooted at the repository itself.
func (p *Package) Path() string {
	return p.path
}

// IsPrivate returns true if the package is excluded from release output.
func (p *Package) IsPrivate() bool {
	return p.private
}

// Dependencies returns a copy of the runtime dependency ranges.
func (p *Package) Dependencies() map[string]string {
	return copyDeps(p.dependencies)
}

// DevDependencies returns a copy of the development dependency ranges.
func (p *Package) DevDependencies() map[string]string {
	return copyDeps(p.devDependencies)
}

// PeerDependencies returns a copy of the peer dependency ranges.
func (p *Package) PeerDependencies() map[string]string {
	return copyDeps(p.peerDependencies)
}

func copyDeps(deps map[string]string) map[string]string {
	if deps == nil {
		return nil
	}
	out := make(map[string]string, len(deps))
	for name, rng := range deps {
		out[name] = rng
	}
	return out
}

// DependsOn reports whether the package declares name under dependencies
// or devDependencies. Peer dependencies are excluded: a peer range does
// not obligate a cascade bump.
func (p *Package) DependsOn(name string) bool {
	if _, ok := p.dependencies[name]; ok {
		return true
	}
	_, ok := p.devDependencies[name]
	return ok
}

// DependenciesIn returns the sorted subset of names the package depends
// on (dependencies and devDependencies) among the given set.
func (p *Package) DependenciesIn(names map[string]bool) []string {
	var matched []string
	for name := range p.dependencies {
		if names[name] {
			matched = append(matched, name)
		}
	}
	for name := range p.devDependencies {
		if _, dup := p.dependencies[name]; dup {
			continue
		}
		if names[name] {
			matched = append(matched, name)
		}
	}
	sort.Strings(matched)
	return matched
}

// ContainsFile reports whether a repo-relative file path lies inside the
// package directory. A package rooted at the repository contains every
// file.
func (p *Package) ContainsFile(file string) bool {
	file = strings.TrimPrefix(file, "./")
	if p.path == "" {
		return true
	}
	return file == p.path || strings.HasPrefix(file, p.path+"/")
}
