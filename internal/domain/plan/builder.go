package plan

import (
	"fmt"

	"github.com/relicta-tech/resolvo/internal/domain/commit"
	"github.com/relicta-tech/resolvo/internal/domain/override"
	"github.com/relicta-tech/resolvo/internal/domain/version"
	"github.com/relicta-tech/resolvo/internal/domain/workspace"
)

// Builder assembles release plans: it runs the configured strategy over
// the workspace, then expands the result with dependency cascade bumps.
type Builder struct {
	strategy Strategy
	rules    commit.Rules
	options  Options
}

// BuilderOption is a functional option for configuring the builder.
type BuilderOption func(*Builder)

// WithStrategy selects the versioning strategy.
func WithStrategy(s Strategy) BuilderOption {
	return func(b *Builder) {
		if s != nil {
			b.strategy = s
		}
	}
}

// WithRules sets the commit type to severity mapping.
func WithRules(rules commit.Rules) BuilderOption {
	return func(b *Builder) {
		b.rules = rules
	}
}

// WithPrerelease sets a global pre-release channel.
func WithPrerelease(channel string) BuilderOption {
	return func(b *Builder) {
		b.options.Prerelease = channel
	}
}

// WithGraduate enables 0.x to 1.0.0 graduation.
func WithGraduate(graduate bool) BuilderOption {
	return func(b *Builder) {
		b.options.Graduate = graduate
	}
}

// NewBuilder creates a plan builder. Without options it resolves
// independently with the default severity rules.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		strategy: independentStrategy{},
		rules:    commit.DefaultRules(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build computes the release plan. Commits must already be classified
// with release artifacts removed; overrides may be nil; a nil baselines
// map disables published-version reconciliation.
func (b *Builder) Build(
	ws *workspace.Workspace,
	commits []*commit.Commit,
	overrides *override.Set,
	baselines Baselines,
) *Plan {
	in := Input{
		Workspace: ws,
		Commits:   commits,
		Overrides: overrides,
		Baselines: baselines,
		Rules:     b.rules,
		Options:   b.options,
	}

	result := b.strategy.Resolve(in)
	b.appendCascade(ws, &result)

	return NewPlan(b.strategy.Name(), result.Bumps, result.Failures, result.Skips)
}

// appendCascade adds patch bumps for packages that depend on something
// already being bumped, annotated with the dependencies that changed.
func (b *Builder) appendCascade(ws *workspace.Workspace, result *Result) {
	if len(result.Bumps) == 0 || !ws.IsMonorepo() {
		return
	}

	seeds := make([]string, 0, len(result.Bumps))
	newVersions := make(map[string]version.Version, len(result.Bumps))
	for _, bump := range result.Bumps {
		seeds = append(seeds, bump.Package())
		newVersions[bump.Package()] = bump.NewVersion()
	}

	targets := workspace.Cascade(ws.Packages(), seeds)

	// First pass computes every cascade target's next version so that
	// cascade-to-cascade dependencies can be annotated accurately.
	type pending struct {
		pkg     *workspace.Package
		current version.Version
		next    version.Version
	}
	pendings := make([]pending, 0, len(targets))
	for _, pkg := range targets {
		current, err := version.Parse(pkg.Version())
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				Package: pkg.Name(),
				Err:     fmt.Errorf("unparsable manifest version %q: %w", pkg.Version(), err),
			})
			continue
		}
		next := current.IncPatch()
		pendings = append(pendings, pending{pkg: pkg, current: current, next: next})
		newVersions[pkg.Name()] = next
	}

	bumped := make(map[string]bool, len(newVersions))
	for name := range newVersions {
		bumped[name] = true
	}

	for _, p := range pendings {
		var deps []Dependency
		for _, name := range p.pkg.DependenciesIn(bumped) {
			deps = append(deps, Dependency{Name: name, Version: newVersions[name]})
		}
		result.Bumps = append(result.Bumps, NewBump(p.pkg.Name(), p.current, p.next, version.ReleaseTypePatch,
			WithUpdatedDeps(deps),
			AsCascade(),
		))
	}
}
