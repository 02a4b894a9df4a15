package plan

import (
	"fmt"

	"github.com/relicta-tech/resolvo/internal/domain/commit"
	"github.com/relicta-tech/resolvo/internal/domain/override"
	"github.com/relicta-tech/resolvo/internal/domain/version"
	"github.com/relicta-tech/resolvo/internal/domain/workspace"
)

// Baseline is the most recently published version of a package, when
// one exists.
type Baseline struct {
	Version version.Version
	Found   bool
}

// Baselines maps package names to published baselines. A nil map
// disables baseline reconciliation: every package takes the standard
// increment path against its manifest version.
type Baselines map[string]Baseline

// Options carries the run-wide knobs that influence incrementing.
type Options struct {
	// Prerelease is a global pre-release channel. An override file
	// naming a channel takes precedence for its packages.
	Prerelease string
	// Graduate promotes 0.x packages to 1.0.0 instead of incrementing.
	Graduate bool
}

// reconcilePackage decides one package's bump by comparing its manifest
// version against the published baseline, then applying commit severity
// and override precedence.
//
// Returns (nil, nil, nil) when the package simply needs no bump.
func reconcilePackage(
	pkg *workspace.Package,
	relevant []*commit.Commit,
	res override.Resolution,
	invalid []override.Invalid,
	baselines Baselines,
	rules commit.Rules,
	opts Options,
) (*Bump, *Skip, error) {
	if len(invalid) > 0 {
		inv := invalid[0]
		return nil, nil, fmt.Errorf("invalid override file %s: %w", inv.ID, inv.Err)
	}

	current, err := version.Parse(pkg.Version())
	if err != nil {
		return nil, nil, fmt.Errorf("unparsable manifest version %q: %w", pkg.Version(), err)
	}

	if baselines != nil {
		base, ok := baselines[pkg.Name()]
		if !ok || !base.Found {
			// Never published: a first release carries the manifest
			// version as-is, and only commits can justify it.
			if len(relevant) == 0 {
				return nil, nil, nil
			}
			return NewBump(pkg.Name(), current, current, version.ReleaseTypeInitial,
				WithCommits(relevant),
				WithOverrideContent(res.Content()),
			), nil, nil
		}

		switch {
		case current.GreaterThan(base.Version):
			// Someone already advanced the manifest by hand; record the
			// jump verbatim so a publish step can catch up.
			return NewBump(pkg.Name(), base.Version, current, version.ReleaseTypeManual,
				WithCommits(relevant),
				WithOverrideContent(res.Content()),
			), nil, nil
		case current.LessThan(base.Version):
			// Never publish backward.
			return nil, &Skip{
				Package: pkg.Name(),
				Reason:  fmt.Sprintf("manifest version %s is behind published %s", current, base.Version),
			}, nil
		}
	}

	return standardBump(pkg.Name(), current, relevant, res, rules, opts)
}

// standardBump applies override precedence and commit severity to a
// package whose manifest agrees with its baseline.
func standardBump(
	name string,
	current version.Version,
	relevant []*commit.Commit,
	res override.Resolution,
	rules commit.Rules,
	opts Options,
) (*Bump, *Skip, error) {
	if res.HasExplicit() {
		return NewBump(name, current, res.Explicit(), version.ReleaseTypeManual,
			WithCommits(relevant),
			WithOverrideContent(res.Content()),
		), nil, nil
	}

	severity := version.MaxReleaseType(commit.ResolveReleaseType(relevant, rules), res.Severity())
	if !severity.TriggersRelease() {
		return nil, nil, nil
	}

	incOpts := version.IncrementOptions{
		Prerelease: res.Prerelease(),
		Graduate:   opts.Graduate || anyGraduate(relevant),
	}
	if incOpts.Prerelease == "" {
		incOpts.Prerelease = opts.Prerelease
	}

	next, reported, err := version.Next(current, severity, incOpts)
	if err != nil {
		return nil, nil, err
	}

	return NewBump(name, current, next, reported,
		WithCommits(relevant),
		WithOverrideContent(res.Content()),
	), nil, nil
}

// anyGraduate reports whether any commit carries the graduation flag.
func anyGraduate(commits []*commit.Commit) bool {
	for _, c := range commits {
		if c != nil && c.Graduate() {
			return true
		}
	}
	return false
}
