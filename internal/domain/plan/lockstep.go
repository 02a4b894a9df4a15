package plan

import (
	"fmt"

	"github.com/relicta-tech/resolvo/internal/domain/commit"
	"github.com/relicta-tech/resolvo/internal/domain/override"
	"github.com/relicta-tech/resolvo/internal/domain/version"
	"github.com/relicta-tech/resolvo/internal/domain/workspace"
)

// fixedStrategy bumps every public package to one shared version, with
// the severity computed from the whole commit log at once.
type fixedStrategy struct{}

func (fixedStrategy) Name() string {
	return StrategyFixed
}

func (fixedStrategy) Resolve(in Input) Result {
	return resolveShared(in, func(in Input, _ []*workspace.Package) version.ReleaseType {
		return commit.ResolveReleaseType(in.Commits, in.rules())
	})
}

// syncedStrategy bumps every public package to one shared version, with
// the severity taken as the highest any single package would have
// received under per-package commit filtering.
type syncedStrategy struct{}

func (syncedStrategy) Name() string {
	return StrategySynced
}

func (syncedStrategy) Resolve(in Input) Result {
	return resolveShared(in, func(in Input, public []*workspace.Package) version.ReleaseType {
		severity := version.ReleaseTypeNone
		for _, pkg := range public {
			severity = version.MaxReleaseType(severity,
				commit.ResolveReleaseType(relevantFor(in, pkg), in.rules()))
		}
		return severity
	})
}

// resolveShared implements the common lockstep path: one severity, one
// new version computed from the highest current version among public
// packages, applied to all of them.
func resolveShared(in Input, severityOf func(Input, []*workspace.Package) version.ReleaseType) Result {
	var res Result

	public := in.Workspace.Public()
	if len(public) == 0 {
		return res
	}

	set := in.overrides()

	currents := make(map[string]version.Version, len(public))
	var eligible []*workspace.Package
	highest := version.Zero

	for _, pkg := range public {
		if invalid := set.InvalidFor(pkg.Name()); len(invalid) > 0 {
			inv := invalid[0]
			res.Failures = append(res.Failures, Failure{
				Package: pkg.Name(),
				Err:     fmt.Errorf("invalid override file %s: %w", inv.ID, inv.Err),
			})
			continue
		}

		current, err := version.Parse(pkg.Version())
		if err != nil {
			res.Failures = append(res.Failures, Failure{
				Package: pkg.Name(),
				Err:     fmt.Errorf("unparsable manifest version %q: %w", pkg.Version(), err),
			})
			continue
		}

		currents[pkg.Name()] = current
		eligible = append(eligible, pkg)
		if current.GreaterThan(highest) {
			highest = current
		}
	}

	if len(eligible) == 0 {
		return res
	}

	merged := override.Merge(set.All())

	var next version.Version
	var reported version.ReleaseType

	if merged.HasExplicit() {
		next = merged.Explicit()
		reported = version.ReleaseTypeManual
	} else {
		severity := version.MaxReleaseType(severityOf(in, eligible), merged.Severity())
		if !severity.TriggersRelease() {
			return res
		}

		incOpts := version.IncrementOptions{
			Prerelease: merged.Prerelease(),
			Graduate:   in.Options.Graduate || anyGraduate(in.Commits),
		}
		if incOpts.Prerelease == "" {
			incOpts.Prerelease = in.Options.Prerelease
		}

		var err error
		next, reported, err = version.Next(highest, severity, incOpts)
		if err != nil {
			for _, pkg := range eligible {
				res.Failures = append(res.Failures, Failure{Package: pkg.Name(), Err: err})
			}
			return res
		}
	}

	for _, pkg := range eligible {
		res.Bumps = append(res.Bumps, NewBump(pkg.Name(), currents[pkg.Name()], next, reported,
			WithCommits(relevantFor(in, pkg)),
			WithOverrideContent(merged.Content()),
		))
	}

	return res
}
