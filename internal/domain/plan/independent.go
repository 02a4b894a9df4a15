package plan

import "github.com/relicta-tech/resolvo/internal/domain/override"

// independentStrategy gives every package its own severity and its own
// next version. This is the default.
type independentStrategy struct{}

func (independentStrategy) Name() string {
	return StrategyIndependent
}

func (independentStrategy) Resolve(in Input) Result {
	var res Result
	set := in.overrides()

	for _, pkg := range in.Workspace.Public() {
		relevant := relevantFor(in, pkg)

		bump, skip, err := reconcilePackage(
			pkg,
			relevant,
			override.Merge(set.For(pkg.Name())),
			set.InvalidFor(pkg.Name()),
			in.Baselines,
			in.rules(),
			in.Options,
		)

		switch {
		case err != nil:
			res.Failures = append(res.Failures, Failure{Package: pkg.Name(), Err: err})
		case skip != nil:
			res.Skips = append(res.Skips, *skip)
		case bump != nil:
			res.Bumps = append(res.Bumps, bump)
		}
	}

	return res
}
