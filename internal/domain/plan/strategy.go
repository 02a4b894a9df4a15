package plan

import (
	"fmt"

	"github.com/relicta-tech/resolvo/internal/domain/commit"
	"github.com/relicta-tech/resolvo/internal/domain/override"
	"github.com/relicta-tech/resolvo/internal/domain/workspace"
)

// Versioning strategy names accepted in configuration.
const (
	StrategyIndependent = "independent"
	StrategyFixed       = "fixed"
	StrategySynced      = "synced"
)

// Strategy computes the primary bump set for a workspace, before
// cascade expansion.
type Strategy interface {
	// Name returns the strategy identifier used in configuration.
	Name() string
	// Resolve computes the primary bumps.
	Resolve(in Input) Result
}

// Input carries everything a strategy needs. Commits must already be
// classified with release artifacts removed.
type Input struct {
	Workspace *workspace.Workspace
	Commits   []*commit.Commit
	Overrides *override.Set
	Baselines Baselines
	Rules     commit.Rules
	Options   Options
}

// Result is a strategy's raw output: bumps plus per-package failures
// and deliberate skips.
type Result struct {
	Bumps    []*Bump
	Failures []Failure
	Skips    []Skip
}

// StrategyFor returns the strategy registered under the given name. An
// empty name selects independent versioning.
func StrategyFor(name string) (Strategy, error) {
	switch name {
	case "", StrategyIndependent:
		return independentStrategy{}, nil
	case StrategyFixed:
		return fixedStrategy{}, nil
	case StrategySynced:
		return syncedStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown versioning strategy %q", name)
	}
}

// overrides returns the override set, empty when none was supplied.
func (in Input) overrides() *override.Set {
	if in.Overrides == nil {
		return override.EmptySet()
	}
	return in.Overrides
}

// rules returns the severity rules, defaulted when none were supplied.
func (in Input) rules() commit.Rules {
	if in.Rules == nil {
		return commit.DefaultRules()
	}
	return in.Rules
}

// relevantFor returns the commits affecting a package: affinity-filtered
// in a monorepo, everything in a single-package repository.
func relevantFor(in Input, pkg *workspace.Package) []*commit.Commit {
	if in.Workspace.IsMonorepo() {
		return workspace.RelevantCommits(in.Commits, pkg)
	}
	return in.Commits
}
