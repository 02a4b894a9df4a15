package plan

import (
	"time"

	"github.com/google/uuid"
)

// Failure records a package whose bump computation failed. The plan is
// best-effort: failures ride alongside successful bumps instead of
// aborting the run.
type Failure struct {
	Package string
	Err     error
}

// Skip records a package that was deliberately left out of the plan,
// such as a manifest version behind the published baseline.
type Skip struct {
	Package string
	Reason  string
}

// Plan is the ordered set of version bumps for one resolution run.
type Plan struct {
	id        string
	strategy  string
	createdAt time.Time
	bumps     []*Bump
	failures  []Failure
	skips     []Skip
}

// NewPlan creates a plan with a fresh identifier.
func NewPlan(strategy string, bumps []*Bump, failures []Failure, skips []Skip) *Plan {
	return &Plan{
		id:        uuid.New().String(),
		strategy:  strategy,
		createdAt: time.Now(),
		bumps:     bumps,
		failures:  failures,
		skips:     skips,
	}
}

// ID returns the plan identifier.
func (p *Plan) ID() string {
	return p.id
}

// Strategy returns the versioning strategy that produced the plan.
func (p *Plan) Strategy() string {
	return p.strategy
}

// CreatedAt returns when the plan was computed.
func (p *Plan) CreatedAt() time.Time {
	return p.createdAt
}

// Bumps returns the planned version bumps in order.
func (p *Plan) Bumps() []*Bump {
	out := make([]*Bump, len(p.bumps))
	copy(out, p.bumps)
	return out
}

// Bump returns the bump for the named package, or nil.
func (p *Plan) Bump(name string) *Bump {
	for _, b := range p.bumps {
		if b.pkg == name {
			return b
		}
	}
	return nil
}

// Failures returns the per-package failures encountered while planning.
func (p *Plan) Failures() []Failure {
	out := make([]Failure, len(p.failures))
	copy(out, p.failures)
	return out
}

// Skips returns the packages deliberately left out, with reasons.
func (p *Plan) Skips() []Skip {
	out := make([]Skip, len(p.skips))
	copy(out, p.skips)
	return out
}

// HasChanges returns true when at least one bump was planned.
func (p *Plan) HasChanges() bool {
	return len(p.bumps) > 0
}

// HasFailures returns true when at least one package failed.
func (p *Plan) HasFailures() bool {
	return len(p.failures) > 0
}
