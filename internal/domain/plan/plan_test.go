package plan

import (
	"errors"
	"testing"

	"github.com/relicta-tech/resolvo/internal/domain/version"
)

func TestNewPlan(t *testing.T) {
	t.Parallel()

	bump := NewBump("app", version.MustParse("1.0.0"), version.MustParse("1.1.0"), version.ReleaseTypeMinor)
	failure := Failure{Package: "bad", Err: errors.New("boom")}
	skip := Skip{Package: "behind", Reason: "manifest version 1.0.0 is behind published 2.0.0"}

	p := NewPlan(StrategyIndependent, []*Bump{bump}, []Failure{failure}, []Skip{skip})

	if p.ID() == "" {
		t.Error("ID() is empty")
	}
	if p.CreatedAt().IsZero() {
		t.Error("CreatedAt() is zero")
	}
	if p.Strategy() != StrategyIndependent {
		t.Errorf("Strategy() = %q, want independent", p.Strategy())
	}
	if !p.HasChanges() {
		t.Error("HasChanges() = false, want true")
	}
	if !p.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}
	if got := p.Bump("app"); got != bump {
		t.Errorf("Bump(app) = %v, want the planned bump", got)
	}
	if got := p.Bump("missing"); got != nil {
		t.Errorf("Bump(missing) = %v, want nil", got)
	}
	if got := len(p.Skips()); got != 1 {
		t.Errorf("Skips() has %d entries, want 1", got)
	}
}

func TestPlanIDsAreUnique(t *testing.T) {
	t.Parallel()

	a := NewPlan(StrategyIndependent, nil, nil, nil)
	b := NewPlan(StrategyIndependent, nil, nil, nil)
	if a.ID() == b.ID() {
		t.Errorf("two plans share ID %s", a.ID())
	}
}

func TestBumpAccessors(t *testing.T) {
	t.Parallel()

	deps := []Dependency{{Name: "core", Version: version.MustParse("1.1.0")}}
	b := NewBump("cli", version.MustParse("2.0.0"), version.MustParse("2.0.1"), version.ReleaseTypePatch,
		WithUpdatedDeps(deps),
		AsCascade(),
		WithOverrideContent("note"),
	)

	if !b.IsCascade() {
		t.Error("IsCascade() = false, want true")
	}
	if got := b.UpdatedDeps(); len(got) != 1 || got[0].Name != "core" {
		t.Errorf("UpdatedDeps() = %v, want [core 1.1.0]", got)
	}
	if got := b.OverrideContent(); got != "note" {
		t.Errorf("OverrideContent() = %q, want note", got)
	}
	if got := b.String(); got != "cli: 2.0.0 -> 2.0.1 (patch)" {
		t.Errorf("String() = %q", got)
	}
}
