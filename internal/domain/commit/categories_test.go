package commit

import (
	"reflect"
	"testing"
)

func TestCategorize(t *testing.T) {
	t.Parallel()

	commits := []*Commit{
		Parse("a1", "feat(core): add resolver"),
		Parse("a2", "fix: handle nil input"),
		Parse("a3", "feat!: drop old api"),
		Parse("a4", "perf(cache): reuse buffers"),
		Parse("a5", "docs: update readme"),
		Parse("a6", "feat(cli): add json output"),
	}

	cats := Categorize(commits)

	if got := len(cats.Breaking); got != 1 {
		t.Errorf("Breaking has %d commits, want 1", got)
	}
	if got := len(cats.Features); got != 2 {
		t.Errorf("Features has %d commits, want 2", got)
	}
	if got := len(cats.Fixes); got != 1 {
		t.Errorf("Fixes has %d commits, want 1", got)
	}
	if got := len(cats.Perf); got != 1 {
		t.Errorf("Perf has %d commits, want 1", got)
	}
	if got := len(cats.Other); got != 1 {
		t.Errorf("Other has %d commits, want 1", got)
	}

	// Breaking commits are not repeated in their type category.
	for _, c := range cats.Features {
		if c.IsBreaking() {
			t.Errorf("breaking commit %s also listed under Features", c.Hash())
		}
	}

	if cats.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if got := cats.Total(); got != len(commits) {
		t.Errorf("Total() = %d, want %d", got, len(commits))
	}
}

func TestCategorizeEmpty(t *testing.T) {
	t.Parallel()

	cats := Categorize(nil)
	if !cats.IsEmpty() {
		t.Error("IsEmpty() = false for no commits, want true")
	}
	if got := cats.Total(); got != 0 {
		t.Errorf("Total() = %d, want 0", got)
	}
}

func TestScopes(t *testing.T) {
	t.Parallel()

	commits := []*Commit{
		Parse("a1", "feat(core): one"),
		Parse("a2", "fix(cli): two"),
		Parse("a3", "feat(core): three"),
		Parse("a4", "docs: four"),
	}

	got := Scopes(commits)
	want := []string{"cli", "core"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scopes() = %v, want %v", got, want)
	}
}
