package override

import (
	"testing"

	"github.com/relicta-tech/resolvo/internal/domain/version"
)

func mustOverride(t *testing.T, id, release string, opts ...Option) *Override {
	t.Helper()
	o, err := New(id, release, opts...)
	if err != nil {
		t.Fatalf("New(%s, %s) error = %v", id, release, err)
	}
	return o
}

func TestMergeExplicitBeatsSeverity(t *testing.T) {
	t.Parallel()

	res := Merge([]*Override{
		mustOverride(t, "a.md", "major"),
		mustOverride(t, "b.md", "9.9.9"),
	})

	if !res.HasExplicit() {
		t.Fatal("HasExplicit() = false, want true")
	}
	if got := res.Explicit().String(); got != "9.9.9" {
		t.Errorf("Explicit() = %s, want 9.9.9", got)
	}
}

func TestMergeHighestExplicitWins(t *testing.T) {
	t.Parallel()

	res := Merge([]*Override{
		mustOverride(t, "a.md", "2.0.0"),
		mustOverride(t, "b.md", "1.5.0"),
		mustOverride(t, "c.md", "3.1.0"),
	})

	if got := res.Explicit().String(); got != "3.1.0" {
		t.Errorf("Explicit() = %s, want 3.1.0", got)
	}
}

func TestMergeSeverityMax(t *testing.T) {
	t.Parallel()

	res := Merge([]*Override{
		mustOverride(t, "a.md", "patch"),
		mustOverride(t, "b.md", "minor"),
		mustOverride(t, "c.md", "patch"),
	})

	if res.HasExplicit() {
		t.Fatal("HasExplicit() = true, want false")
	}
	if got := res.Severity(); got != version.ReleaseTypeMinor {
		t.Errorf("Severity() = %v, want minor", got)
	}
}

func TestMergePrereleaseFirstInFileOrder(t *testing.T) {
	t.Parallel()

	res := Merge([]*Override{
		mustOverride(t, "a.md", "patch"),
		mustOverride(t, "b.md", "patch", WithPrerelease("beta")),
		mustOverride(t, "c.md", "patch", WithPrerelease("rc")),
	})

	if got := res.Prerelease(); got != "beta" {
		t.Errorf("Prerelease() = %q, want %q", got, "beta")
	}
}

func TestMergeContentConcatenation(t *testing.T) {
	t.Parallel()

	res := Merge([]*Override{
		mustOverride(t, "a.md", "patch", WithContent("First note.")),
		mustOverride(t, "b.md", "patch"),
		mustOverride(t, "c.md", "patch", WithContent("Second note.")),
	})

	want := "First note.\n\nSecond note."
	if got := res.Content(); got != want {
		t.Errorf("Content() = %q, want %q", got, want)
	}
}

func TestMergeEmpty(t *testing.T) {
	t.Parallel()

	res := Merge(nil)
	if !res.IsEmpty() {
		t.Error("IsEmpty() = false for no overrides, want true")
	}
	if got := res.Severity(); got != version.ReleaseTypeNone {
		t.Errorf("Severity() = %v, want none", got)
	}
}
