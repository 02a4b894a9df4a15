package workspace

import (
	"reflect"
	"testing"
)

func TestNewWorkspace(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace("/repo", []*Package{
		New("@scope/utils", "1.0.0", "packages/utils"),
		New("@scope/cli", "2.0.0", "packages/cli"),
		New("@scope/internal", "0.1.0", "packages/internal", WithPrivate()),
	})

	if got := ws.Root(); got != "/repo" {
		t.Errorf("Root() = %q, want %q", got, "/repo")
	}
	if got := ws.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if !ws.IsMonorepo() {
		t.Error("IsMonorepo() = false, want true")
	}

	wantNames := []string{"@scope/cli", "@scope/internal", "@scope/utils"}
	if got := ws.Names(); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("Names() = %v, want %v", got, wantNames)
	}

	if p := ws.Package("@scope/cli"); p == nil || p.Version() != "2.0.0" {
		t.Errorf("Package(@scope/cli) = %v, want version 2.0.0", p)
	}
	if p := ws.Package("@scope/missing"); p != nil {
		t.Errorf("Package(missing) = %v, want nil", p)
	}

	public := ws.Public()
	if len(public) != 2 {
		t.Fatalf("Public() returned %d packages, want 2", len(public))
	}
	for _, p := range public {
		if p.IsPrivate() {
			t.Errorf("Public() included private package %s", p.Name())
		}
	}
}

func TestSinglePackageWorkspace(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace("/repo", []*Package{New("solo", "1.0.0", "")})
	if ws.IsMonorepo() {
		t.Error("IsMonorepo() = true for one package, want false")
	}
}
