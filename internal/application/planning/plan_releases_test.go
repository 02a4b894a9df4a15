// Package planning provides application use cases for computing release
// plans.
package planning

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/relicta-tech/resolvo/internal/domain/override"
	"github.com/relicta-tech/resolvo/internal/domain/version"
	"github.com/relicta-tech/resolvo/internal/domain/workspace"
)

// stubCommitSource implements CommitSource for testing.
type stubCommitSource struct {
	commits      []RawCommit
	commitsErr   error
	latestTag    string
	latestTagErr error
	gotFromRef   string
}

func (s *stubCommitSource) CommitsSince(ctx context.Context, fromRef string) ([]RawCommit, error) {
	s.gotFromRef = fromRef
	return s.commits, s.commitsErr
}

func (s *stubCommitSource) LatestTag(ctx context.Context) (string, error) {
	return s.latestTag, s.latestTagErr
}

// stubWorkspaceSource implements WorkspaceSource for testing.
type stubWorkspaceSource struct {
	ws  *workspace.Workspace
	err error
}

func (s *stubWorkspaceSource) Discover(ctx context.Context) (*workspace.Workspace, error) {
	return s.ws, s.err
}

// stubRegistry implements Registry for testing. LatestVersion is called
// concurrently, so the query log is guarded.
type stubRegistry struct {
	mu       sync.Mutex
	versions map[string]string
	err      error
	queried  []string
}

func (s *stubRegistry) LatestVersion(ctx context.Context, name string) (version.Version, bool, error) {
	s.mu.Lock()
	s.queried = append(s.queried, name)
	s.mu.Unlock()

	if s.err != nil {
		return version.Version{}, false, s.err
	}
	raw, ok := s.versions[name]
	if !ok {
		return version.Version{}, false, nil
	}
	return version.MustParse(raw), true, nil
}

func (s *stubRegistry) queriedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.queried))
	copy(names, s.queried)
	sort.Strings(names)
	return names
}

// stubOverrideSource implements OverrideSource for testing.
type stubOverrideSource struct {
	set *override.Set
	err error
}

func (s *stubOverrideSource) Load(ctx context.Context) (*override.Set, error) {
	return s.set, s.err
}

// rawCommit creates a raw commit record for testing.
func rawCommit(hash, message string, files ...string) RawCommit {
	return RawCommit{
		Hash:    hash,
		Message: message,
		Files:   files,
		Author:  "Test Author",
		Email:   "test@example.com",
		Date:    time.Now(),
	}
}

func singleWorkspace(name, ver string) *workspace.Workspace {
	return workspace.NewWorkspace("", []*workspace.Package{
		workspace.New(name, ver, ""),
	})
}

func TestPlanReleasesUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	mustLoad := func(id, release string, opts ...override.Option) *override.Override {
		o, err := override.New(id, release, opts...)
		if err != nil {
			t.Fatalf("override %s: %v", id, err)
		}
		return o
	}

	tests := []struct {
		name            string
		input           PlanReleasesInput
		commits         *stubCommitSource
		workspaces      *stubWorkspaceSource
		registry        *stubRegistry
		overrides       *stubOverrideSource
		wantErr         bool
		errMsg          string
		wantBumps       map[string]string
		wantSkips       int
		wantFromRef     string
		wantCommitCount int
	}{
		{
			name:  "minor bump from feature commits",
			input: PlanReleasesInput{},
			commits: &stubCommitSource{
				latestTag: "v1.2.3",
				commits: []RawCommit{
					rawCommit("abc123", "feat: add search endpoint"),
					rawCommit("def456", "fix: trim whitespace in queries"),
					rawCommit("aaa111", "tweak readme wording"),
					rawCommit("bbb222", "chore(release): 1.2.3"),
				},
			},
			workspaces:      &stubWorkspaceSource{ws: singleWorkspace("app", "1.2.3")},
			wantBumps:       map[string]string{"app": "1.3.0"},
			wantFromRef:     "v1.2.3",
			wantCommitCount: 2,
		},
		{
			name:  "explicit from ref bypasses tag lookup",
			input: PlanReleasesInput{FromRef: "v2.0.0"},
			commits: &stubCommitSource{
				latestTagErr: errors.New("should not be called"),
				commits: []RawCommit{
					rawCommit("abc123", "fix: handle empty payloads"),
				},
			},
			workspaces:      &stubWorkspaceSource{ws: singleWorkspace("app", "2.0.0")},
			wantBumps:       map[string]string{"app": "2.0.1"},
			wantFromRef:     "v2.0.0",
			wantCommitCount: 1,
		},
		{
			name:  "no tags falls back to full history",
			input: PlanReleasesInput{},
			commits: &stubCommitSource{
				latestTagErr: errors.New("no tags found"),
				commits: []RawCommit{
					rawCommit("abc123", "feat: initial import"),
				},
			},
			workspaces:      &stubWorkspaceSource{ws: singleWorkspace("app", "0.1.0")},
			wantBumps:       map[string]string{"app": "0.1.1"},
			wantFromRef:     "",
			wantCommitCount: 1,
		},
		{
			name:            "no relevant commits yields empty plan",
			input:           PlanReleasesInput{},
			commits:         &stubCommitSource{latestTag: "v1.0.0"},
			workspaces:      &stubWorkspaceSource{ws: singleWorkspace("app", "1.0.0")},
			wantBumps:       map[string]string{},
			wantFromRef:     "v1.0.0",
			wantCommitCount: 0,
		},
		{
			name:  "override alone triggers a release",
			input: PlanReleasesInput{},
			commits: &stubCommitSource{
				latestTag: "v1.2.3",
			},
			workspaces: &stubWorkspaceSource{ws: singleWorkspace("app", "1.2.3")},
			overrides: &stubOverrideSource{
				set: override.NewSet([]*override.Override{
					mustLoad("20260801-cve-fix.md", "minor"),
				}, nil),
			},
			wantBumps:       map[string]string{"app": "1.3.0"},
			wantFromRef:     "v1.2.3",
			wantCommitCount: 0,
		},
		{
			name:  "registry miss plans first release",
			input: PlanReleasesInput{CheckRegistry: true},
			commits: &stubCommitSource{
				latestTagErr: errors.New("no tags found"),
				commits: []RawCommit{
					rawCommit("abc123", "feat: first feature"),
				},
			},
			workspaces:      &stubWorkspaceSource{ws: singleWorkspace("app", "0.1.0")},
			registry:        &stubRegistry{versions: map[string]string{}},
			wantBumps:       map[string]string{"app": "0.1.0"},
			wantCommitCount: 1,
		},
		{
			name:  "registry ahead of manifest skips package",
			input: PlanReleasesInput{CheckRegistry: true},
			commits: &stubCommitSource{
				latestTag: "v1.0.0",
				commits: []RawCommit{
					rawCommit("abc123", "fix: late fix"),
				},
			},
			workspaces:      &stubWorkspaceSource{ws: singleWorkspace("app", "1.0.0")},
			registry:        &stubRegistry{versions: map[string]string{"app": "2.0.0"}},
			wantBumps:       map[string]string{},
			wantSkips:       1,
			wantFromRef:     "v1.0.0",
			wantCommitCount: 1,
		},
		{
			name:  "fixed strategy applies shared version",
			input: PlanReleasesInput{Strategy: "fixed"},
			commits: &stubCommitSource{
				latestTag: "v1.1.0",
				commits: []RawCommit{
					rawCommit("abc123", "feat(core): shared feature", "packages/core/index.ts"),
				},
			},
			workspaces: &stubWorkspaceSource{ws: workspace.NewWorkspace("", []*workspace.Package{
				workspace.New("core", "1.1.0", "packages/core"),
				workspace.New("ui", "1.0.2", "packages/ui"),
			})},
			wantBumps:       map[string]string{"core": "1.2.0", "ui": "1.2.0"},
			wantFromRef:     "v1.1.0",
			wantCommitCount: 1,
		},
		{
			name:    "invalid strategy",
			input:   PlanReleasesInput{Strategy: "ad-hoc"},
			commits: &stubCommitSource{},
			workspaces: &stubWorkspaceSource{
				ws: singleWorkspace("app", "1.0.0"),
			},
			wantErr: true,
			errMsg:  "unknown strategy",
		},
		{
			name:    "invalid from reference",
			input:   PlanReleasesInput{FromRef: "refs with space"},
			commits: &stubCommitSource{},
			workspaces: &stubWorkspaceSource{
				ws: singleWorkspace("app", "1.0.0"),
			},
			wantErr: true,
			errMsg:  "invalid from reference",
		},
		{
			name:       "workspace discovery error",
			input:      PlanReleasesInput{},
			commits:    &stubCommitSource{},
			workspaces: &stubWorkspaceSource{err: errors.New("no manifest")},
			wantErr:    true,
			errMsg:     "failed to discover workspace",
		},
		{
			name:       "empty workspace",
			input:      PlanReleasesInput{},
			commits:    &stubCommitSource{},
			workspaces: &stubWorkspaceSource{ws: workspace.NewWorkspace("", nil)},
			wantErr:    true,
			errMsg:     "no packages found",
		},
		{
			name:  "commit read error",
			input: PlanReleasesInput{},
			commits: &stubCommitSource{
				latestTag:  "v1.0.0",
				commitsErr: errors.New("object not found"),
			},
			workspaces: &stubWorkspaceSource{ws: singleWorkspace("app", "1.0.0")},
			wantErr:    true,
			errMsg:     "failed to read commits",
		},
		{
			name:       "override load error",
			input:      PlanReleasesInput{},
			commits:    &stubCommitSource{latestTag: "v1.0.0"},
			workspaces: &stubWorkspaceSource{ws: singleWorkspace("app", "1.0.0")},
			overrides:  &stubOverrideSource{err: errors.New("unreadable frontmatter")},
			wantErr:    true,
			errMsg:     "failed to load overrides",
		},
		{
			name:  "registry error fails the whole run",
			input: PlanReleasesInput{CheckRegistry: true},
			commits: &stubCommitSource{
				latestTag: "v1.0.0",
				commits: []RawCommit{
					rawCommit("abc123", "fix: a fix"),
				},
			},
			workspaces: &stubWorkspaceSource{ws: singleWorkspace("app", "1.0.0")},
			registry:   &stubRegistry{err: errors.New("503 from registry")},
			wantErr:    true,
			errMsg:     "failed to fetch published baselines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []UseCaseOption{}
			if tt.registry != nil {
				opts = append(opts, WithRegistry(tt.registry))
			}
			if tt.overrides != nil {
				opts = append(opts, WithOverrideSource(tt.overrides))
			}
			uc := NewPlanReleasesUseCase(tt.commits, tt.workspaces, opts...)

			output, err := uc.Execute(ctx, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if output == nil {
				t.Error("expected output, got nil")
				return
			}

			bumps := output.Plan.Bumps()
			if len(bumps) != len(tt.wantBumps) {
				t.Errorf("got %d bumps, want %d", len(bumps), len(tt.wantBumps))
			}
			for name, want := range tt.wantBumps {
				b := output.Plan.Bump(name)
				if b == nil {
					t.Errorf("missing bump for %s", name)
					continue
				}
				if got := b.NewVersion().String(); got != want {
					t.Errorf("%s: new version = %s, want %s", name, got, want)
				}
			}

			if got := len(output.Plan.Skips()); got != tt.wantSkips {
				t.Errorf("got %d skips, want %d", got, tt.wantSkips)
			}
			if output.FromRef != tt.wantFromRef {
				t.Errorf("FromRef = %q, want %q", output.FromRef, tt.wantFromRef)
			}
			if output.CommitCount != tt.wantCommitCount {
				t.Errorf("CommitCount = %d, want %d", output.CommitCount, tt.wantCommitCount)
			}
		})
	}
}

func TestPlanReleasesUseCase_RegistryFanOut(t *testing.T) {
	ctx := context.Background()

	ws := workspace.NewWorkspace("", []*workspace.Package{
		workspace.New("@scope/core", "1.0.0", "packages/core"),
		workspace.New("@scope/ui", "1.0.0", "packages/ui"),
		workspace.New("@scope/cli", "1.0.0", "packages/cli"),
		workspace.New("@scope/internal-tools", "1.0.0", "tools",
			workspace.WithPrivate()),
	})

	registry := &stubRegistry{versions: map[string]string{
		"@scope/core": "1.0.0",
		"@scope/ui":   "1.0.0",
		"@scope/cli":  "1.0.0",
	}}
	commits := &stubCommitSource{
		latestTag: "v1.0.0",
		commits: []RawCommit{
			rawCommit("abc123", "fix(core): patch the core", "packages/core/index.ts"),
		},
	}

	uc := NewPlanReleasesUseCase(commits, &stubWorkspaceSource{ws: ws},
		WithRegistry(registry),
		WithConcurrency(2),
	)

	output, err := uc.Execute(ctx, PlanReleasesInput{CheckRegistry: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"@scope/cli", "@scope/core", "@scope/ui"}
	got := registry.queriedNames()
	if len(got) != len(want) {
		t.Fatalf("queried %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("queried %v, want %v", got, want)
			break
		}
	}

	if b := output.Plan.Bump("@scope/core"); b == nil {
		t.Error("expected a bump for @scope/core")
	} else if b.NewVersion().String() != "1.0.1" {
		t.Errorf("@scope/core new version = %s, want 1.0.1", b.NewVersion())
	}
}

func TestPlanReleasesUseCase_MonorepoCascade(t *testing.T) {
	ctx := context.Background()

	ws := workspace.NewWorkspace("", []*workspace.Package{
		workspace.New("@scope/core", "1.4.0", "packages/core"),
		workspace.New("@scope/ui", "2.1.0", "packages/ui",
			workspace.WithDependencies(map[string]string{"@scope/core": "^1.4.0"})),
	})
	commits := &stubCommitSource{
		latestTag: "v1.4.0",
		commits: []RawCommit{
			rawCommit("abc123", "feat(core)!: drop legacy entry points", "packages/core/index.ts"),
			rawCommit("def456", "docs: refresh examples", "README.md"),
		},
	}

	uc := NewPlanReleasesUseCase(commits, &stubWorkspaceSource{ws: ws})

	output, err := uc.Execute(ctx, PlanReleasesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	core := output.Plan.Bump("@scope/core")
	if core == nil {
		t.Fatal("expected a bump for @scope/core")
	}
	if core.NewVersion().String() != "2.0.0" {
		t.Errorf("@scope/core new version = %s, want 2.0.0", core.NewVersion())
	}

	ui := output.Plan.Bump("@scope/ui")
	if ui == nil {
		t.Fatal("expected a cascade bump for @scope/ui")
	}
	if ui.NewVersion().String() != "2.1.1" {
		t.Errorf("@scope/ui new version = %s, want 2.1.1", ui.NewVersion())
	}
	if !ui.IsCascade() {
		t.Error("@scope/ui bump should be marked as cascade")
	}
	deps := ui.UpdatedDeps()
	if len(deps) != 1 || deps[0].Name != "@scope/core" || deps[0].Version.String() != "2.0.0" {
		t.Errorf("updated dependencies = %v, want @scope/core 2.0.0", deps)
	}
}

func TestNewPlanReleasesUseCase(t *testing.T) {
	commits := &stubCommitSource{}
	workspaces := &stubWorkspaceSource{}

	uc := NewPlanReleasesUseCase(commits, workspaces)

	if uc == nil {
		t.Fatal("expected non-nil use case")
	}
	if uc.commits == nil {
		t.Error("commits should not be nil")
	}
	if uc.workspaces == nil {
		t.Error("workspaces should not be nil")
	}
	if uc.registry != nil {
		t.Error("registry should default to nil")
	}
	if uc.concurrency != DefaultConcurrency {
		t.Errorf("concurrency = %d, want %d", uc.concurrency, DefaultConcurrency)
	}
	if uc.logger == nil {
		t.Error("logger should not be nil")
	}
}

func TestListPackagesUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("reports discovered workspace", func(t *testing.T) {
		ws := workspace.NewWorkspace("", []*workspace.Package{
			workspace.New("@scope/core", "1.0.0", "packages/core"),
			workspace.New("@scope/ui", "1.0.0", "packages/ui"),
		})
		uc := NewListPackagesUseCase(&stubWorkspaceSource{ws: ws})

		output, err := uc.Execute(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Workspace.Len() != 2 {
			t.Errorf("Len() = %d, want 2", output.Workspace.Len())
		}
	})

	t.Run("propagates discovery error", func(t *testing.T) {
		uc := NewListPackagesUseCase(&stubWorkspaceSource{err: errors.New("no manifest")})

		_, err := uc.Execute(ctx)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "failed to discover workspace") {
			t.Errorf("error %q should mention discovery", err.Error())
		}
	})
}
