// Package integration exercises the planner against real git repositories.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// gitEnv pins the author identity and detaches git from host-level
// configuration, so fixtures look the same on every machine.
var gitEnv = []string{
	"GIT_AUTHOR_NAME=resolvo-test",
	"GIT_AUTHOR_EMAIL=resolvo@test.invalid",
	"GIT_COMMITTER_NAME=resolvo-test",
	"GIT_COMMITTER_EMAIL=resolvo@test.invalid",
	"GIT_CONFIG_GLOBAL=/dev/null",
	"GIT_CONFIG_SYSTEM=/dev/null",
}

// TestRepo is a temporary git repository driven through the git binary.
type TestRepo struct {
	t   testing.TB
	Dir string
}

// NewTestRepo initializes an empty repository on a main branch inside a
// test-scoped temp directory.
func NewTestRepo(t testing.TB) *TestRepo {
	t.Helper()

	repo := &TestRepo{t: t, Dir: t.TempDir()}
	repo.Git("init", "--initial-branch=main")
	return repo
}

// Git runs one git command in the repository and returns its combined
// output, failing the test on a non-zero exit.
func (r *TestRepo) Git(args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), gitEnv...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

// WriteFile writes a file inside the repository, creating parent
// directories as needed.
func (r *TestRepo) WriteFile(path, content string) {
	r.t.Helper()

	dst := filepath.Join(r.Dir, path)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		r.t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(dst, []byte(content), 0o644); err != nil {
		r.t.Fatalf("write %s: %v", path, err)
	}
}

// Commit stages everything and commits, returning the new HEAD hash.
func (r *TestRepo) Commit(message string) string {
	r.t.Helper()

	r.Git("add", "-A")
	r.Git("commit", "-m", message, "--allow-empty")
	return strings.TrimRight(r.Git("rev-parse", "HEAD"), "\r\n")
}

// Tag creates an annotated tag at HEAD.
func (r *TestRepo) Tag(name string) {
	r.t.Helper()
	r.Git("tag", "-a", name, "-m", name)
}

// SetupMonorepo writes an npm workspace with a core package and a ui
// package depending on it, committed and tagged as the baseline.
func (r *TestRepo) SetupMonorepo() {
	r.t.Helper()

	r.WriteFile("package.json", `{
  "name": "acme",
  "private": true,
  "workspaces": ["packages/*"]
}
`)
	r.WriteFile("packages/core/package.json", `{
  "name": "@acme/core",
  "version": "1.2.3"
}
`)
	r.WriteFile("packages/ui/package.json", `{
  "name": "@acme/ui",
  "version": "2.0.0",
  "dependencies": {
    "@acme/core": "^1.2.3"
  }
}
`)
	r.Commit("chore: scaffold workspace")
	r.Tag("v2.0.0")
}

// RequireGit skips the test when no git binary is on PATH.
func RequireGit(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git not available: %v", err)
	}
}
