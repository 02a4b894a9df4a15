// Package manifest discovers workspace packages from their manifests.
package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/relicta-tech/resolvo/internal/application/planning"
	"github.com/relicta-tech/resolvo/internal/domain/workspace"
	rerrors "github.com/relicta-tech/resolvo/internal/errors"
)

// Ensure Scanner implements the planning port.
var _ planning.WorkspaceSource = (*Scanner)(nil)

// maxManifestSize caps how much of a single manifest file we read.
const maxManifestSize = 4 << 20

// Scanner reads package manifests under a root directory and assembles
// the workspace. It understands npm package.json workspaces and cargo
// workspace members.
type Scanner struct {
	root  string
	globs []string
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithGlobs sets explicit member globs, overriding the patterns declared
// in the root manifest.
func WithGlobs(globs []string) ScannerOption {
	return func(s *Scanner) {
		if len(globs) > 0 {
			s.globs = globs
		}
	}
}

// NewScanner creates a scanner rooted at the given directory.
func NewScanner(root string, opts ...ScannerOption) *Scanner {
	s := &Scanner{root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Discover reads the root manifest and every member manifest it names.
func (s *Scanner) Discover(ctx context.Context) (*workspace.Workspace, error) {
	const op = "manifest.Discover"

	if _, err := os.Stat(filepath.Join(s.root, "package.json")); err == nil {
		return s.discoverNPM(ctx)
	}
	if _, err := os.Stat(filepath.Join(s.root, "Cargo.toml")); err == nil {
		return s.discoverCargo(ctx)
	}
	return nil, rerrors.Workspace(op, fmt.Sprintf("no package manifest found at %s", s.root))
}

// memberDirs expands workspace member patterns to directories that contain
// the named manifest file, relative to the scanner root. Results are
// deduplicated and sorted.
func (s *Scanner) memberDirs(patterns []string, manifestName string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	for _, pattern := range patterns {
		if pattern == "" || pattern[0] == '!' {
			continue
		}

		matches, err := doublestar.FilepathGlob(filepath.Join(s.root, pattern, manifestName))
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			rel, err := filepath.Rel(s.root, filepath.Dir(match))
			if err != nil {
				return nil, err
			}
			dir := filepath.ToSlash(rel)
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}
