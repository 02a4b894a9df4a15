package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/relicta-tech/resolvo/internal/domain/workspace"
	rerrors "github.com/relicta-tech/resolvo/internal/errors"
	"github.com/relicta-tech/resolvo/internal/fileutil"
)

// packageJSON is the subset of package.json the scanner reads.
type packageJSON struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Private          bool              `json:"private"`
	Workspaces       workspacesField   `json:"workspaces"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// workspacesField accepts both the array form and the yarn object form
// ({"packages": [...]}) of the workspaces key.
type workspacesField []string

func (w *workspacesField) UnmarshalJSON(data []byte) error {
	var patterns []string
	if err := json.Unmarshal(data, &patterns); err == nil {
		*w = patterns
		return nil
	}

	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*w = obj.Packages
	return nil
}

// discoverNPM assembles the workspace from package.json manifests. A root
// manifest with member patterns describes a monorepo whose releasable
// packages are the members; without patterns the root itself is the single
// package.
func (s *Scanner) discoverNPM(_ context.Context) (*workspace.Workspace, error) {
	const op = "manifest.discoverNPM"

	root, err := readPackageJSON(filepath.Join(s.root, "package.json"))
	if err != nil {
		return nil, rerrors.WorkspaceWrap(err, op, "failed to read root manifest")
	}

	patterns := s.globs
	if len(patterns) == 0 {
		patterns = root.Workspaces
	}

	if len(patterns) == 0 {
		if root.Name == "" {
			return nil, rerrors.Workspace(op, "root package.json has no name")
		}
		return workspace.NewWorkspace(s.root, []*workspace.Package{
			npmPackage(root, ""),
		}), nil
	}

	dirs, err := s.memberDirs(patterns, "package.json")
	if err != nil {
		return nil, rerrors.WorkspaceWrap(err, op, "failed to expand workspace patterns")
	}

	packages := make([]*workspace.Package, 0, len(dirs))
	for _, dir := range dirs {
		manifest, err := readPackageJSON(filepath.Join(s.root, filepath.FromSlash(dir), "package.json"))
		if err != nil {
			return nil, rerrors.WorkspaceWrap(err, op, fmt.Sprintf("failed to read manifest at %s", dir))
		}
		if manifest.Name == "" {
			return nil, rerrors.Workspace(op, fmt.Sprintf("package at %s has no name", dir))
		}
		packages = append(packages, npmPackage(manifest, dir))
	}

	return workspace.NewWorkspace(s.root, packages), nil
}

func readPackageJSON(path string) (*packageJSON, error) {
	data, err := fileutil.ReadFileLimited(path, maxManifestSize)
	if err != nil {
		return nil, fmt.Errorf("reading package.json: %w", err)
	}

	var manifest packageJSON
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}
	return &manifest, nil
}

func npmPackage(manifest *packageJSON, dir string) *workspace.Package {
	opts := []workspace.Option{
		workspace.WithDependencies(manifest.Dependencies),
		workspace.WithDevDependencies(manifest.DevDependencies),
		workspace.WithPeerDependencies(manifest.PeerDependencies),
	}
	if manifest.Private {
		opts = append(opts, workspace.WithPrivate())
	}
	return workspace.New(manifest.Name, manifest.Version, dir, opts...)
}
