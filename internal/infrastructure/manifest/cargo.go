package manifest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/relicta-tech/resolvo/internal/domain/workspace"
	rerrors "github.com/relicta-tech/resolvo/internal/errors"
	"github.com/relicta-tech/resolvo/internal/fileutil"
)

// cargoManifest is the subset of Cargo.toml the scanner reads.
type cargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Publish any    `toml:"publish"`
	} `toml:"package"`
	Workspace struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

// discoverCargo assembles the workspace from Cargo.toml manifests. A
// [workspace] table names the member crates; a bare [package] is a single
// crate.
func (s *Scanner) discoverCargo(_ context.Context) (*workspace.Workspace, error) {
	const op = "manifest.discoverCargo"

	root, err := readCargoToml(filepath.Join(s.root, "Cargo.toml"))
	if err != nil {
		return nil, rerrors.WorkspaceWrap(err, op, "failed to read root manifest")
	}

	patterns := s.globs
	if len(patterns) == 0 {
		patterns = root.Workspace.Members
	}

	if len(patterns) == 0 {
		if root.Package.Name == "" {
			return nil, rerrors.Workspace(op, "root Cargo.toml has no package name")
		}
		return workspace.NewWorkspace(s.root, []*workspace.Package{
			cargoPackage(root, ""),
		}), nil
	}

	dirs, err := s.memberDirs(patterns, "Cargo.toml")
	if err != nil {
		return nil, rerrors.WorkspaceWrap(err, op, "failed to expand workspace patterns")
	}

	packages := make([]*workspace.Package, 0, len(dirs))
	for _, dir := range dirs {
		manifest, err := readCargoToml(filepath.Join(s.root, filepath.FromSlash(dir), "Cargo.toml"))
		if err != nil {
			return nil, rerrors.WorkspaceWrap(err, op, fmt.Sprintf("failed to read manifest at %s", dir))
		}
		if manifest.Package.Name == "" {
			return nil, rerrors.Workspace(op, fmt.Sprintf("crate at %s has no package name", dir))
		}
		packages = append(packages, cargoPackage(manifest, dir))
	}

	return workspace.NewWorkspace(s.root, packages), nil
}

func readCargoToml(path string) (*cargoManifest, error) {
	data, err := fileutil.ReadFileLimited(path, maxManifestSize)
	if err != nil {
		return nil, fmt.Errorf("reading Cargo.toml: %w", err)
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing Cargo.toml: %w", err)
	}
	return &manifest, nil
}

func cargoPackage(manifest *cargoManifest, dir string) *workspace.Package {
	opts := []workspace.Option{
		workspace.WithDependencies(cargoDeps(manifest.Dependencies)),
		workspace.WithDevDependencies(cargoDeps(manifest.DevDependencies)),
	}
	if cargoPrivate(manifest.Package.Publish) {
		opts = append(opts, workspace.WithPrivate())
	}
	return workspace.New(manifest.Package.Name, manifest.Package.Version, dir, opts...)
}

// cargoDeps flattens a cargo dependency table to name -> version
// requirement. Table entries keep their version field, everything else an
// empty requirement.
func cargoDeps(deps map[string]any) map[string]string {
	if len(deps) == 0 {
		return nil
	}

	out := make(map[string]string, len(deps))
	for name, value := range deps {
		switch v := value.(type) {
		case string:
			out[name] = v
		case map[string]any:
			req, _ := v["version"].(string)
			out[name] = req
		default:
			out[name] = ""
		}
	}
	return out
}

// cargoPrivate reports whether a publish entry forbids publishing. Cargo
// accepts `publish = false` and an allow-list of registries, where an empty
// list also means never publish.
func cargoPrivate(publish any) bool {
	switch v := publish.(type) {
	case bool:
		return !v
	case []any:
		return len(v) == 0
	default:
		return false
	}
}
