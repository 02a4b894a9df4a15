// Package override loads hand-authored override files from the changes
// directory.
package override

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/relicta-tech/resolvo/internal/application/planning"
	"github.com/relicta-tech/resolvo/internal/domain/override"
	rerrors "github.com/relicta-tech/resolvo/internal/errors"
	"github.com/relicta-tech/resolvo/internal/fileutil"
)

// DefaultDir is where override files live by convention.
const DefaultDir = ".changes"

// maxFileSize caps how much of a single override file we read. Override
// files are a few lines of frontmatter plus changelog prose; anything
// above this is not an override.
const maxFileSize = 1 << 20

// Ensure Reader implements the planning port.
var _ planning.OverrideSource = (*Reader)(nil)

// Reader loads *.md override files from a directory. Each file carries a
// YAML frontmatter block between --- lines followed by free-form changelog
// text.
type Reader struct {
	dir    string
	logger *slog.Logger
}

// NewReader creates a reader for the given directory. An empty dir falls
// back to DefaultDir.
func NewReader(dir string) *Reader {
	if dir == "" {
		dir = DefaultDir
	}
	return &Reader{
		dir:    dir,
		logger: slog.Default().With("component", "override_reader"),
	}
}

// Dir returns the directory the reader loads from.
func (r *Reader) Dir() string {
	return r.dir
}

// frontmatter is the YAML header of an override file.
type frontmatter struct {
	Release    string   `yaml:"release"`
	Package    string   `yaml:"package"`
	Packages   []string `yaml:"packages"`
	Prerelease string   `yaml:"prerelease"`
}

// Load reads every override file in the directory. Files without a release
// field are ignored; files whose values cannot be interpreted become
// invalid records attributed to the packages they meant to govern. A
// missing directory yields an empty set.
func (r *Reader) Load(ctx context.Context) (*override.Set, error) {
	const op = "override.Load"

	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return override.EmptySet(), nil
	}
	if err != nil {
		return nil, rerrors.OverrideWrap(err, op, "failed to read overrides directory")
	}

	var (
		overrides []*override.Override
		invalid   []override.Invalid
	)
	for _, entry := range entries {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, rerrors.OverrideWrap(ctxErr, op, "operation canceled")
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		data, err := fileutil.ReadFileLimited(filepath.Join(r.dir, entry.Name()), maxFileSize)
		if err != nil {
			return nil, rerrors.OverrideWrap(err, op, fmt.Sprintf("failed to read %s", entry.Name()))
		}

		o, inv := r.parse(entry.Name(), string(data))
		if o != nil {
			overrides = append(overrides, o)
		}
		if inv != nil {
			invalid = append(invalid, *inv)
		}
	}

	r.logger.Debug("loaded overrides",
		"dir", r.dir,
		"valid", len(overrides),
		"invalid", len(invalid))

	return override.NewSet(overrides, invalid), nil
}

// parse interprets one override file. Both results are nil when the file
// is not an override at all.
func (r *Reader) parse(id, content string) (*override.Override, *override.Invalid) {
	header, body, found := splitFrontmatter(content)
	if !found {
		r.logger.Debug("skipping file without frontmatter", "file", id)
		return nil, nil
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, &override.Invalid{
			ID:  id,
			Err: fmt.Errorf("invalid frontmatter: %w", err),
		}
	}

	if fm.Release == "" {
		r.logger.Debug("skipping file without release field", "file", id)
		return nil, nil
	}

	packages := fm.Packages
	if fm.Package != "" {
		packages = append(packages, fm.Package)
	}

	o, err := override.New(id, fm.Release,
		override.WithPackages(packages...),
		override.WithPrerelease(fm.Prerelease),
		override.WithContent(body),
	)
	if err != nil {
		return nil, &override.Invalid{
			ID:       id,
			Packages: packages,
			Err:      err,
		}
	}
	return o, nil
}

// splitFrontmatter separates the YAML header from the body. The header
// sits between a leading --- line and the next --- line.
func splitFrontmatter(content string) (header, body string, found bool) {
	content = strings.TrimPrefix(content, "\uFEFF")

	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return "", "", false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == "---" {
			header = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return header, body, true
		}
	}
	return "", "", false
}
