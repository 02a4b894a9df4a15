// Package container assembles adapters and use cases from configuration.
//
// Construction is lazy: nothing opens the repository or a network client
// until a use case actually needs the component, and components are shared
// once built.
package container

import (
	"path/filepath"
	"sync"

	"github.com/relicta-tech/resolvo/internal/application/planning"
	"github.com/relicta-tech/resolvo/internal/config"
	rerrors "github.com/relicta-tech/resolvo/internal/errors"
	"github.com/relicta-tech/resolvo/internal/infrastructure/git"
	"github.com/relicta-tech/resolvo/internal/infrastructure/manifest"
	"github.com/relicta-tech/resolvo/internal/infrastructure/override"
	"github.com/relicta-tech/resolvo/internal/infrastructure/registry"
)

// Container wires configuration into infrastructure adapters and the
// application use cases that consume them.
type Container struct {
	cfg *config.Config

	repoPath     string
	overridesDir string

	mu       sync.Mutex
	source   *git.Source
	scanner  *manifest.Scanner
	reader   *override.Reader
	registry *registry.Client
}

// Option configures a Container.
type Option func(*Container)

// WithRepoPath sets the repository path. Defaults to the working
// directory.
func WithRepoPath(path string) Option {
	return func(c *Container) {
		if path != "" {
			c.repoPath = path
		}
	}
}

// WithOverridesDir sets the override files directory, taking precedence
// over the configured one.
func WithOverridesDir(dir string) Option {
	return func(c *Container) {
		if dir != "" {
			c.overridesDir = dir
		}
	}
}

// New creates a container for the given configuration.
func New(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, rerrors.Config("container.New", "configuration is required")
	}

	c := &Container{
		cfg:      cfg,
		repoPath: ".",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Source returns the commit source, opening the repository on first call.
func (c *Container) Source() (*git.Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sourceLocked()
}

func (c *Container) sourceLocked() (*git.Source, error) {
	if c.source != nil {
		return c.source, nil
	}

	src, err := git.NewSource(c.repoPath, git.WithTagPrefix(c.cfg.Git.TagPrefix))
	if err != nil {
		return nil, err
	}
	c.source = src
	return src, nil
}

// Scanner returns the workspace scanner rooted at the repository.
func (c *Container) Scanner() (*manifest.Scanner, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scannerLocked()
}

func (c *Container) scannerLocked() (*manifest.Scanner, error) {
	if c.scanner != nil {
		return c.scanner, nil
	}

	src, err := c.sourceLocked()
	if err != nil {
		return nil, err
	}
	c.scanner = manifest.NewScanner(src.Root(), manifest.WithGlobs(c.cfg.Workspace.Globs))
	return c.scanner, nil
}

// Overrides returns the override file reader. A relative directory is
// anchored at the repository root, which may not be the working directory.
func (c *Container) Overrides() (*override.Reader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overridesLocked()
}

func (c *Container) overridesLocked() (*override.Reader, error) {
	if c.reader != nil {
		return c.reader, nil
	}

	dir := c.overridesDir
	if dir == "" {
		dir = c.cfg.Overrides.Dir
	}
	if dir == "" {
		dir = override.DefaultDir
	}
	if !filepath.IsAbs(dir) {
		src, err := c.sourceLocked()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(src.Root(), dir)
	}

	c.reader = override.NewReader(dir)
	return c.reader, nil
}

// Registry returns the package registry client.
func (c *Container) Registry() *registry.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registryLocked()
}

func (c *Container) registryLocked() *registry.Client {
	if c.registry == nil {
		c.registry = registry.NewClient(
			registry.WithBaseURL(c.cfg.Registry.URL),
			registry.WithCache(registry.NewCache()),
			registry.WithRetry(registry.DefaultRetryConfig()),
		)
	}
	return c.registry
}

// PlanReleases assembles the release planning use case.
func (c *Container) PlanReleases() (*planning.PlanReleasesUseCase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, err := c.sourceLocked()
	if err != nil {
		return nil, err
	}
	scanner, err := c.scannerLocked()
	if err != nil {
		return nil, err
	}
	reader, err := c.overridesLocked()
	if err != nil {
		return nil, err
	}

	opts := []planning.UseCaseOption{
		planning.WithOverrideSource(reader),
		planning.WithConcurrency(c.cfg.Registry.Concurrency),
	}
	if c.cfg.Registry.Check {
		opts = append(opts, planning.WithRegistry(c.registryLocked()))
	}

	return planning.NewPlanReleasesUseCase(src, scanner, opts...), nil
}

// ListPackages assembles the package listing use case.
func (c *Container) ListPackages() (*planning.ListPackagesUseCase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	scanner, err := c.scannerLocked()
	if err != nil {
		return nil, err
	}
	return planning.NewListPackagesUseCase(scanner), nil
}
