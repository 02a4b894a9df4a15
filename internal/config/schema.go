// Package config provides configuration management for Resolvo.
package config

import (
	"github.com/relicta-tech/resolvo/internal/domain/commit"
	"github.com/relicta-tech/resolvo/internal/domain/version"
)

// Config is the root configuration for Resolvo.
type Config struct {
	// Versioning configures severity rules and version resolution.
	Versioning VersioningConfig `mapstructure:"versioning" json:"versioning"`
	// Git configures how the repository is read.
	Git GitConfig `mapstructure:"git" json:"git"`
	// Workspace configures package discovery.
	Workspace WorkspaceConfig `mapstructure:"workspace" json:"workspace"`
	// Registry configures published-baseline lookups.
	Registry RegistryConfig `mapstructure:"registry" json:"registry"`
	// Overrides configures the override directory reader.
	Overrides OverridesConfig `mapstructure:"overrides" json:"overrides"`
	// Output configures CLI output settings.
	Output OutputConfig `mapstructure:"output" json:"output"`
}

// VersioningConfig configures severity rules and version resolution.
type VersioningConfig struct {
	// Strategy is the resolution strategy (independent, fixed, synced).
	Strategy string `mapstructure:"strategy" json:"strategy"`
	// Rules maps conventional commit types to severities (patch, minor,
	// major). A type mapped to null or "none" never triggers a release.
	// Types listed here are merged over the built-in defaults.
	Rules map[string]*string `mapstructure:"rules" json:"rules,omitempty"`
	// Prerelease is a global prerelease identifier applied to every
	// computed version (e.g. "beta" yields 1.3.0-beta.0).
	Prerelease string `mapstructure:"prerelease" json:"prerelease,omitempty"`
	// Graduate promotes 0.x packages to 1.0.0 on their next release.
	Graduate bool `mapstructure:"graduate" json:"graduate"`
}

// GitConfig configures how the repository is read.
type GitConfig struct {
	// TagPrefix is the prefix for version tags (default: "v").
	TagPrefix string `mapstructure:"tag_prefix" json:"tag_prefix"`
	// FromRef pins the resolution baseline to a specific ref instead of
	// the latest version tag.
	FromRef string `mapstructure:"from_ref" json:"from_ref,omitempty"`
}

// WorkspaceConfig configures package discovery.
type WorkspaceConfig struct {
	// Globs lists path patterns for workspace members. When empty the
	// patterns come from the root manifest (package.json workspaces or
	// Cargo.toml workspace members).
	Globs []string `mapstructure:"globs" json:"globs,omitempty"`
}

// RegistryConfig configures published-baseline lookups.
type RegistryConfig struct {
	// Check enables reconciling computed versions against the registry.
	Check bool `mapstructure:"check" json:"check"`
	// URL is the registry base URL.
	URL string `mapstructure:"url" json:"url"`
	// Concurrency bounds parallel registry lookups.
	Concurrency int `mapstructure:"concurrency" json:"concurrency"`
}

// OverridesConfig configures the override directory reader.
type OverridesConfig struct {
	// Dir is the directory holding override markdown files.
	Dir string `mapstructure:"dir" json:"dir"`
}

// OutputConfig configures CLI output settings.
type OutputConfig struct {
	// Format is the output format (text, json).
	Format string `mapstructure:"format" json:"format"`
	// Color enables colored output.
	Color bool `mapstructure:"color" json:"color"`
	// Verbose enables verbose logging.
	Verbose bool `mapstructure:"verbose" json:"verbose"`
	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" json:"log_level"`
}

// DomainRules converts the configured severity map into domain rules
// merged over the defaults. A null or "none" value disables the type.
func (c VersioningConfig) DomainRules() commit.Rules {
	if len(c.Rules) == 0 {
		return nil
	}
	overrides := make(commit.Rules, len(c.Rules))
	for commitType, severity := range c.Rules {
		if severity == nil || *severity == "" || *severity == "none" {
			overrides[commitType] = version.ReleaseTypeNone
			continue
		}
		parsed, err := version.ParseReleaseType(*severity)
		if err != nil {
			overrides[commitType] = version.ReleaseTypeNone
			continue
		}
		overrides[commitType] = parsed
	}
	return commit.DefaultRules().Merge(overrides)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Versioning: VersioningConfig{
			Strategy:   "independent",
			Rules:      map[string]*string{},
			Prerelease: "",
			Graduate:   false,
		},
		Git: GitConfig{
			TagPrefix: "v",
		},
		Workspace: WorkspaceConfig{
			Globs: []string{},
		},
		Registry: RegistryConfig{
			Check:       false,
			URL:         "https://registry.npmjs.org",
			Concurrency: 8,
		},
		Overrides: OverridesConfig{
			Dir: ".changes",
		},
		Output: OutputConfig{
			Format:   "text",
			Color:    true,
			Verbose:  false,
			LogLevel: "info",
		},
	}
}

// ConfigFileNames to search for.
// Only .resolvo.{yaml,yml,json,toml} is supported for consistency
// with Go ecosystem conventions (.goreleaser.yaml, .golangci.yml, etc.).
var ConfigFileNames = []string{
	".resolvo",
}

// ConfigFileExtensions supported by Viper.
var ConfigFileExtensions = []string{
	"yaml",
	"yml",
	"json",
	"toml",
}
