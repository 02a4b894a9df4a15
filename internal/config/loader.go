package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	rerrors "github.com/relicta-tech/resolvo/internal/errors"
)

// Expansion patterns for config values that reference the environment.
var (
	// envVarPattern matches ${VAR} and ${VAR:-default}.
	envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)
	// simpleEnvVarPattern matches bare $VAR.
	simpleEnvVarPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// Loader materializes Config from a config file, RESOLVO_* environment
// variables, and built-in defaults, in that order of precedence.
type Loader struct {
	v           *viper.Viper
	configPath  string
	searchPaths []string
}

// NewLoader builds a loader that searches the current directory unless
// pointed elsewhere.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix("RESOLVO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return &Loader{
		v:           v,
		searchPaths: []string{"."},
	}
}

// WithConfigPath pins the loader to one file instead of searching.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithSearchPaths adds directories to probe for a config file.
func (l *Loader) WithSearchPaths(paths ...string) *Loader {
	l.searchPaths = append(l.searchPaths, paths...)
	return l
}

// Load resolves the effective configuration. A missing config file is
// not an error; defaults and environment variables still apply.
func (l *Loader) Load() (*Config, error) {
	const op = "config.Load"

	l.setDefaults()

	if err := l.loadConfigFile(); err != nil {
		return nil, rerrors.ConfigWrap(err, op, "failed to load config file")
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, rerrors.ConfigWrap(err, op, "failed to parse configuration")
	}

	l.expandEnvVars(cfg)

	return cfg, nil
}

func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("versioning.strategy", defaults.Versioning.Strategy)
	l.v.SetDefault("versioning.prerelease", defaults.Versioning.Prerelease)
	l.v.SetDefault("versioning.graduate", defaults.Versioning.Graduate)

	l.v.SetDefault("git.tag_prefix", defaults.Git.TagPrefix)

	l.v.SetDefault("registry.check", defaults.Registry.Check)
	l.v.SetDefault("registry.url", defaults.Registry.URL)
	l.v.SetDefault("registry.concurrency", defaults.Registry.Concurrency)

	l.v.SetDefault("overrides.dir", defaults.Overrides.Dir)

	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("output.color", defaults.Output.Color)
	l.v.SetDefault("output.verbose", defaults.Output.Verbose)
	l.v.SetDefault("output.log_level", defaults.Output.LogLevel)
}

// loadConfigFile reads the pinned config file, or the first one found
// on the search paths. Finding none leaves viper on its defaults.
func (l *Loader) loadConfigFile() error {
	path := l.configPath
	if path == "" {
		found, err := FindConfigFile(l.searchPaths...)
		if err != nil {
			return nil
		}
		path = found
	}

	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// expandEnvVars rewrites the config fields that commonly carry
// environment references, such as registry URLs with ${NPM_TOKEN}.
func (l *Loader) expandEnvVars(cfg *Config) {
	cfg.Registry.URL = expandEnvVar(cfg.Registry.URL)
	cfg.Overrides.Dir = expandEnvVar(cfg.Overrides.Dir)
	cfg.Git.FromRef = expandEnvVar(cfg.Git.FromRef)
	cfg.Versioning.Prerelease = expandEnvVar(cfg.Versioning.Prerelease)
}

// expandEnvVar substitutes ${VAR}, ${VAR:-default}, and $VAR. An unset
// variable expands to its default when one is given, to the empty
// string for ${VAR}, and is left alone for bare $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	out := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if v := os.Getenv(parts[1]); v != "" {
			return v
		}
		if len(parts) > 2 {
			return parts[2]
		}
		return ""
	})

	return simpleEnvVarPattern.ReplaceAllStringFunc(out, func(match string) string {
		if v := os.Getenv(match[1:]); v != "" {
			return v
		}
		return match
	})
}

// GetConfigPath reports which config file the loader ended up reading,
// empty when it ran on defaults.
func (l *Loader) GetConfigPath() string {
	return l.v.ConfigFileUsed()
}

// LoadFromFile resolves configuration from one specific file.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader().WithConfigPath(path).Load()
}

// LoadFromDirectory resolves configuration starting the file search in
// dir.
func LoadFromDirectory(dir string) (*Config, error) {
	return NewLoader().WithSearchPaths(dir).Load()
}

// FindConfigFile probes the search paths for the first config file,
// trying each known name and extension.
func FindConfigFile(searchPaths ...string) (string, error) {
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}

	for _, searchPath := range searchPaths {
		for _, name := range ConfigFileNames {
			for _, ext := range ConfigFileExtensions {
				candidate := filepath.Join(searchPath, name+"."+ext)
				if _, err := os.Stat(candidate); err == nil {
					return candidate, nil
				}
			}
		}
	}

	return "", rerrors.NotFound("config.FindConfigFile", "no config file found")
}

// ConfigExists reports whether dir already holds a config file.
func ConfigExists(dir string) bool {
	_, err := FindConfigFile(dir)
	return err == nil
}
