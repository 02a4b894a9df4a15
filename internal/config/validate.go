package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/relicta-tech/resolvo/internal/domain/version"
	rerrors "github.com/relicta-tech/resolvo/internal/errors"
)

// ValidationError accumulates everything wrong with a configuration so
// one run surfaces all problems at once. Warnings ride along but do not
// fail validation.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

// Error renders the collected problems as an indented list under
// "Errors:" and "Warnings:" headings.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration validation failed:\n")

	writeGroup := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(heading)
		for _, item := range items {
			b.WriteString("\n  - ")
			b.WriteString(item)
		}
		b.WriteString("\n")
	}

	writeGroup("Errors:", e.Errors)
	writeGroup("Warnings:", e.Warnings)
	return strings.TrimRight(b.String(), "\n")
}

// HasErrors reports whether validation collected any hard failures.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// HasWarnings reports whether validation collected any warnings.
func (e *ValidationError) HasWarnings() bool {
	return len(e.Warnings) > 0
}

// Addf records a formatted hard failure.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// Warnf records a formatted warning.
func (e *ValidationError) Warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks every section of the configuration. Warnings go to
// stderr; collected errors come back as a single validation error.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	ve.checkVersioning(cfg.Versioning)
	ve.checkWorkspace(cfg.Workspace)
	ve.checkRegistry(cfg.Registry)
	ve.checkOutput(cfg.Output)

	if ve.HasWarnings() {
		fmt.Fprintf(os.Stderr, "\nConfiguration Warnings:\n")
		for _, warning := range ve.Warnings {
			fmt.Fprintf(os.Stderr, "  - %s\n", warning)
		}
		fmt.Fprintf(os.Stderr, "\n")
	}

	if ve.HasErrors() {
		return rerrors.Validation("config.Validate", ve.Error())
	}

	return nil
}

func (e *ValidationError) checkVersioning(cfg VersioningConfig) {
	validStrategies := []string{"independent", "fixed", "synced"}
	if !slices.Contains(validStrategies, cfg.Strategy) {
		e.Addf("versioning.strategy: must be one of %v, got %q", validStrategies, cfg.Strategy)
	}

	validSeverities := []string{"none", "patch", "minor", "major"}
	for commitType, severity := range cfg.Rules {
		if severity == nil || *severity == "" {
			continue
		}
		if !slices.Contains(validSeverities, *severity) {
			e.Addf("versioning.rules.%s: must be one of %v or null, got %q", commitType, validSeverities, *severity)
		}
	}

	if cfg.Prerelease != "" {
		if _, err := version.Zero.WithPrerelease(cfg.Prerelease); err != nil {
			e.Addf("versioning.prerelease: invalid identifier %q: %v", cfg.Prerelease, err)
		}
	}
}

func (e *ValidationError) checkWorkspace(cfg WorkspaceConfig) {
	for i, glob := range cfg.Globs {
		if strings.TrimSpace(glob) == "" {
			e.Addf("workspace.globs[%d]: must not be empty", i)
		}
		if strings.HasPrefix(glob, "/") {
			e.Addf("workspace.globs[%d]: must be relative to the repository root, got %q", i, glob)
		}
	}
}

func (e *ValidationError) checkRegistry(cfg RegistryConfig) {
	if cfg.URL != "" && !strings.HasPrefix(cfg.URL, "${") {
		parsed, err := url.Parse(cfg.URL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			e.Addf("registry.url: must be a valid URL, got %q", cfg.URL)
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			e.Addf("registry.url: scheme must be http or https, got %q", parsed.Scheme)
		}
	}

	if cfg.Check && cfg.URL == "" {
		e.Addf("registry.url: required when registry.check is enabled")
	}

	if cfg.Concurrency < 1 {
		e.Addf("registry.concurrency: must be at least 1, got %d", cfg.Concurrency)
	} else if cfg.Concurrency > 64 {
		e.Warnf("registry.concurrency: %d is unusually high, registries may throttle", cfg.Concurrency)
	}
}

func (e *ValidationError) checkOutput(cfg OutputConfig) {
	validFormats := []string{"text", "json"}
	if !slices.Contains(validFormats, cfg.Format) {
		e.Addf("output.format: must be one of %v, got %q", validFormats, cfg.Format)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		e.Addf("output.log_level: must be one of %v, got %q", validLogLevels, cfg.LogLevel)
	}
}
