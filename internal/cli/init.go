package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/relicta-tech/resolvo/internal/config"
	"github.com/relicta-tech/resolvo/internal/fileutil"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config file")
}

// starterConfig is the commented configuration written by resolvo init.
const starterConfig = `# Resolvo configuration.
# Reference: every key can also be set via RESOLVO_* environment
# variables, e.g. RESOLVO_VERSIONING_STRATEGY=fixed.

versioning:
  # independent: each package gets its own version (default)
  # fixed:       every package moves to one shared version
  # synced:      like fixed, but only changed packages are bumped
  strategy: independent

  # Map commit types to severities. Types map to patch, minor, major,
  # or null to disable. feat/fix/perf are built in.
  # rules:
  #   docs: patch
  #   refactor: null

  # Channel every computed version, e.g. 1.3.0-beta.0.
  # prerelease: beta

  # Promote 0.x packages to 1.0.0 on their next release.
  graduate: false

git:
  tag_prefix: "v"

workspace:
  # Path globs for workspace members. Defaults to the root manifest's
  # workspaces field.
  # globs:
  #   - packages/*

registry:
  # Reconcile manifest versions against the published registry before
  # incrementing.
  check: false
  url: https://registry.npmjs.org

overrides:
  # Directory of markdown override files with yaml frontmatter.
  dir: .changes

output:
  format: text
  color: true
  log_level: info
`

// runInit implements the init command.
func runInit(cmd *cobra.Command, args []string) error {
	existingConfig, _ := config.FindConfigFile(".")
	if existingConfig != "" && !initForce {
		printWarning(fmt.Sprintf("Config file already exists: %s", existingConfig))
		printInfo("Use --force to overwrite")
		return nil
	}

	configFile := ".resolvo.yaml"
	if err := fileutil.AtomicWriteFile(configFile, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printSuccess(fmt.Sprintf("Created %s", configFile))
	fmt.Println()

	printTitle("Next Steps")
	fmt.Println()
	fmt.Println("  1. Review and customize your config file")
	fmt.Println("  2. Run 'resolvo packages' to check workspace discovery")
	fmt.Println("  3. Run 'resolvo plan' to resolve the next releases")
	fmt.Println()

	return nil
}

// validateStarterConfig checks that the starter template parses as yaml.
func validateStarterConfig() error {
	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(starterConfig), &parsed); err != nil {
		return fmt.Errorf("starter config is not valid yaml: %w", err)
	}
	return nil
}
