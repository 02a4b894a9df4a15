// Package cli provides the command-line interface for Resolvo.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/relicta-tech/resolvo/internal/config"
)

var (
	// Build metadata, injected through SetVersionInfo.
	versionInfo struct {
		Version string
		Commit  string
		Date    string
	}

	// Persistent flag values shared by every command.
	cfgFile    string
	verbose    bool
	outputJSON bool
	noColor    bool
	logLevel   string

	// Effective configuration, loaded once per invocation.
	cfg *config.Config

	logger *log.Logger
)

// styles is the terminal palette for human-readable output.
var styles = struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Subtle  lipgloss.Style
	Bold    lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	Subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Bold:    lipgloss.NewStyle().Bold(true),
}

// SetVersionInfo records the build metadata main injects via ldflags.
func SetVersionInfo(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "resolvo",
	Short: "Release resolution for conventional-commit repositories",
	Long: `Resolvo computes what version every package in a repository should
become next, from conventional commits, tags, dependency edges, and
override files.

Key features:
  • Conventional commit parsing with per-package file affinity
  • Monorepo dependency cascades and fixed/synced strategies
  • Published-registry baseline reconciliation
  • Hand-authored override files for out-of-band releases

Get started with 'resolvo init' to set up your project.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init, version, and help run without a config file.
		if cmd.Name() == "init" || cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute dispatches the invocation to the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext is Execute with a cancelable context, so a signal in
// main can interrupt a running command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: .resolvo.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	// Level and format are refined in initConfig once flags are parsed.
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		ReportCaller:    false,
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(packagesCmd)
}

// initConfig loads the configuration and wires it into the global CLI
// state before any command that needs it runs.
func initConfig() error {
	if err := loadAndValidateConfig(); err != nil {
		return err
	}

	applyGlobalFlags()
	configureLogger()

	return nil
}

// loadAndValidateConfig resolves the effective configuration, honoring
// an explicit --config path.
func loadAndValidateConfig() error {
	loader := config.NewLoader()

	if cfgFile != "" {
		loader.WithConfigPath(cfgFile)
	}

	var err error
	cfg, err = loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// applyGlobalFlags lets command-line flags win over config file values.
func applyGlobalFlags() {
	if verbose {
		cfg.Output.Verbose = true
	}

	if outputJSON {
		cfg.Output.Format = "json"
	}

	if noColor {
		cfg.Output.Color = false
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if logLevel != "" {
		cfg.Output.LogLevel = logLevel
	}
}

// configureLogger applies the effective format and level to the shared
// logger.
func configureLogger() {
	if cfg.Output.Format == "json" {
		logger.SetFormatter(log.JSONFormatter)
	} else if !cfg.Output.Color {
		logger.SetFormatter(log.TextFormatter)
	}

	switch cfg.Output.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	if cfg.Output.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("resolvo %s\n", versionInfo.Version)
		if verbose {
			fmt.Printf("  commit: %s\n", versionInfo.Commit)
			fmt.Printf("  built:  %s\n", versionInfo.Date)
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new resolvo configuration",
	Long: `Initialize a new resolvo configuration in the current directory.

This command creates a .resolvo.yaml file with sensible defaults and
commented examples for the most common settings.`,
	RunE: runInit,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Resolve the next version for every package",
	Long: `Analyze commits since the last release and compute the next version
for every package in the workspace.

The resolution follows conventional commits, applies initial-development
(0.x) rules, cascades bumps through internal dependency edges, and
merges any override files found in the changes directory.`,
	RunE: runPlan,
}

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List the packages discovered in the workspace",
	Long: `List the packages the workspace scanner discovers, with their
manifest versions, paths, and internal dependency edges.`,
	RunE: runPackages,
}

// Rendering helpers shared by the command implementations.

func printSuccess(msg string) {
	fmt.Println(styles.Success.Render("✓ " + msg))
}

func printError(msg string) {
	fmt.Println(styles.Error.Render("✗ " + msg))
}

func printWarning(msg string) {
	fmt.Println(styles.Warning.Render("⚠ " + msg))
}

func printInfo(msg string) {
	fmt.Println(styles.Info.Render("ℹ " + msg))
}

func printTitle(msg string) {
	fmt.Println(styles.Title.Render(msg))
}

func printSubtle(msg string) {
	fmt.Println(styles.Subtle.Render(msg))
}

// IsJSONOutput reports whether results should render as JSON.
func IsJSONOutput() bool {
	return outputJSON
}
