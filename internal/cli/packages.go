package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/resolvo/internal/application/planning"
)

// runPackages implements the packages command.
func runPackages(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	uc, err := newListPackages(cfg)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	output, err := uc.Execute(ctx)
	if err != nil {
		return fmt.Errorf("failed to list packages: %w", err)
	}

	if outputJSON {
		return outputPackagesJSON(output)
	}

	return outputPackagesText(output)
}

// outputPackagesJSON outputs the discovered packages as JSON.
func outputPackagesJSON(output *planning.ListPackagesOutput) error {
	ws := output.Workspace

	packages := make([]map[string]any, 0, ws.Len())
	for _, pkg := range ws.Packages() {
		entry := map[string]any{
			"name":    pkg.Name(),
			"version": pkg.Version(),
			"path":    pkg.Path(),
			"private": pkg.IsPrivate(),
		}
		if deps := internalDeps(ws.Names(), pkg.DependsOn); len(deps) > 0 {
			entry["internal_dependencies"] = deps
		}
		packages = append(packages, entry)
	}

	result := map[string]any{
		"root":     ws.Root(),
		"monorepo": ws.IsMonorepo(),
		"packages": packages,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputPackagesText outputs the discovered packages as a table.
func outputPackagesText(output *planning.ListPackagesOutput) error {
	ws := output.Workspace

	printTitle("Workspace Packages")
	fmt.Println()

	if ws.Len() == 0 {
		printInfo("No packages discovered")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
		styles.Bold.Render("PACKAGE"),
		styles.Bold.Render("VERSION"),
		styles.Bold.Render("PATH"),
		styles.Bold.Render("DEPENDS ON"))
	for _, pkg := range ws.Packages() {
		name := pkg.Name()
		if pkg.IsPrivate() {
			name += styles.Subtle.Render(" (private)")
		}
		path := pkg.Path()
		if path == "" {
			path = "."
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
			name,
			pkg.Version(),
			path,
			strings.Join(internalDeps(ws.Names(), pkg.DependsOn), ", "))
	}
	w.Flush()
	fmt.Println()

	if ws.IsMonorepo() {
		printSubtle(fmt.Sprintf("%d packages under %s", ws.Len(), ws.Root()))
	}

	return nil
}

// internalDeps filters a package's dependency set down to workspace
// members, preserving workspace order.
func internalDeps(names []string, dependsOn func(string) bool) []string {
	var deps []string
	for _, name := range names {
		if dependsOn(name) {
			deps = append(deps, name)
		}
	}
	return deps
}
