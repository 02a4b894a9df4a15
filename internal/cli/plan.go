package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/resolvo/internal/application/planning"
	"github.com/relicta-tech/resolvo/internal/domain/plan"
	"github.com/relicta-tech/resolvo/internal/domain/version"
)

var (
	planFromRef       string
	planStrategy      string
	planPrerelease    string
	planGraduate      bool
	planCheckRegistry bool
	planChangesDir    string
	planShowCommits   bool
)

func init() {
	planCmd.Flags().StringVar(&planFromRef, "from", "", "starting reference (default: latest version tag)")
	planCmd.Flags().StringVar(&planStrategy, "strategy", "", "versioning strategy (independent, fixed, synced)")
	planCmd.Flags().StringVar(&planPrerelease, "prerelease", "", "prerelease channel for every computed version (e.g. beta)")
	planCmd.Flags().BoolVar(&planGraduate, "graduate", false, "promote 0.x packages to 1.0.0")
	planCmd.Flags().BoolVar(&planCheckRegistry, "check-registry", false, "reconcile manifest versions against the registry")
	planCmd.Flags().StringVar(&planChangesDir, "changes", "", "override files directory (default: .changes)")
	planCmd.Flags().BoolVar(&planShowCommits, "commits", false, "show the commits behind each bump")
}

// runPlan implements the plan command.
func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	input := planInputFromConfig()

	uc, err := newPlanReleases(cfg, planChangesDir)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	var spinner *Spinner
	if !outputJSON {
		spinner = NewSpinner("Resolving releases...")
		spinner.Start()
	}

	output, err := uc.Execute(ctx, input)

	if spinner != nil {
		spinner.Stop()
	}

	if err != nil {
		return fmt.Errorf("failed to plan releases: %w", err)
	}

	if outputJSON {
		return outputPlanJSON(output)
	}

	return outputPlanText(output)
}

// planInputFromConfig merges config defaults with command flags. Flags
// win when set.
func planInputFromConfig() planning.PlanReleasesInput {
	input := planning.PlanReleasesInput{
		FromRef:       cfg.Git.FromRef,
		Strategy:      cfg.Versioning.Strategy,
		Rules:         cfg.Versioning.DomainRules(),
		Prerelease:    cfg.Versioning.Prerelease,
		Graduate:      cfg.Versioning.Graduate,
		CheckRegistry: cfg.Registry.Check,
	}

	if planFromRef != "" {
		input.FromRef = planFromRef
	}
	if planStrategy != "" {
		input.Strategy = planStrategy
	}
	if planPrerelease != "" {
		input.Prerelease = planPrerelease
	}
	if planGraduate {
		input.Graduate = true
	}
	if planCheckRegistry {
		input.CheckRegistry = true
	}

	return input
}

// outputPlanJSON outputs the plan as JSON.
func outputPlanJSON(output *planning.PlanReleasesOutput) error {
	p := output.Plan

	bumps := make([]map[string]any, 0, len(p.Bumps()))
	for _, b := range p.Bumps() {
		entry := map[string]any{
			"package":         b.Package(),
			"current_version": b.CurrentVersion().String(),
			"new_version":     b.NewVersion().String(),
			"release_type":    string(b.ReleaseType()),
			"cascade":         b.IsCascade(),
			"commits":         len(b.Commits()),
		}
		if deps := b.UpdatedDeps(); len(deps) > 0 {
			updated := make(map[string]string, len(deps))
			for _, d := range deps {
				updated[d.Name] = d.Version.String()
			}
			entry["updated_dependencies"] = updated
		}
		if b.OverrideContent() != "" {
			entry["override_content"] = b.OverrideContent()
		}
		bumps = append(bumps, entry)
	}

	skips := make([]map[string]string, 0, len(p.Skips()))
	for _, s := range p.Skips() {
		skips = append(skips, map[string]string{
			"package": s.Package,
			"reason":  s.Reason,
		})
	}

	failures := make([]map[string]string, 0, len(p.Failures()))
	for _, f := range p.Failures() {
		failures = append(failures, map[string]string{
			"package": f.Package,
			"error":   f.Err.Error(),
		})
	}

	result := map[string]any{
		"plan_id":      p.ID(),
		"strategy":     p.Strategy(),
		"created_at":   p.CreatedAt(),
		"from_ref":     output.FromRef,
		"commit_count": output.CommitCount,
		"bumps":        bumps,
		"skips":        skips,
		"failures":     failures,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputPlanText outputs the plan as text.
func outputPlanText(output *planning.PlanReleasesOutput) error {
	p := output.Plan

	printTitle("Release Plan")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Strategy:\t%s\n", p.Strategy())
	if output.FromRef != "" {
		fmt.Fprintf(w, "  Since:\t%s\n", output.FromRef)
	} else {
		fmt.Fprintf(w, "  Since:\t(full history)\n")
	}
	fmt.Fprintf(w, "  Commits:\t%d\n", output.CommitCount)
	fmt.Fprintf(w, "  Packages:\t%d\n", output.Workspace.Len())
	w.Flush()
	fmt.Println()

	if !p.HasChanges() {
		printInfo("No releases needed")
	} else {
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			styles.Bold.Render("PACKAGE"),
			styles.Bold.Render("CURRENT"),
			styles.Bold.Render("NEXT"),
			styles.Bold.Render("TYPE"),
			styles.Bold.Render("WHY"))
		for _, b := range p.Bumps() {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
				b.Package(),
				b.CurrentVersion().String(),
				styles.Success.Render(b.NewVersion().String()),
				releaseTypeDisplay(b.ReleaseType()),
				bumpReason(b))
		}
		w.Flush()
		fmt.Println()
	}

	if planShowCommits {
		printBumpCommits(p)
	}

	for _, s := range p.Skips() {
		printWarning(fmt.Sprintf("%s skipped: %s", s.Package, s.Reason))
	}
	for _, f := range p.Failures() {
		printError(fmt.Sprintf("%s failed: %v", f.Package, f.Err))
	}
	if len(p.Skips())+len(p.Failures()) > 0 {
		fmt.Println()
	}

	if p.HasChanges() {
		printSubtle(fmt.Sprintf("Plan %s", p.ID()))
	}

	return nil
}

// bumpReason summarizes what triggered a bump.
func bumpReason(b *plan.Bump) string {
	switch {
	case b.IsCascade():
		deps := b.UpdatedDeps()
		if len(deps) == 1 {
			return styles.Subtle.Render(fmt.Sprintf("dependency %s", deps[0].Name))
		}
		return styles.Subtle.Render(fmt.Sprintf("%d dependencies", len(deps)))
	case b.ReleaseType() == version.ReleaseTypeManual:
		return styles.Subtle.Render("override")
	case b.ReleaseType() == version.ReleaseTypeInitial:
		return styles.Subtle.Render("first release")
	case len(b.Commits()) == 1:
		return styles.Subtle.Render("1 commit")
	case len(b.Commits()) > 1:
		return styles.Subtle.Render(fmt.Sprintf("%d commits", len(b.Commits())))
	default:
		return styles.Subtle.Render("override")
	}
}

// printBumpCommits lists the commits behind each bump.
func printBumpCommits(p *plan.Plan) {
	for _, b := range p.Bumps() {
		commits := b.Commits()
		if len(commits) == 0 {
			continue
		}

		printTitle(b.Package())
		for _, c := range commits {
			scope := ""
			if c.Scope() != "" {
				scope = fmt.Sprintf("(%s) ", c.Scope())
			}
			desc := c.Subject()
			if c.IsBreaking() {
				desc = styles.Error.Render("BREAKING: " + desc)
			}
			fmt.Printf("  %s %s%s\n", styles.Subtle.Render(c.ShortHash()), scope, desc)
		}
		fmt.Println()
	}
}

// releaseTypeDisplay returns a styled display string for the release type.
func releaseTypeDisplay(rt version.ReleaseType) string {
	switch rt.Stable() {
	case version.ReleaseTypeMajor:
		return styles.Error.Render(string(rt))
	case version.ReleaseTypeMinor:
		return styles.Info.Render(string(rt))
	case version.ReleaseTypePatch:
		return styles.Success.Render(string(rt))
	default:
		return styles.Subtle.Render(string(rt))
	}
}
