package planning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/relicta-tech/resolvo/internal/domain/commit"
	"github.com/relicta-tech/resolvo/internal/domain/override"
	"github.com/relicta-tech/resolvo/internal/domain/plan"
	"github.com/relicta-tech/resolvo/internal/domain/workspace"
)

// DefaultConcurrency bounds the parallel baseline fetches per run.
const DefaultConcurrency = 8

// PlanReleasesInput represents the input for the PlanReleases use case.
type PlanReleasesInput struct {
	// FromRef is the baseline git reference. Empty means the latest
	// version tag, falling back to the full history.
	FromRef string
	// Strategy selects independent, fixed or synced versioning. Empty
	// means independent.
	Strategy string
	// Rules maps commit types to severities. Nil means the defaults.
	Rules commit.Rules
	// Prerelease is a global pre-release channel.
	Prerelease string
	// Graduate promotes 0.x packages to 1.0.0.
	Graduate bool
	// CheckRegistry reconciles manifest versions against published
	// baselines before incrementing.
	CheckRegistry bool
}

// Validate validates the PlanReleasesInput.
func (i *PlanReleasesInput) Validate() error {
	if i.FromRef != "" && strings.ContainsAny(i.FromRef, ":?*[\\ ") {
		return fmt.Errorf("invalid from reference: %s", i.FromRef)
	}
	if _, err := plan.StrategyFor(i.Strategy); err != nil {
		return err
	}
	return nil
}

// PlanReleasesOutput represents the output of the PlanReleases use case.
type PlanReleasesOutput struct {
	Plan      *plan.Plan
	Workspace *workspace.Workspace
	// FromRef is the baseline reference that was actually used; empty
	// when the full history was scanned.
	FromRef string
	// CommitCount is the number of release-relevant commits considered.
	CommitCount int
}

// PlanReleasesUseCase computes the next version for every package in
// the workspace.
type PlanReleasesUseCase struct {
	commits     CommitSource
	workspaces  WorkspaceSource
	registry    Registry
	overrides   OverrideSource
	concurrency int
	logger      *slog.Logger
}

// UseCaseOption configures a PlanReleasesUseCase.
type UseCaseOption func(*PlanReleasesUseCase)

// WithRegistry enables published-baseline reconciliation.
func WithRegistry(r Registry) UseCaseOption {
	return func(uc *PlanReleasesUseCase) {
		uc.registry = r
	}
}

// WithOverrideSource enables override-file loading.
func WithOverrideSource(s OverrideSource) UseCaseOption {
	return func(uc *PlanReleasesUseCase) {
		uc.overrides = s
	}
}

// WithConcurrency bounds the parallel baseline fetches.
func WithConcurrency(n int) UseCaseOption {
	return func(uc *PlanReleasesUseCase) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

// WithLogger sets the use case logger.
func WithLogger(logger *slog.Logger) UseCaseOption {
	return func(uc *PlanReleasesUseCase) {
		if logger != nil {
			uc.logger = logger
		}
	}
}

// NewPlanReleasesUseCase creates a new PlanReleasesUseCase.
func NewPlanReleasesUseCase(commits CommitSource, workspaces WorkspaceSource, opts ...UseCaseOption) *PlanReleasesUseCase {
	uc := &PlanReleasesUseCase{
		commits:     commits,
		workspaces:  workspaces,
		concurrency: DefaultConcurrency,
		logger:      slog.Default().With("usecase", "plan_releases"),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Execute executes the plan releases use case.
func (uc *PlanReleasesUseCase) Execute(ctx context.Context, input PlanReleasesInput) (*PlanReleasesOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	ws, err := uc.workspaces.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover workspace: %w", err)
	}
	if ws.Len() == 0 {
		return nil, fmt.Errorf("no packages found in workspace")
	}

	fromRef := input.FromRef
	if fromRef == "" {
		tag, tagErr := uc.commits.LatestTag(ctx)
		if tagErr != nil {
			uc.logger.Debug("no baseline tag resolved, scanning full history", "error", tagErr)
		} else {
			fromRef = tag
		}
	}

	raws, err := uc.commits.CommitsSince(ctx, fromRef)
	if err != nil {
		return nil, fmt.Errorf("failed to read commits: %w", err)
	}
	classified := classify(raws)

	uc.logger.Debug("classified commits",
		"total", len(raws),
		"relevant", len(classified),
		"from", fromRef)

	overrideSet := override.EmptySet()
	if uc.overrides != nil {
		overrideSet, err = uc.overrides.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var baselines plan.Baselines
	if input.CheckRegistry && uc.registry != nil {
		baselines, err = uc.fetchBaselines(ctx, ws.Public())
		if err != nil {
			return nil, fmt.Errorf("failed to fetch published baselines: %w", err)
		}
	}

	strategy, err := plan.StrategyFor(input.Strategy)
	if err != nil {
		return nil, err
	}

	builder := plan.NewBuilder(
		plan.WithStrategy(strategy),
		plan.WithRules(input.Rules),
		plan.WithPrerelease(input.Prerelease),
		plan.WithGraduate(input.Graduate),
	)
	p := builder.Build(ws, classified, overrideSet, baselines)

	for _, skip := range p.Skips() {
		uc.logger.Warn("package skipped", "package", skip.Package, "reason", skip.Reason)
	}
	for _, failure := range p.Failures() {
		uc.logger.Warn("package failed", "package", failure.Package, "error", failure.Err)
	}

	return &PlanReleasesOutput{
		Plan:        p,
		Workspace:   ws,
		FromRef:     fromRef,
		CommitCount: len(classified),
	}, nil
}

// classify parses raw commits and drops everything that is not a
// release-relevant conventional commit.
func classify(raws []RawCommit) []*commit.Commit {
	var classified []*commit.Commit
	for _, raw := range raws {
		opts := []commit.Option{
			commit.WithAuthor(raw.Author, raw.Email),
			commit.WithDate(raw.Date),
		}
		if len(raw.Files) > 0 {
			opts = append(opts, commit.WithFiles(raw.Files))
		}

		c := commit.Parse(raw.Hash, raw.Message, opts...)
		if c == nil || c.IsReleaseArtifact() {
			continue
		}
		classified = append(classified, c)
	}
	return classified
}

// fetchBaselines queries the registry for every public package with
// bounded parallelism, joining all results before resolution starts.
func (uc *PlanReleasesUseCase) fetchBaselines(ctx context.Context, packages []*workspace.Package) (plan.Baselines, error) {
	results := make([]plan.Baseline, len(packages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, pkg := range packages {
		g.Go(func() error {
			v, ok, err := uc.registry.LatestVersion(gctx, pkg.Name())
			if err != nil {
				return fmt.Errorf("package %s: %w", pkg.Name(), err)
			}
			results[i] = plan.Baseline{Version: v, Found: ok}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	baselines := make(plan.Baselines, len(packages))
	for i, pkg := range packages {
		baselines[pkg.Name()] = results[i]
	}
	return baselines, nil
}
