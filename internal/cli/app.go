package cli

import (
	"context"

	"github.com/relicta-tech/resolvo/internal/application/planning"
	"github.com/relicta-tech/resolvo/internal/config"
	"github.com/relicta-tech/resolvo/internal/container"
)

type planReleasesUseCase interface {
	Execute(ctx context.Context, input planning.PlanReleasesInput) (*planning.PlanReleasesOutput, error)
}

type listPackagesUseCase interface {
	Execute(ctx context.Context) (*planning.ListPackagesOutput, error)
}

// newPlanReleases builds the plan use case against the local repository.
// Declared as a variable so tests can substitute a stub.
var newPlanReleases = func(cfg *config.Config, overridesDir string) (planReleasesUseCase, error) {
	c, err := container.New(cfg, container.WithOverridesDir(overridesDir))
	if err != nil {
		return nil, err
	}
	return c.PlanReleases()
}

// newListPackages builds the packages use case against the local
// repository. Declared as a variable so tests can substitute a stub.
var newListPackages = func(cfg *config.Config) (listPackagesUseCase, error) {
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	return c.ListPackages()
}
