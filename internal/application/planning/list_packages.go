package planning

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relicta-tech/resolvo/internal/domain/workspace"
)

// ListPackagesOutput represents the output of the ListPackages use case.
type ListPackagesOutput struct {
	Workspace *workspace.Workspace
}

// ListPackagesUseCase reports the packages discovered in the workspace.
type ListPackagesUseCase struct {
	workspaces WorkspaceSource
	logger     *slog.Logger
}

// NewListPackagesUseCase creates a new ListPackagesUseCase.
func NewListPackagesUseCase(workspaces WorkspaceSource) *ListPackagesUseCase {
	return &ListPackagesUseCase{
		workspaces: workspaces,
		logger:     slog.Default().With("usecase", "list_packages"),
	}
}

// Execute executes the list packages use case.
func (uc *ListPackagesUseCase) Execute(ctx context.Context) (*ListPackagesOutput, error) {
	ws, err := uc.workspaces.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover workspace: %w", err)
	}

	uc.logger.Debug("workspace discovered",
		"packages", ws.Len(),
		"monorepo", ws.IsMonorepo())

	return &ListPackagesOutput{Workspace: ws}, nil
}
