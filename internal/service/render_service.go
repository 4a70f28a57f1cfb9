package service

import (
	"context"
	"fmt"

	"bricks-studio/internal/dataprovider"
	"bricks-studio/internal/model"
	"bricks-studio/internal/render"
	"bricks-studio/internal/repository"
	"bricks-studio/internal/utils"
)

// renderRowLimit caps the rows fetched per bound collection
const renderRowLimit = 100

type RenderService interface {
	Preview(ctx context.Context, project *model.Project) (render.Node, error)
	Live(ctx context.Context, projectID string) (render.Node, error)
	Deployed(ctx context.Context, deploymentID string) (render.Node, error)
	DeployedLatest(ctx context.Context, projectID string) (render.Node, error)
}

type renderService struct {
	projects repository.ProjectRepository
	deploys  DeployService
	resolver *dataprovider.Resolver
}

// NewRenderService creates a new instance of RenderService
func NewRenderService(projects repository.ProjectRepository, deploys DeployService, resolver *dataprovider.Resolver) RenderService {
	return &renderService{
		projects: projects,
		deploys:  deploys,
		resolver: resolver,
	}
}

// Preview renders a project in preview mode; interactive blocks stay inert
func (s *renderService) Preview(ctx context.Context, project *model.Project) (render.Node, error) {
	rows, err := s.resolveRows(ctx, project)
	if err != nil {
		return render.Node{}, err
	}
	return render.App(project, render.ModePreview, rows), nil
}

// Live renders the current saved state of a project as an end-user app
func (s *renderService) Live(ctx context.Context, projectID string) (render.Node, error) {
	// Validate UUID format
	if !utils.IsValidUUID(projectID) {
		return render.Node{}, repository.ErrInvalidUUID
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return render.Node{}, err
	}

	rows, err := s.resolveRows(ctx, project)
	if err != nil {
		return render.Node{}, err
	}
	return render.App(project, render.ModeLive, rows), nil
}

// Deployed renders the frozen snapshot of a deployment. Row data is still
// read live; only the layout and schema are frozen.
func (s *renderService) Deployed(ctx context.Context, deploymentID string) (render.Node, error) {
	deployment, err := s.deploys.GetDeployment(ctx, deploymentID)
	if err != nil {
		return render.Node{}, err
	}

	project, err := s.deploys.GetSnapshot(ctx, deployment)
	if err != nil {
		return render.Node{}, fmt.Errorf("failed to load deployment snapshot: %w", err)
	}

	rows, err := s.resolveRows(ctx, project)
	if err != nil {
		return render.Node{}, err
	}
	return render.App(project, render.ModeLive, rows), nil
}

// DeployedLatest renders a project's most recent publish, the tree end
// users see at the project's public address.
func (s *renderService) DeployedLatest(ctx context.Context, projectID string) (render.Node, error) {
	deployment, err := s.deploys.GetLatestDeployment(ctx, projectID)
	if err != nil {
		return render.Node{}, err
	}

	project, err := s.deploys.GetSnapshot(ctx, deployment)
	if err != nil {
		return render.Node{}, fmt.Errorf("failed to load deployment snapshot: %w", err)
	}

	rows, err := s.resolveRows(ctx, project)
	if err != nil {
		return render.Node{}, err
	}
	return render.App(project, render.ModeLive, rows), nil
}

// resolveRows fetches the rows of every collection referenced by a table
// block. Collections nothing points at are not fetched.
func (s *renderService) resolveRows(ctx context.Context, project *model.Project) (render.RowsByCollection, error) {
	if project == nil {
		return nil, nil
	}

	rows := make(render.RowsByCollection)
	for _, block := range project.Blocks {
		props, ok := block.Props.(model.TableProps)
		if !ok || props.CollectionID == "" {
			continue
		}
		if _, done := rows[props.CollectionID]; done {
			continue
		}
		if project.FindCollection(props.CollectionID) == nil {
			// Orphaned reference; the renderer degrades it to a placeholder
			continue
		}

		data, err := s.resolver.Rows(ctx, props.CollectionID, renderRowLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve rows for collection %s: %w", props.CollectionID, err)
		}
		rows[props.CollectionID] = data
	}
	return rows, nil
}
