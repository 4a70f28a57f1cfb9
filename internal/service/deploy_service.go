package service

import (
	"context"
	"encoding/json"
	"fmt"

	"bricks-studio/internal/model"
	"bricks-studio/internal/repository"
	"bricks-studio/internal/storage"
	"bricks-studio/internal/utils"
)

type DeployService interface {
	Deploy(ctx context.Context, projectID string) (*DeployResponse, error)
	GetDeployment(ctx context.Context, id string) (*model.Deployment, error)
	GetLatestDeployment(ctx context.Context, projectID string) (*model.Deployment, error)
	ListDeployments(ctx context.Context, projectID string) ([]*model.Deployment, error)
	GetSnapshot(ctx context.Context, deployment *model.Deployment) (*model.Project, error)
}

type DeployResponse struct {
	Deployment    *model.Deployment `json:"deployment"`
	SnapshotBytes int               `json:"snapshotBytes"`
}

type deployService struct {
	projects    repository.ProjectRepository
	deployments repository.DeploymentRepository
	snapshots   storage.SnapshotStore
}

// NewDeployService creates a new instance of DeployService
func NewDeployService(projects repository.ProjectRepository, deployments repository.DeploymentRepository, snapshots storage.SnapshotStore) DeployService {
	return &deployService{
		projects:    projects,
		deployments: deployments,
		snapshots:   snapshots,
	}
}

// Deploy freezes the current state of a project into an immutable snapshot
// and records the deployment. Later edits to the project never change what
// an existing deployment renders.
func (s *deployService) Deploy(ctx context.Context, projectID string) (*DeployResponse, error) {
	// Validate UUID format
	if !utils.IsValidUUID(projectID) {
		return nil, repository.ErrInvalidUUID
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(project)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize project: %w", err)
	}

	deployment := &model.Deployment{
		ID:        utils.GenerateUUID(),
		ProjectID: project.ID,
	}
	deployment.SnapshotKey = fmt.Sprintf("snapshots/%s/%s.json", project.ID, deployment.ID)

	if err := s.snapshots.Put(ctx, deployment.SnapshotKey, data); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	if err := s.deployments.Create(ctx, deployment); err != nil {
		// The orphaned snapshot is unreachable without a record; clean it up
		_ = s.snapshots.Delete(ctx, deployment.SnapshotKey)
		return nil, fmt.Errorf("failed to record deployment: %w", err)
	}

	return &DeployResponse{
		Deployment:    deployment,
		SnapshotBytes: len(data),
	}, nil
}

func (s *deployService) GetDeployment(ctx context.Context, id string) (*model.Deployment, error) {
	// Validate UUID format
	if !utils.IsValidUUID(id) {
		return nil, repository.ErrInvalidUUID
	}

	deployment, err := s.deployments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return deployment, nil
}

// GetLatestDeployment returns a project's most recent publish
func (s *deployService) GetLatestDeployment(ctx context.Context, projectID string) (*model.Deployment, error) {
	// Validate UUID format
	if !utils.IsValidUUID(projectID) {
		return nil, repository.ErrInvalidUUID
	}

	deployment, err := s.deployments.GetLatest(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return deployment, nil
}

func (s *deployService) ListDeployments(ctx context.Context, projectID string) ([]*model.Deployment, error) {
	// Validate UUID format
	if !utils.IsValidUUID(projectID) {
		return nil, repository.ErrInvalidUUID
	}

	deployments, err := s.deployments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	return deployments, nil
}

// GetSnapshot loads and decodes the project aggregate frozen by a deployment
func (s *deployService) GetSnapshot(ctx context.Context, deployment *model.Deployment) (*model.Project, error) {
	data, err := s.snapshots.Get(ctx, deployment.SnapshotKey)
	if err != nil {
		return nil, err
	}

	var project model.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &project, nil
}
