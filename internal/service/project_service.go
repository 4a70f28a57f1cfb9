package service

import (
	"context"
	"fmt"

	"bricks-studio/internal/model"
	"bricks-studio/internal/repository"
	"bricks-studio/internal/utils"
)

type ProjectService interface {
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, ownerID string, req *ListProjectsRequest) (*ListProjectsResponse, error)
	DeleteProject(ctx context.Context, id string) error
	GetLastOpened(ctx context.Context, ownerID string) (string, error)
}

type projectService struct {
	repo repository.ProjectRepository
}

type ListProjectsRequest struct {
	Limit  int `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Offset int `json:"offset,omitempty" validate:"omitempty,min=0"`
}

type ListProjectsResponse struct {
	Projects []*model.Project `json:"projects"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(repo repository.ProjectRepository) ProjectService {
	return &projectService{
		repo: repo,
	}
}

func (s *projectService) GetProject(ctx context.Context, id string) (*model.Project, error) {
	// Validate UUID format
	if !utils.IsValidUUID(id) {
		return nil, repository.ErrInvalidUUID
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context, ownerID string, req *ListProjectsRequest) (*ListProjectsResponse, error) {
	// Set default values
	if req.Limit == 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}

	projects, total, err := s.repo.GetAll(ctx, ownerID, req.Limit, req.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return &ListProjectsResponse{
		Projects: projects,
		Total:    total,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}, nil
}

func (s *projectService) DeleteProject(ctx context.Context, id string) error {
	// Validate UUID format
	if !utils.IsValidUUID(id) {
		return repository.ErrInvalidUUID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	return nil
}

func (s *projectService) GetLastOpened(ctx context.Context, ownerID string) (string, error) {
	projectID, err := s.repo.GetLastOpened(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to get last opened project: %w", err)
	}

	return projectID, nil
}
