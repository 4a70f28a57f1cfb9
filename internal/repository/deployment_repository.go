package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bricks-studio/internal/model"
)

type deploymentRepository struct {
	db *gorm.DB
}

// NewDeploymentRepository creates a new instance of DeploymentRepository
func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepository{db: db}
}

// Create inserts a new deployment record
func (r *deploymentRepository) Create(ctx context.Context, deployment *model.Deployment) error {
	return r.db.WithContext(ctx).Create(deployment).Error
}

// GetByID retrieves a deployment by its UUID
func (r *deploymentRepository) GetByID(ctx context.Context, id string) (*model.Deployment, error) {
	var deployment model.Deployment
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&deployment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDeploymentNotFound
		}
		return nil, result.Error
	}
	return &deployment, nil
}

// ListByProject retrieves deployments of a project, newest first
func (r *deploymentRepository) ListByProject(ctx context.Context, projectID string) ([]*model.Deployment, error) {
	var deployments []*model.Deployment
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&deployments)
	if result.Error != nil {
		return nil, result.Error
	}
	return deployments, nil
}

// GetLatest returns the most recent deployment of a project
func (r *deploymentRepository) GetLatest(ctx context.Context, projectID string) (*model.Deployment, error) {
	var deployment model.Deployment
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		First(&deployment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDeploymentNotFound
		}
		return nil, result.Error
	}
	return &deployment, nil
}
