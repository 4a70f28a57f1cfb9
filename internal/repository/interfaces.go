package repository

import (
	"context"

	"bricks-studio/internal/model"
)

// ProjectRepository defines the interface for project persistence. Save is
// an upsert keyed by id; GetByID returns the most recently saved aggregate.
type ProjectRepository interface {
	// Create inserts a new project
	Create(ctx context.Context, project *model.Project) error

	// GetByID retrieves a project by its UUID
	GetByID(ctx context.Context, id string) (*model.Project, error)

	// GetAll retrieves projects owned by a user, newest first
	GetAll(ctx context.Context, ownerID string, limit, offset int) ([]*model.Project, int64, error)

	// Save upserts the full project aggregate
	Save(ctx context.Context, project *model.Project) error

	// Delete removes a project
	Delete(ctx context.Context, id string) error

	// GetLastOpened returns the last opened project id for a user ("" if none)
	GetLastOpened(ctx context.Context, ownerID string) (string, error)

	// SetLastOpened records the last opened project id for a user
	SetLastOpened(ctx context.Context, ownerID, projectID string) error
}

// RowRepository defines the interface for collection row storage
type RowRepository interface {
	// ListByCollection retrieves rows of a collection, newest first
	ListByCollection(ctx context.Context, collectionID string) ([]*model.CollectionRow, error)

	// Insert stores a new row
	Insert(ctx context.Context, row *model.CollectionRow) error

	// DeleteByCollection removes all rows of a collection
	DeleteByCollection(ctx context.Context, collectionID string) error
}

// DeploymentRepository defines the interface for deployment records
type DeploymentRepository interface {
	// Create inserts a new deployment record
	Create(ctx context.Context, deployment *model.Deployment) error

	// GetByID retrieves a deployment by its UUID
	GetByID(ctx context.Context, id string) (*model.Deployment, error)

	// ListByProject retrieves deployments of a project, newest first
	ListByProject(ctx context.Context, projectID string) ([]*model.Deployment, error)

	// GetLatest returns the most recent deployment of a project
	GetLatest(ctx context.Context, projectID string) (*model.Deployment, error)
}
