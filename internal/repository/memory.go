package repository

import (
	"context"
	"sort"
	"sync"

	"bricks-studio/internal/model"
)

// MemoryProjectRepository is an in-process ProjectRepository used for tests
// and store-less local runs. Aggregates are deep-copied on the way in and
// out so callers never share memory with the store.
type MemoryProjectRepository struct {
	mu         sync.RWMutex
	projects   map[string]*model.Project
	lastOpened map[string]string
}

// NewMemoryProjectRepository creates an empty in-memory project repository
func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{
		projects:   make(map[string]*model.Project),
		lastOpened: make(map[string]string),
	}
}

func (r *MemoryProjectRepository) Create(ctx context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = project.Clone()
	return nil
}

func (r *MemoryProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return project.Clone(), nil
}

func (r *MemoryProjectRepository) GetAll(ctx context.Context, ownerID string, limit, offset int) ([]*model.Project, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*model.Project
	for _, project := range r.projects {
		if ownerID == "" || project.OwnerID == ownerID {
			matched = append(matched, project)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*model.Project{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]*model.Project, len(matched))
	for i, project := range matched {
		out[i] = project.Clone()
	}
	return out, total, nil
}

func (r *MemoryProjectRepository) Save(ctx context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = project.Clone()
	return nil
}

func (r *MemoryProjectRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

func (r *MemoryProjectRepository) GetLastOpened(ctx context.Context, ownerID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastOpened[ownerID], nil
}

func (r *MemoryProjectRepository) SetLastOpened(ctx context.Context, ownerID, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastOpened[ownerID] = projectID
	return nil
}

// MemoryRowRepository is an in-process RowRepository
type MemoryRowRepository struct {
	mu   sync.RWMutex
	rows map[string][]*model.CollectionRow
}

// NewMemoryRowRepository creates an empty in-memory row repository
func NewMemoryRowRepository() *MemoryRowRepository {
	return &MemoryRowRepository{rows: make(map[string][]*model.CollectionRow)}
}

func (r *MemoryRowRepository) ListByCollection(ctx context.Context, collectionID string) ([]*model.CollectionRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.rows[collectionID]
	out := make([]*model.CollectionRow, 0, len(stored))
	// Newest first, matching the SQL implementation
	for i := len(stored) - 1; i >= 0; i-- {
		copied := *stored[i]
		out = append(out, &copied)
	}
	return out, nil
}

func (r *MemoryRowRepository) Insert(ctx context.Context, row *model.CollectionRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *row
	r.rows[row.CollectionID] = append(r.rows[row.CollectionID], &copied)
	return nil
}

func (r *MemoryRowRepository) DeleteByCollection(ctx context.Context, collectionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, collectionID)
	return nil
}

// MemoryDeploymentRepository is an in-process DeploymentRepository
type MemoryDeploymentRepository struct {
	mu          sync.RWMutex
	deployments []*model.Deployment
}

// NewMemoryDeploymentRepository creates an empty in-memory deployment repository
func NewMemoryDeploymentRepository() *MemoryDeploymentRepository {
	return &MemoryDeploymentRepository{}
}

func (r *MemoryDeploymentRepository) Create(ctx context.Context, deployment *model.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *deployment
	r.deployments = append(r.deployments, &copied)
	return nil
}

func (r *MemoryDeploymentRepository) GetByID(ctx context.Context, id string) (*model.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, deployment := range r.deployments {
		if deployment.ID == id {
			copied := *deployment
			return &copied, nil
		}
	}
	return nil, ErrDeploymentNotFound
}

func (r *MemoryDeploymentRepository) ListByProject(ctx context.Context, projectID string) ([]*model.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Deployment
	for i := len(r.deployments) - 1; i >= 0; i-- {
		if r.deployments[i].ProjectID == projectID {
			copied := *r.deployments[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *MemoryDeploymentRepository) GetLatest(ctx context.Context, projectID string) (*model.Deployment, error) {
	deployments, err := r.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(deployments) == 0 {
		return nil, ErrDeploymentNotFound
	}
	return deployments[0], nil
}
