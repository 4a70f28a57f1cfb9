package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"bricks-studio/internal/model"
	"bricks-studio/internal/repository"
	"bricks-studio/internal/storage"
)

func newDeployFixture(t *testing.T) (DeployService, *repository.MemoryProjectRepository) {
	t.Helper()
	projects := repository.NewMemoryProjectRepository()
	store, err := storage.NewFileSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSnapshotStore failed: %v", err)
	}
	return NewDeployService(projects, repository.NewMemoryDeploymentRepository(), store), projects
}

func createProject(t *testing.T, projects *repository.MemoryProjectRepository) *model.Project {
	t.Helper()
	project := model.NewProject("owner-1", "My App")
	project.Blocks = model.BlockList{model.NewBlock(model.BlockTypeText)}
	if err := projects.Create(context.Background(), project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return project
}

func TestDeployFreezesProjectState(t *testing.T) {
	svc, projects := newDeployFixture(t)
	ctx := context.Background()
	project := createProject(t, projects)

	response, err := svc.Deploy(ctx, project.ID)
	if err != nil {
		t.Fatalf("Deploy failed: %v", err)
	}
	deployment := response.Deployment
	if deployment.ProjectID != project.ID || deployment.SnapshotKey == "" {
		t.Errorf("unexpected deployment: %+v", deployment)
	}
	if response.SnapshotBytes <= 0 {
		t.Errorf("expected a non-empty snapshot size, got %d", response.SnapshotBytes)
	}

	// Edit the project after deploying
	project.Name = "Renamed"
	project.Blocks = append(project.Blocks, model.NewBlock(model.BlockTypeButton))
	if err := projects.Save(ctx, project); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	snapshot, err := svc.GetSnapshot(ctx, deployment)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if snapshot.Name != "My App" || len(snapshot.Blocks) != 1 {
		t.Errorf("snapshot must stay frozen at deploy time: %+v", snapshot)
	}
}

func TestDeploySeparateSnapshotsPerDeployment(t *testing.T) {
	svc, projects := newDeployFixture(t)
	ctx := context.Background()
	project := createProject(t, projects)

	firstResp, err := svc.Deploy(ctx, project.ID)
	if err != nil {
		t.Fatalf("first Deploy failed: %v", err)
	}
	first := firstResp.Deployment

	project.Name = "Version 2"
	if err := projects.Save(ctx, project); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	secondResp, err := svc.Deploy(ctx, project.ID)
	if err != nil {
		t.Fatalf("second Deploy failed: %v", err)
	}
	second := secondResp.Deployment

	if first.SnapshotKey == second.SnapshotKey {
		t.Fatal("deployments must not share snapshot keys")
	}

	oldSnap, err := svc.GetSnapshot(ctx, first)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	newSnap, err := svc.GetSnapshot(ctx, second)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if oldSnap.Name != "My App" || newSnap.Name != "Version 2" {
		t.Errorf("each deployment keeps its own frozen state: %q vs %q", oldSnap.Name, newSnap.Name)
	}
}

func TestDeployValidation(t *testing.T) {
	svc, _ := newDeployFixture(t)
	ctx := context.Background()

	if _, err := svc.Deploy(ctx, "not-a-uuid"); !errors.Is(err, repository.ErrInvalidUUID) {
		t.Errorf("expected ErrInvalidUUID, got %v", err)
	}
	if _, err := svc.Deploy(ctx, uuid.New().String()); !errors.Is(err, repository.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
	if _, err := svc.GetDeployment(ctx, uuid.New().String()); !errors.Is(err, repository.ErrDeploymentNotFound) {
		t.Errorf("expected ErrDeploymentNotFound, got %v", err)
	}
}

func TestListDeploymentsNewestFirst(t *testing.T) {
	svc, projects := newDeployFixture(t)
	ctx := context.Background()
	project := createProject(t, projects)

	first, _ := svc.Deploy(ctx, project.ID)
	second, _ := svc.Deploy(ctx, project.ID)

	list, err := svc.ListDeployments(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListDeployments failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 deployments, got %d", len(list))
	}
	if list[0].ID != second.Deployment.ID || list[1].ID != first.Deployment.ID {
		t.Errorf("expected newest first, got %s, %s", list[0].ID, list[1].ID)
	}

	latest, err := svc.GetLatestDeployment(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetLatestDeployment failed: %v", err)
	}
	if latest.ID != second.Deployment.ID {
		t.Errorf("expected newest deployment, got %s", latest.ID)
	}
}

func TestGetLatestDeploymentValidation(t *testing.T) {
	svc, projects := newDeployFixture(t)
	ctx := context.Background()

	if _, err := svc.GetLatestDeployment(ctx, "not-a-uuid"); !errors.Is(err, repository.ErrInvalidUUID) {
		t.Errorf("expected ErrInvalidUUID, got %v", err)
	}

	project := createProject(t, projects)
	if _, err := svc.GetLatestDeployment(ctx, project.ID); !errors.Is(err, repository.ErrDeploymentNotFound) {
		t.Errorf("undeployed project should report ErrDeploymentNotFound, got %v", err)
	}
}
