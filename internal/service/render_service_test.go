package service

import (
	"context"
	"errors"
	"testing"

	"bricks-studio/internal/dataprovider"
	"bricks-studio/internal/model"
	"bricks-studio/internal/render"
	"bricks-studio/internal/repository"
	"bricks-studio/internal/storage"
)

func newRenderFixture(t *testing.T) (RenderService, DeployService, *repository.MemoryProjectRepository, *repository.MemoryRowRepository) {
	t.Helper()
	projects := repository.NewMemoryProjectRepository()
	rows := repository.NewMemoryRowRepository()
	store, err := storage.NewFileSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSnapshotStore failed: %v", err)
	}
	deploys := NewDeployService(projects, repository.NewMemoryDeploymentRepository(), store)
	resolver := dataprovider.NewResolver(dataprovider.NewStoreProvider(rows))
	return NewRenderService(projects, deploys, resolver), deploys, projects, rows
}

func boundTableProject(t *testing.T, projects *repository.MemoryProjectRepository) (*model.Project, model.SchemaCollection) {
	t.Helper()
	collection := model.NewSchemaCollection("Customers")
	collection.Fields = []model.SchemaField{
		{Name: "name", Type: model.FieldTypeString},
		{Name: "email", Type: model.FieldTypeString},
	}

	project := model.NewProject("owner-1", "CRM")
	project.Schema = model.SchemaList{collection}
	project.Blocks = model.BlockList{{
		ID:    "t1",
		Type:  model.BlockTypeTable,
		Props: model.TableProps{CollectionID: collection.ID},
	}}
	if err := projects.Create(context.Background(), project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return project, collection
}

func TestRenderPreviewIsInert(t *testing.T) {
	svc, _, _, _ := newRenderFixture(t)

	project := model.NewProject("owner-1", "App")
	project.Blocks = model.BlockList{model.NewBlock(model.BlockTypeButton)}

	node, err := svc.Preview(context.Background(), project)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if node.Kind != render.KindApp {
		t.Fatalf("expected app root, got %s", node.Kind)
	}
	if !node.Children[0].Disabled {
		t.Error("preview buttons must be inert")
	}
}

func TestRenderLiveJoinsStoredRows(t *testing.T) {
	svc, _, projects, rows := newRenderFixture(t)
	ctx := context.Background()
	project, collection := boundTableProject(t, projects)

	row := &model.CollectionRow{ID: "r1", CollectionID: collection.ID, Data: model.RowData{"name": "Ada", "email": "ada@example.com"}}
	if err := rows.Insert(ctx, row); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	node, err := svc.Live(ctx, project.ID)
	if err != nil {
		t.Fatalf("Live failed: %v", err)
	}

	table := node.Children[0]
	if table.Kind != render.KindTable {
		t.Fatalf("expected table node, got %s", table.Kind)
	}
	if len(table.Rows) != 1 || table.Rows[0][0] != "Ada" {
		t.Errorf("expected joined row data, got %v", table.Rows)
	}
}

func TestRenderLiveValidation(t *testing.T) {
	svc, _, _, _ := newRenderFixture(t)
	ctx := context.Background()

	if _, err := svc.Live(ctx, "not-a-uuid"); !errors.Is(err, repository.ErrInvalidUUID) {
		t.Errorf("expected ErrInvalidUUID, got %v", err)
	}
	if _, err := svc.Live(ctx, "9e8b7c6d-5a4f-4e3d-2c1b-0a9f8e7d6c5b"); !errors.Is(err, repository.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestRenderDeployedUsesFrozenLayoutWithLiveRows(t *testing.T) {
	svc, deploys, projects, rows := newRenderFixture(t)
	ctx := context.Background()
	project, collection := boundTableProject(t, projects)

	deployed, err := deploys.Deploy(ctx, project.ID)
	if err != nil {
		t.Fatalf("Deploy failed: %v", err)
	}

	// Change the layout after deploying and add a data row
	project.Blocks = append(project.Blocks, model.NewBlock(model.BlockTypeText))
	if err := projects.Save(ctx, project); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	row := &model.CollectionRow{ID: "r1", CollectionID: collection.ID, Data: model.RowData{"name": "Grace", "email": "grace@example.com"}}
	if err := rows.Insert(ctx, row); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	node, err := svc.Deployed(ctx, deployed.Deployment.ID)
	if err != nil {
		t.Fatalf("Deployed failed: %v", err)
	}

	// Frozen layout: still one block
	if len(node.Children) != 1 {
		t.Fatalf("expected frozen layout with 1 block, got %d", len(node.Children))
	}
	// Live data: the row inserted after deploying is visible
	table := node.Children[0]
	if len(table.Rows) != 1 || table.Rows[0][0] != "Grace" {
		t.Errorf("expected live row data, got %v", table.Rows)
	}
}

func TestRenderDeployedLatestReplaysNewestPublish(t *testing.T) {
	svc, deploys, projects, _ := newRenderFixture(t)
	ctx := context.Background()

	project := model.NewProject("owner-1", "App")
	project.Blocks = model.BlockList{{ID: "b1", Type: model.BlockTypeText, Props: model.TextProps{Text: "First", Tag: "h2"}}}
	if err := projects.Create(ctx, project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.DeployedLatest(ctx, project.ID); !errors.Is(err, repository.ErrDeploymentNotFound) {
		t.Errorf("undeployed project should report ErrDeploymentNotFound, got %v", err)
	}

	if _, err := deploys.Deploy(ctx, project.ID); err != nil {
		t.Fatalf("first Deploy failed: %v", err)
	}

	project.Blocks[0].Props = model.TextProps{Text: "Second", Tag: "h2"}
	if err := projects.Save(ctx, project); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := deploys.Deploy(ctx, project.ID); err != nil {
		t.Fatalf("second Deploy failed: %v", err)
	}

	node, err := svc.DeployedLatest(ctx, project.ID)
	if err != nil {
		t.Fatalf("DeployedLatest failed: %v", err)
	}
	if node.Children[0].Text != "Second" {
		t.Errorf("expected the newest publish, got %q", node.Children[0].Text)
	}
}

func TestRenderSkipsOrphanedBindings(t *testing.T) {
	svc, _, projects, _ := newRenderFixture(t)
	ctx := context.Background()

	project := model.NewProject("owner-1", "App")
	project.Blocks = model.BlockList{{
		ID:    "t1",
		Type:  model.BlockTypeTable,
		Props: model.TableProps{CollectionID: "gone", CollectionName: "Old"},
	}}
	if err := projects.Create(ctx, project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	node, err := svc.Live(ctx, project.ID)
	if err != nil {
		t.Fatalf("orphaned binding must not fail the render: %v", err)
	}
	placeholder := node.Children[0]
	if placeholder.Kind != render.KindPlaceholder || placeholder.Text != "Table: Old" {
		t.Errorf("expected named placeholder, got %+v", placeholder)
	}
}
