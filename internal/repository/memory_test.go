package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"bricks-studio/internal/model"
)

func TestMemoryProjectRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryProjectRepository()
	ctx := context.Background()

	project := model.NewProject("owner-1", "App")
	project.Blocks = model.BlockList{model.NewBlock(model.BlockTypeText)}
	if err := repo.Create(ctx, project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "App" || len(got.Blocks) != 1 {
		t.Errorf("unexpected project: %+v", got)
	}

	// Mutating the returned aggregate must not leak into the store
	got.Name = "mutated"
	got.Blocks[0].ID = "mutated"
	again, _ := repo.GetByID(ctx, project.ID)
	if again.Name == "mutated" || again.Blocks[0].ID == "mutated" {
		t.Error("repository shares memory with callers")
	}
}

func TestMemoryProjectRepositoryNotFound(t *testing.T) {
	repo := NewMemoryProjectRepository()

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestMemoryProjectRepositoryGetAll(t *testing.T) {
	repo := NewMemoryProjectRepository()
	ctx := context.Background()

	base := time.Now()
	for i, name := range []string{"First", "Second", "Third"} {
		p := model.NewProject("owner-1", name)
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	other := model.NewProject("owner-2", "Foreign")
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	projects, total, err := repo.GetAll(ctx, "owner-1", 2, 0)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].Name != "Third" || projects[1].Name != "Second" {
		t.Errorf("expected newest first, got %s, %s", projects[0].Name, projects[1].Name)
	}

	page, total, err := repo.GetAll(ctx, "owner-1", 2, 2)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if total != 3 || len(page) != 1 || page[0].Name != "First" {
		t.Errorf("unexpected second page: total=%d, page=%v", total, page)
	}

	empty, _, err := repo.GetAll(ctx, "owner-1", 10, 99)
	if err != nil || len(empty) != 0 {
		t.Errorf("offset past end should yield empty page, got %v (%v)", empty, err)
	}
}

func TestMemoryProjectRepositorySaveAndDelete(t *testing.T) {
	repo := NewMemoryProjectRepository()
	ctx := context.Background()

	project := model.NewProject("owner-1", "App")
	if err := repo.Create(ctx, project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	project.Name = "Renamed"
	if err := repo.Save(ctx, project); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, _ := repo.GetByID(ctx, project.ID)
	if got.Name != "Renamed" {
		t.Errorf("Save did not persist, got %q", got.Name)
	}

	if err := repo.Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, project.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound after delete, got %v", err)
	}
}

func TestMemoryProjectRepositoryLastOpened(t *testing.T) {
	repo := NewMemoryProjectRepository()
	ctx := context.Background()

	id, err := repo.GetLastOpened(ctx, "owner-1")
	if err != nil || id != "" {
		t.Errorf("expected empty last opened, got %q (%v)", id, err)
	}

	if err := repo.SetLastOpened(ctx, "owner-1", "p1"); err != nil {
		t.Fatalf("SetLastOpened failed: %v", err)
	}
	if err := repo.SetLastOpened(ctx, "owner-1", "p2"); err != nil {
		t.Fatalf("SetLastOpened failed: %v", err)
	}

	id, _ = repo.GetLastOpened(ctx, "owner-1")
	if id != "p2" {
		t.Errorf("expected latest pointer p2, got %q", id)
	}
}

func TestMemoryRowRepositoryNewestFirst(t *testing.T) {
	repo := NewMemoryRowRepository()
	ctx := context.Background()

	for i, name := range []string{"Ada", "Grace", "Edsger"} {
		row := &model.CollectionRow{
			ID:           string(rune('a' + i)),
			CollectionID: "c1",
			Data:         model.RowData{"name": name},
		}
		if err := repo.Insert(ctx, row); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	rows, err := repo.ListByCollection(ctx, "c1")
	if err != nil {
		t.Fatalf("ListByCollection failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Data["name"] != "Edsger" || rows[2].Data["name"] != "Ada" {
		t.Errorf("expected newest first, got %v", rows)
	}
}

func TestMemoryRowRepositoryDeleteByCollection(t *testing.T) {
	repo := NewMemoryRowRepository()
	ctx := context.Background()

	if err := repo.Insert(ctx, &model.CollectionRow{ID: "r1", CollectionID: "c1", Data: model.RowData{"a": 1}}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := repo.Insert(ctx, &model.CollectionRow{ID: "r2", CollectionID: "c2", Data: model.RowData{"b": 2}}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := repo.DeleteByCollection(ctx, "c1"); err != nil {
		t.Fatalf("DeleteByCollection failed: %v", err)
	}

	rows, _ := repo.ListByCollection(ctx, "c1")
	if len(rows) != 0 {
		t.Errorf("expected c1 emptied, got %d rows", len(rows))
	}
	rows, _ = repo.ListByCollection(ctx, "c2")
	if len(rows) != 1 {
		t.Errorf("delete must not touch other collections, got %d rows", len(rows))
	}
}

func TestMemoryDeploymentRepository(t *testing.T) {
	repo := NewMemoryDeploymentRepository()
	ctx := context.Background()

	if _, err := repo.GetLatest(ctx, "p1"); !errors.Is(err, ErrDeploymentNotFound) {
		t.Errorf("expected ErrDeploymentNotFound, got %v", err)
	}

	first := &model.Deployment{ID: "d1", ProjectID: "p1", SnapshotKey: "snapshots/p1/d1.json"}
	second := &model.Deployment{ID: "d2", ProjectID: "p1", SnapshotKey: "snapshots/p1/d2.json"}
	other := &model.Deployment{ID: "d3", ProjectID: "p2"}
	for _, d := range []*model.Deployment{first, second, other} {
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil || got.SnapshotKey != "snapshots/p1/d1.json" {
		t.Errorf("unexpected deployment: %+v (%v)", got, err)
	}

	list, err := repo.ListByProject(ctx, "p1")
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "d2" {
		t.Errorf("expected newest first for p1, got %v", list)
	}

	latest, err := repo.GetLatest(ctx, "p1")
	if err != nil || latest.ID != "d2" {
		t.Errorf("expected d2 as latest, got %+v (%v)", latest, err)
	}
}
