package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bricks-studio/internal/model"
	"bricks-studio/internal/repository"
)

func newTestSession(t *testing.T) (*Session, *repository.MemoryProjectRepository) {
	t.Helper()
	repo := repository.NewMemoryProjectRepository()
	s := New("owner-1", repo)
	t.Cleanup(s.Close)
	return s, repo
}

func loadedSession(t *testing.T) (*Session, *repository.MemoryProjectRepository) {
	t.Helper()
	s, repo := newTestSession(t)
	if _, err := s.CreateProject(context.Background(), "Test App"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	return s, repo
}

func flush(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
}

func TestCreateProjectPersistsAndLoads(t *testing.T) {
	s, repo := newTestSession(t)

	project, err := s.CreateProject(context.Background(), "My App")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project.Name != "My App" || project.OwnerID != "owner-1" {
		t.Errorf("unexpected project: %+v", project)
	}

	state := s.State()
	if state.Status != StatusLoaded {
		t.Errorf("expected loaded status, got %s", state.Status)
	}

	stored, err := repo.GetByID(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("project not persisted: %v", err)
	}
	if stored.Name != "My App" {
		t.Errorf("unexpected stored name: %q", stored.Name)
	}

	lastOpened, _ := repo.GetLastOpened(context.Background(), "owner-1")
	if lastOpened != project.ID {
		t.Errorf("expected last opened %s, got %s", project.ID, lastOpened)
	}
}

func TestLoadProjectMissingResolvesNotFound(t *testing.T) {
	s, _ := newTestSession(t)

	if err := s.LoadProject(context.Background(), "no-such-id"); err != nil {
		t.Fatalf("missing project should not surface an error, got %v", err)
	}
	if state := s.State(); state.Status != StatusNotFound {
		t.Errorf("expected not_found status, got %s", state.Status)
	}
}

func TestMutationsRequireLoadedProject(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	if _, err := s.AddBlock(ctx, model.BlockTypeText); !errors.Is(err, ErrNoProject) {
		t.Errorf("AddBlock: expected ErrNoProject, got %v", err)
	}
	if err := s.RemoveBlock(ctx, "x"); !errors.Is(err, ErrNoProject) {
		t.Errorf("RemoveBlock: expected ErrNoProject, got %v", err)
	}
	if _, err := s.CreateCollection(ctx, "Customers"); !errors.Is(err, ErrNoProject) {
		t.Errorf("CreateCollection: expected ErrNoProject, got %v", err)
	}
	if err := s.UpdateBlock(ctx, "x", json.RawMessage(`{}`)); !errors.Is(err, ErrNoProject) {
		t.Errorf("UpdateBlock: expected ErrNoProject, got %v", err)
	}
}

func TestAddBlockValidatesType(t *testing.T) {
	s, _ := loadedSession(t)

	if _, err := s.AddBlock(context.Background(), "carousel"); !errors.Is(err, ErrInvalidBlockType) {
		t.Errorf("expected ErrInvalidBlockType, got %v", err)
	}

	block, err := s.AddBlock(context.Background(), model.BlockTypeButton)
	if err != nil {
		t.Fatalf("AddBlock failed: %v", err)
	}
	if block.ID == "" {
		t.Error("expected generated block id")
	}
	if _, ok := block.Props.(model.ButtonProps); !ok {
		t.Errorf("expected button defaults, got %T", block.Props)
	}
}

func TestAddBlockAppendsInOrder(t *testing.T) {
	s, _ := loadedSession(t)
	ctx := context.Background()

	first, _ := s.AddBlock(ctx, model.BlockTypeText)
	second, _ := s.AddBlock(ctx, model.BlockTypeInput)

	project := s.Project()
	if len(project.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(project.Blocks))
	}
	if project.Blocks[0].ID != first.ID || project.Blocks[1].ID != second.ID {
		t.Error("blocks out of insertion order")
	}
}

func TestUpdateBlockMergesAndIgnoresUnknown(t *testing.T) {
	s, _ := loadedSession(t)
	ctx := context.Background()

	block, _ := s.AddBlock(ctx, model.BlockTypeText)

	if err := s.UpdateBlock(ctx, block.ID, json.RawMessage(`{"text":"Hello"}`)); err != nil {
		t.Fatalf("UpdateBlock failed: %v", err)
	}

	props := s.Project().Blocks[0].Props.(model.TextProps)
	if props.Text != "Hello" || props.Tag != "h2" {
		t.Errorf("unexpected merged props: %+v", props)
	}

	// Unknown id is a silent no-op
	if err := s.UpdateBlock(ctx, "missing", json.RawMessage(`{"text":"X"}`)); err != nil {
		t.Errorf("unknown id should be a no-op, got %v", err)
	}
	if got := s.Project().Blocks[0].Props.(model.TextProps).Text; got != "Hello" {
		t.Errorf("no-op update changed state: %q", got)
	}
}

func TestRemoveBlockClearsSelection(t *testing.T) {
	s, _ := loadedSession(t)
	ctx := context.Background()

	block, _ := s.AddBlock(ctx, model.BlockTypeText)
	s.SelectBlock(block.ID)

	if selected := s.SelectedBlock(); selected == nil || selected.ID != block.ID {
		t.Fatal("expected block to be selected")
	}

	if err := s.RemoveBlock(ctx, block.ID); err != nil {
		t.Fatalf("RemoveBlock failed: %v", err)
	}
	if s.SelectedBlock() != nil {
		t.Error("selection should be cleared when the selected block is removed")
	}
	if len(s.Project().Blocks) != 0 {
		t.Error("block was not removed")
	}
}

func TestSelectionIsExclusiveAndTransient(t *testing.T) {
	s, repo := loadedSession(t)
	ctx := context.Background()

	a, _ := s.AddBlock(ctx, model.BlockTypeText)
	b, _ := s.AddBlock(ctx, model.BlockTypeButton)

	s.SelectBlock(a.ID)
	s.SelectBlock(b.ID)
	if selected := s.SelectedBlock(); selected == nil || selected.ID != b.ID {
		t.Error("selection is not exclusive")
	}

	s.SelectBlock("")
	if s.SelectedBlock() != nil {
		t.Error("empty id should clear selection")
	}

	// Selection never persists
	flush(t, s)
	stored, _ := repo.GetByID(ctx, s.Project().ID)
	data, _ := json.Marshal(stored)
	if string(data) == "" {
		t.Fatal("marshal failed")
	}
	for _, forbidden := range []string{"selected", "Selected"} {
		if containsField(data, forbidden) {
			t.Errorf("persisted aggregate carries selection field %q", forbidden)
		}
	}
}

func containsField(data []byte, field string) bool {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}
	_, ok := m[field]
	return ok
}

func TestMoveBlocksByIDReorders(t *testing.T) {
	s, _ := loadedSession(t)
	ctx := context.Background()

	a, _ := s.AddBlock(ctx, model.BlockTypeText)
	b, _ := s.AddBlock(ctx, model.BlockTypeInput)
	c, _ := s.AddBlock(ctx, model.BlockTypeButton)

	if err := s.MoveBlocksByID(ctx, []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("MoveBlocksByID failed: %v", err)
	}

	blocks := s.Project().Blocks
	got := []string{blocks[0].ID, blocks[1].ID, blocks[2].ID}
	want := []string{c.ID, a.ID, b.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}

	// Props survive the reorder
	if _, ok := blocks[0].Props.(model.ButtonProps); !ok {
		t.Errorf("props lost during reorder: %T", blocks[0].Props)
	}
}

func TestCollectionLifecycle(t *testing.T) {
	s, _ := loadedSession(t)
	ctx := context.Background()

	if _, err := s.CreateCollection(ctx, "   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}

	collection, err := s.CreateCollection(ctx, "  Customers  ")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	if collection.Name != "Customers" {
		t.Errorf("expected trimmed name, got %q", collection.Name)
	}

	if err := s.AddFieldToCollection(ctx, collection.ID, model.SchemaField{Name: "email"}); err != nil {
		t.Fatalf("AddFieldToCollection failed: %v", err)
	}
	fields := s.Project().Schema[0].Fields
	if len(fields) != 1 || fields[0].Type != model.FieldTypeString {
		t.Errorf("expected string-typed field default, got %+v", fields)
	}

	// Unknown collection id is a silent no-op
	if err := s.AddFieldToCollection(ctx, "missing", model.SchemaField{Name: "x"}); err != nil {
		t.Errorf("unknown collection should be a no-op, got %v", err)
	}

	if err := s.RemoveCollection(ctx, collection.ID); err != nil {
		t.Fatalf("RemoveCollection failed: %v", err)
	}
	if len(s.Project().Schema) != 0 {
		t.Error("collection was not removed")
	}
}

func TestRemoveCollectionKeepsTableBinding(t *testing.T) {
	s, _ := loadedSession(t)
	ctx := context.Background()

	collection, _ := s.CreateCollection(ctx, "Orders")
	table, _ := s.AddBlock(ctx, model.BlockTypeTable)
	patch, _ := json.Marshal(map[string]string{"collectionId": collection.ID, "collectionName": collection.Name})
	if err := s.UpdateBlock(ctx, table.ID, patch); err != nil {
		t.Fatalf("UpdateBlock failed: %v", err)
	}

	if err := s.RemoveCollection(ctx, collection.ID); err != nil {
		t.Fatalf("RemoveCollection failed: %v", err)
	}

	props := s.Project().Blocks[0].Props.(model.TableProps)
	if props.CollectionID != collection.ID {
		t.Error("table lost its weak reference; deletion must not cascade")
	}
}

func TestAutosavePersistsLatestState(t *testing.T) {
	s, repo := loadedSession(t)
	ctx := context.Background()

	block, _ := s.AddBlock(ctx, model.BlockTypeText)
	if err := s.UpdateBlock(ctx, block.ID, json.RawMessage(`{"text":"Final"}`)); err != nil {
		t.Fatalf("UpdateBlock failed: %v", err)
	}

	flush(t, s)

	state := s.State()
	if state.SaveState != SaveStateSaved {
		t.Errorf("expected saved state, got %s", state.SaveState)
	}

	stored, err := repo.GetByID(ctx, s.Project().ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(stored.Blocks) != 1 {
		t.Fatalf("expected 1 persisted block, got %d", len(stored.Blocks))
	}
	if props := stored.Blocks[0].Props.(model.TextProps); props.Text != "Final" {
		t.Errorf("store did not converge on the latest edit: %q", props.Text)
	}
}

func TestManagerLifecycle(t *testing.T) {
	repo := repository.NewMemoryProjectRepository()
	m := NewManager(repo)
	defer m.CloseAll()

	s := m.Open("owner-1")
	if m.Count() != 1 {
		t.Fatalf("expected 1 session, got %d", m.Count())
	}

	got, ok := m.Get(s.ID())
	if !ok || got.ID() != s.ID() {
		t.Fatal("Get did not return the opened session")
	}

	m.Close(s.ID())
	if _, ok := m.Get(s.ID()); ok {
		t.Error("closed session still retrievable")
	}
	if m.Count() != 0 {
		t.Errorf("expected 0 sessions, got %d", m.Count())
	}
}
