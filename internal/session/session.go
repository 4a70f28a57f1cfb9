package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bricks-studio/internal/model"
	"bricks-studio/internal/repository"
)

// Session errors
var (
	ErrNoProject        = errors.New("no project loaded")
	ErrInvalidBlockType = errors.New("invalid block type")
	ErrEmptyName        = errors.New("name must not be empty")
)

// Status describes the project slot of a session
type Status string

const (
	StatusEmpty    Status = "empty"
	StatusLoading  Status = "loading"
	StatusLoaded   Status = "loaded"
	StatusNotFound Status = "not_found"
)

const loadTimeout = 15 * time.Second

// Session is the single source of truth for the project currently being
// edited: it holds the loaded aggregate, the transient block selection, and
// the mutation operations that keep edits consistent. Every mutation
// rebuilds the affected top-level container (never mutates in place) and
// hands a snapshot to the autosave queue.
type Session struct {
	id      string
	ownerID string
	repo    repository.ProjectRepository
	saver   *saver

	mu              sync.Mutex
	project         *model.Project
	status          Status
	selectedBlockID string
}

// New creates a session for one editing client
func New(ownerID string, repo repository.ProjectRepository) *Session {
	return &Session{
		id:      uuid.New().String(),
		ownerID: ownerID,
		repo:    repo,
		saver:   newSaver(repo),
		status:  StatusEmpty,
	}
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// OwnerID returns the user this session belongs to
func (s *Session) OwnerID() string { return s.ownerID }

func (s *Session) lock()   { s.mu.Lock() }
func (s *Session) unlock() { s.mu.Unlock() }

// State is a read-only view of the session
type State struct {
	Status          Status         `json:"status"`
	SaveState       SaveState      `json:"saveState"`
	SaveError       string         `json:"saveError,omitempty"`
	SelectedBlockID string         `json:"selectedBlockId,omitempty"`
	Project         *model.Project `json:"project"`
}

// State returns a snapshot of the session, including a deep copy of the
// current project.
func (s *Session) State() State {
	s.lock()
	defer s.unlock()

	state := State{
		Status:          s.status,
		SelectedBlockID: s.selectedBlockID,
	}
	saveState, saveErr := s.saver.State()
	state.SaveState = saveState
	if saveErr != nil {
		state.SaveError = saveErr.Error()
	}
	if s.project != nil {
		state.Project = s.project.Clone()
	}
	return state
}

// Project returns a deep copy of the current project, or nil
func (s *Session) Project() *model.Project {
	s.lock()
	defer s.unlock()
	if s.project == nil {
		return nil
	}
	return s.project.Clone()
}

// CreateProject allocates a new empty project, persists it, and makes it
// current. Names are display strings; duplicates are permitted.
func (s *Session) CreateProject(ctx context.Context, name string) (*model.Project, error) {
	project := model.NewProject(s.ownerID, name)
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.lock()
	s.project = project.Clone()
	s.status = StatusLoaded
	s.selectedBlockID = ""
	s.unlock()

	// Best effort; the dashboard pointer is not part of the aggregate
	_ = s.repo.SetLastOpened(ctx, s.ownerID, project.ID)

	return project, nil
}

// LoadProject looks a project up in the store and makes it current. A
// missing project resolves the session to the not-found state silently; only
// store failures surface as errors.
func (s *Session) LoadProject(ctx context.Context, id string) error {
	s.lock()
	s.status = StatusLoading
	s.unlock()

	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	project, err := s.repo.GetByID(ctx, id)

	s.lock()
	defer s.unlock()

	if err != nil {
		s.project = nil
		s.selectedBlockID = ""
		if errors.Is(err, repository.ErrProjectNotFound) {
			s.status = StatusNotFound
			return nil
		}
		s.status = StatusEmpty
		return err
	}

	s.project = project
	s.status = StatusLoaded
	s.selectedBlockID = ""
	_ = s.repo.SetLastOpened(ctx, s.ownerID, project.ID)
	return nil
}

// SaveProject persists the current aggregate synchronously. No-op when no
// project is loaded.
func (s *Session) SaveProject(ctx context.Context) error {
	s.lock()
	if s.project == nil {
		s.unlock()
		return nil
	}
	snapshot := s.project.Clone()
	s.unlock()

	return s.repo.Save(ctx, snapshot)
}

// AddBlock appends a block of the given type with type-specific default
// props and schedules an autosave.
func (s *Session) AddBlock(ctx context.Context, blockType model.BlockType) (model.Block, error) {
	if !model.IsValidBlockType(string(blockType)) {
		return model.Block{}, ErrInvalidBlockType
	}

	s.lock()
	defer s.unlock()

	if s.project == nil {
		return model.Block{}, ErrNoProject
	}

	block := model.NewBlock(blockType)

	blocks := make(model.BlockList, 0, len(s.project.Blocks)+1)
	blocks = append(blocks, s.project.Blocks...)
	blocks = append(blocks, block)
	s.project.Blocks = blocks

	s.autosaveLocked()
	return block.Clone(), nil
}

// MoveBlocks replaces the whole block sequence with the caller-supplied
// permutation. The caller is responsible for supplying a valid permutation
// of the existing blocks; no set-equality check is performed.
func (s *Session) MoveBlocks(ctx context.Context, newOrder []model.Block) error {
	s.lock()
	defer s.unlock()

	if s.project == nil {
		return ErrNoProject
	}

	blocks := make(model.BlockList, len(newOrder))
	for i, block := range newOrder {
		blocks[i] = block.Clone()
	}
	s.project.Blocks = blocks

	s.autosaveLocked()
	return nil
}

// MoveBlocksByID reorders the existing blocks to match the given id
// sequence, keeping each block's props. Ids that do not resolve are skipped.
func (s *Session) MoveBlocksByID(ctx context.Context, ids []string) error {
	s.lock()
	defer s.unlock()

	if s.project == nil {
		return ErrNoProject
	}

	blocks := make(model.BlockList, 0, len(ids))
	for _, id := range ids {
		if existing := s.project.FindBlock(id); existing != nil {
			blocks = append(blocks, existing.Clone())
		}
	}
	s.project.Blocks = blocks

	s.autosaveLocked()
	return nil
}

// UpdateBlock shallow-merges a partial props document into the named block.
// Unknown ids are a silent no-op.
func (s *Session) UpdateBlock(ctx context.Context, id string, patch json.RawMessage) error {
	s.lock()
	defer s.unlock()

	if s.project == nil {
		return ErrNoProject
	}

	blocks := make(model.BlockList, len(s.project.Blocks))
	patched := false
	for i, block := range s.project.Blocks {
		clone := block.Clone()
		if clone.ID == id {
			if err := clone.ApplyPatch(patch); err != nil {
				return err
			}
			patched = true
		}
		blocks[i] = clone
	}
	if !patched {
		return nil
	}
	s.project.Blocks = blocks

	s.autosaveLocked()
	return nil
}

// RemoveBlock filters the named block out of the sequence. Unknown ids are
// a silent no-op. A removed block that was selected clears the selection.
func (s *Session) RemoveBlock(ctx context.Context, id string) error {
	s.lock()
	defer s.unlock()

	if s.project == nil {
		return ErrNoProject
	}

	blocks := make(model.BlockList, 0, len(s.project.Blocks))
	for _, block := range s.project.Blocks {
		if block.ID != id {
			blocks = append(blocks, block.Clone())
		}
	}
	if len(blocks) == len(s.project.Blocks) {
		return nil
	}
	s.project.Blocks = blocks

	if s.selectedBlockID == id {
		s.selectedBlockID = ""
	}

	s.autosaveLocked()
	return nil
}

// CreateCollection appends a new empty schema collection
func (s *Session) CreateCollection(ctx context.Context, name string) (model.SchemaCollection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.SchemaCollection{}, ErrEmptyName
	}

	s.lock()
	defer s.unlock()

	if s.project == nil {
		return model.SchemaCollection{}, ErrNoProject
	}

	collection := model.NewSchemaCollection(name)

	schema := make(model.SchemaList, 0, len(s.project.Schema)+1)
	schema = append(schema, s.project.Schema...)
	schema = append(schema, collection)
	s.project.Schema = schema

	s.autosaveLocked()
	return collection.Clone(), nil
}

// AddFieldToCollection appends a field to the named collection. Unknown
// collection ids are a silent no-op.
func (s *Session) AddFieldToCollection(ctx context.Context, collectionID string, field model.SchemaField) error {
	field.Name = strings.TrimSpace(field.Name)
	if field.Name == "" {
		return ErrEmptyName
	}
	if field.Type == "" {
		field.Type = model.FieldTypeString
	}

	s.lock()
	defer s.unlock()

	if s.project == nil {
		return ErrNoProject
	}

	schema := make(model.SchemaList, len(s.project.Schema))
	for i, collection := range s.project.Schema {
		clone := collection.Clone()
		if clone.ID == collectionID {
			clone.Fields = append(clone.Fields, field)
		}
		schema[i] = clone
	}
	s.project.Schema = schema

	s.autosaveLocked()
	return nil
}

// RemoveCollection filters the named collection out of the schema. Table
// blocks that reference it keep their weak reference and fall back at
// render time; there is no cascade.
func (s *Session) RemoveCollection(ctx context.Context, collectionID string) error {
	s.lock()
	defer s.unlock()

	if s.project == nil {
		return ErrNoProject
	}

	schema := make(model.SchemaList, 0, len(s.project.Schema))
	for _, collection := range s.project.Schema {
		if collection.ID != collectionID {
			schema = append(schema, collection.Clone())
		}
	}
	if len(schema) == len(s.project.Schema) {
		return nil
	}
	s.project.Schema = schema

	s.autosaveLocked()
	return nil
}

// SelectBlock sets the transient block selection. Selection is exclusive,
// never persisted, and never triggers an autosave. An empty id clears it.
func (s *Session) SelectBlock(id string) {
	s.lock()
	defer s.unlock()
	s.selectedBlockID = id
}

// SelectedBlock returns a copy of the selected block, or nil
func (s *Session) SelectedBlock() *model.Block {
	s.lock()
	defer s.unlock()

	if s.project == nil || s.selectedBlockID == "" {
		return nil
	}
	block := s.project.FindBlock(s.selectedBlockID)
	if block == nil {
		return nil
	}
	clone := block.Clone()
	return &clone
}

// Flush waits for the autosave queue to drain; used by tests and shutdown
func (s *Session) Flush(ctx context.Context) error {
	return s.saver.Flush(ctx)
}

// Close stops the autosave queue
func (s *Session) Close() {
	s.saver.Close()
}

// autosaveLocked snapshots the current project into the save queue.
// Callers must hold the session lock.
func (s *Session) autosaveLocked() {
	if s.project == nil {
		return
	}
	s.saver.Enqueue(s.project.Clone())
}
