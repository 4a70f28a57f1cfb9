package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"bricks-studio/internal/middleware"
	"bricks-studio/internal/model"
	"bricks-studio/internal/render"
	"bricks-studio/internal/session"
)

// SessionController exposes the stateful editing surface: one session per
// editing client, holding the loaded project, the transient selection, and
// the autosave queue.
type SessionController struct {
	manager   *session.Manager
	validator *validator.Validate
}

type CreateProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type LoadProjectRequest struct {
	ProjectID string `json:"projectId" validate:"required,uuid"`
}

type AddBlockRequest struct {
	Type string `json:"type" validate:"required"`
}

type ReorderBlocksRequest struct {
	DraggedID string `json:"draggedId" validate:"required"`
	TargetID  string `json:"targetId" validate:"required"`
}

type MoveBlocksRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

type UpdateBlockRequest struct {
	Props json.RawMessage `json:"props" validate:"required"`
}

type SelectBlockRequest struct {
	BlockID string `json:"blockId"`
}

type CreateCollectionRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type AddFieldRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Type string `json:"type" validate:"omitempty,oneof=string number boolean date"`
}

func NewSessionController(manager *session.Manager) *SessionController {
	return &SessionController{
		manager:   manager,
		validator: validator.New(),
	}
}

// OpenSession creates a fresh editing session for the acting user
func (sc *SessionController) OpenSession(c *gin.Context) {
	s := sc.manager.Open(currentUserID(c))
	middleware.SetActiveSessions(sc.manager.Count())

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data: gin.H{
			"sessionId": s.ID(),
			"state":     s.State(),
		},
		CorrelationID: getCorrelationID(c),
	})
}

// GetState returns the full session state including the project copy
func (sc *SessionController) GetState(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          s.State(),
		CorrelationID: getCorrelationID(c),
	})
}

// CloseSession stops the autosave queue and forgets the session
func (sc *SessionController) CloseSession(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	sc.manager.Close(s.ID())
	middleware.SetActiveSessions(sc.manager.Count())

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Message:       "Session closed",
		CorrelationID: getCorrelationID(c),
	})
}

// CreateProject creates a new empty project and loads it into the session
func (sc *SessionController) CreateProject(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := sc.validator.Struct(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	project, err := s.CreateProject(c.Request.Context(), req.Name)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create project")
		return
	}
	middleware.RecordSessionOp("create_project")

	c.JSON(http.StatusCreated, Response{
		Success:       true,
		Data:          project,
		CorrelationID: getCorrelationID(c),
	})
}

// LoadProject loads an existing project into the session. A missing project
// resolves the session to the not-found state, not an HTTP error.
func (sc *SessionController) LoadProject(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	var req LoadProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := sc.validator.Struct(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := s.LoadProject(c.Request.Context(), req.ProjectID); err != nil {
		sendError(c, http.StatusServiceUnavailable, "LOAD_FAILED", "Failed to load project")
		return
	}
	middleware.RecordSessionOp("load_project")

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          s.State(),
		CorrelationID: getCorrelationID(c),
	})
}

// SaveProject persists the current aggregate synchronously
func (sc *SessionController) SaveProject(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	if err := s.SaveProject(c.Request.Context()); err != nil {
		sendError(c, http.StatusInternalServerError, "SAVE_FAILED", "Failed to save project")
		return
	}
	middleware.RecordSessionOp("save_project")

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Message:       "Project saved",
		CorrelationID: getCorrelationID(c),
	})
}

// AddBlock appends a block with type-specific defaults
func (sc *SessionController) AddBlock(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	var req AddBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := sc.validator.Struct(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	block, err := s.AddBlock(c.Request.Context(), model.BlockType(req.Type))
	if err != nil {
		sc.sendSessionError(c, err, "ADD_BLOCK_FAILED", "Failed to add block")
		return
	}
	middleware.RecordSessionOp("add_block")

	c.JSON(http.StatusCreated, Response{
		Success:       true,
		Data:          block,
		CorrelationID: getCorrelationID(c),
	})
}

// ReorderBlocks applies one drag and drop move. Dropping a block onto
// itself, or referencing an unknown block, is a silent no-op.
func (sc *SessionController) ReorderBlocks(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	var req ReorderBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := sc.validator.Struct(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	project := s.Project()
	if project == nil {
		sendError(c, http.StatusConflict, "NO_PROJECT_LOADED", "No project is loaded in this session")
		return
	}

	if ids, moved := render.Reorder(project.Blocks, req.DraggedID, req.TargetID); moved {
		if err := s.MoveBlocksByID(c.Request.Context(), ids); err != nil {
			sc.sendSessionError(c, err, "REORDER_FAILED", "Failed to reorder blocks")
			return
		}
		middleware.RecordSessionOp("reorder_blocks")
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          s.State(),
		CorrelationID: getCorrelationID(c),
	})
}

// MoveBlocks replaces the block order with an explicit id sequence
func (sc *SessionController) MoveBlocks(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	var req MoveBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := sc.validator.Struct(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := s.MoveBlocksByID(c.Request.Context(), req.IDs); err != nil {
		sc.sendSessionError(c, err, "MOVE_FAILED", "Failed to move blocks")
		return
	}
	middleware.RecordSessionOp("move_blocks")

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          s.State(),
		CorrelationID: getCorrelationID(c),
	})
}

// UpdateBlock shallow-merges a partial props document into one block
func (sc *SessionController) UpdateBlock(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	blockID := c.Param("blockId")
	if blockID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Block ID is required")
		return
	}

	var req UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if len(req.Props) == 0 {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "props is required")
		return
	}

	if err := s.UpdateBlock(c.Request.Context(), blockID, normalizeColumnsPatch(req.Props)); err != nil {
		sc.sendSessionError(c, err, "UPDATE_BLOCK_FAILED", "Failed to update block")
		return
	}
	middleware.RecordSessionOp("update_block")

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          s.State(),
		CorrelationID: getCorrelationID(c),
	})
}

// normalizeColumnsPatch rewrites a string "columns" value into the parsed
// column list, so table patches accept the config form's comma separated
// text as-is. Patches without a string columns value pass through untouched.
func normalizeColumnsPatch(props json.RawMessage) json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(props, &fields); err != nil {
		return props
	}
	raw, ok := fields["columns"]
	if !ok {
		return props
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return props
	}
	parsed, err := json.Marshal(render.ParseColumns(text))
	if err != nil {
		return props
	}
	fields["columns"] = parsed
	out, err := json.Marshal(fields)
	if err != nil {
		return props
	}
	return out
}

// RemoveBlock deletes one block from the sequence
func (sc *SessionController) RemoveBlock(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	blockID := c.Param("blockId")
	if blockID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Block ID is required")
		return
	}

	if err := s.RemoveBlock(c.Request.Context(), blockID); err != nil {
		sc.sendSessionError(c, err, "REMOVE_BLOCK_FAILED", "Failed to remove block")
		return
	}
	middleware.RecordSessionOp("remove_block")

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          s.State(),
		CorrelationID: getCorrelationID(c),
	})
}

// SelectBlock sets the transient selection; an empty block id clears it
func (sc *SessionController) SelectBlock(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	var req SelectBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	s.SelectBlock(req.BlockID)

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          s.State(),
		CorrelationID: getCorrelationID(c),
	})
}

// CreateCollection appends a new empty schema collection
func (sc *SessionController) CreateCollection(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := sc.validator.Struct(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	collection, err := s.CreateCollection(c.Request.Context(), req.Name)
	if err != nil {
		sc.sendSessionError(c, err, "CREATE_COLLECTION_FAILED", "Failed to create collection")
		return
	}
	middleware.RecordSessionOp("create_collection")

	c.JSON(http.StatusCreated, Response{
		Success:       true,
		Data:          collection,
		CorrelationID: getCorrelationID(c),
	})
}

// AddField appends a typed field to a collection
func (sc *SessionController) AddField(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	collectionID := c.Param("collectionId")
	if collectionID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Collection ID is required")
		return
	}

	var req AddFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := sc.validator.Struct(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	field := model.SchemaField{Name: req.Name, Type: model.FieldType(req.Type)}
	if err := s.AddFieldToCollection(c.Request.Context(), collectionID, field); err != nil {
		sc.sendSessionError(c, err, "ADD_FIELD_FAILED", "Failed to add field")
		return
	}
	middleware.RecordSessionOp("add_field")

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          s.State(),
		CorrelationID: getCorrelationID(c),
	})
}

// RemoveCollection deletes a collection from the schema. Table blocks that
// referenced it keep their binding and degrade at render time.
func (sc *SessionController) RemoveCollection(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	collectionID := c.Param("collectionId")
	if collectionID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Collection ID is required")
		return
	}

	if err := s.RemoveCollection(c.Request.Context(), collectionID); err != nil {
		sc.sendSessionError(c, err, "REMOVE_COLLECTION_FAILED", "Failed to remove collection")
		return
	}
	middleware.RecordSessionOp("remove_collection")

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          s.State(),
		CorrelationID: getCorrelationID(c),
	})
}

// GetCanvas renders the editable canvas tree of the current project
func (sc *SessionController) GetCanvas(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	state := s.State()
	node := render.Canvas(state.Project, state.SelectedBlockID)

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          node,
		CorrelationID: getCorrelationID(c),
	})
}

// GetConfigForm renders the property form of the selected block
func (sc *SessionController) GetConfigForm(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	var schema model.SchemaList
	if project := s.Project(); project != nil {
		schema = project.Schema
	}
	form := render.ConfigForm(s.SelectedBlock(), schema)

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          form,
		CorrelationID: getCorrelationID(c),
	})
}

// GetSchemaView renders the collection management surface
func (sc *SessionController) GetSchemaView(c *gin.Context) {
	s, ok := sc.session(c)
	if !ok {
		return
	}

	view := render.Schema(s.Project(), c.Query("selected"))

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          view,
		CorrelationID: getCorrelationID(c),
	})
}

// session resolves the :id path parameter to a session owned by the acting
// user, writing the error response itself when that fails.
func (sc *SessionController) session(c *gin.Context) (*session.Session, bool) {
	id := c.Param("id")
	if id == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Session ID is required")
		return nil, false
	}

	s, ok := sc.manager.Get(id)
	if !ok {
		sendError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
		return nil, false
	}

	if s.OwnerID() != currentUserID(c) {
		sendError(c, http.StatusForbidden, "FORBIDDEN", "Session belongs to another user")
		return nil, false
	}

	return s, true
}

func (sc *SessionController) sendSessionError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	switch {
	case errors.Is(err, session.ErrNoProject):
		sendError(c, http.StatusConflict, "NO_PROJECT_LOADED", "No project is loaded in this session")
	case errors.Is(err, session.ErrInvalidBlockType):
		sendError(c, http.StatusBadRequest, "INVALID_BLOCK_TYPE", "Invalid block type")
	case errors.Is(err, session.ErrEmptyName):
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name must not be empty")
	default:
		sendError(c, http.StatusInternalServerError, fallbackCode, fallbackMessage)
	}
}
