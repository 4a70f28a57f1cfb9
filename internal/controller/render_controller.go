package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bricks-studio/internal/middleware"
	"bricks-studio/internal/repository"
	"bricks-studio/internal/service"
	"bricks-studio/internal/session"
	"bricks-studio/internal/storage"
)

// RenderController serves read-only app trees: the in-editor preview and
// the end-user views of live projects and frozen deployments.
type RenderController struct {
	renders  service.RenderService
	sessions *session.Manager
}

func NewRenderController(renders service.RenderService, sessions *session.Manager) *RenderController {
	return &RenderController{
		renders:  renders,
		sessions: sessions,
	}
}

// Preview renders the project loaded in a session with inert interactivity
func (rc *RenderController) Preview(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Session ID is required")
		return
	}

	s, ok := rc.sessions.Get(id)
	if !ok {
		sendError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
		return
	}
	if s.OwnerID() != currentUserID(c) {
		sendError(c, http.StatusForbidden, "FORBIDDEN", "Session belongs to another user")
		return
	}

	start := time.Now()
	node, err := rc.renders.Preview(c.Request.Context(), s.Project())
	if err != nil {
		middleware.RecordRender("preview", "error", time.Since(start))
		sendError(c, http.StatusInternalServerError, "RENDER_FAILED", "Failed to render preview")
		return
	}
	middleware.RecordRender("preview", "success", time.Since(start))

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          node,
		CorrelationID: getCorrelationID(c),
	})
}

// Live renders the saved state of a project as an end-user app
func (rc *RenderController) Live(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Project ID is required")
		return
	}

	start := time.Now()
	node, err := rc.renders.Live(c.Request.Context(), projectID)
	if err != nil {
		middleware.RecordRender("live", "error", time.Since(start))
		if errors.Is(err, repository.ErrProjectNotFound) {
			sendError(c, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
			return
		}
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid project ID format")
			return
		}
		sendError(c, http.StatusInternalServerError, "RENDER_FAILED", "Failed to render project")
		return
	}
	middleware.RecordRender("live", "success", time.Since(start))

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          node,
		CorrelationID: getCorrelationID(c),
	})
}

// DeployedLatest renders the newest publish of a project
func (rc *RenderController) DeployedLatest(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Project ID is required")
		return
	}

	start := time.Now()
	node, err := rc.renders.DeployedLatest(c.Request.Context(), projectID)
	if err != nil {
		middleware.RecordRender("deployed", "error", time.Since(start))
		if errors.Is(err, repository.ErrDeploymentNotFound) || errors.Is(err, storage.ErrSnapshotNotFound) {
			sendError(c, http.StatusNotFound, "DEPLOYMENT_NOT_FOUND", "Project has no deployments")
			return
		}
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid project ID format")
			return
		}
		sendError(c, http.StatusInternalServerError, "RENDER_FAILED", "Failed to render deployment")
		return
	}
	middleware.RecordRender("deployed", "success", time.Since(start))

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          node,
		CorrelationID: getCorrelationID(c),
	})
}

// Deployed renders the frozen snapshot of a deployment
func (rc *RenderController) Deployed(c *gin.Context) {
	deploymentID := c.Param("id")
	if deploymentID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Deployment ID is required")
		return
	}

	start := time.Now()
	node, err := rc.renders.Deployed(c.Request.Context(), deploymentID)
	if err != nil {
		middleware.RecordRender("deployed", "error", time.Since(start))
		if errors.Is(err, repository.ErrDeploymentNotFound) || errors.Is(err, storage.ErrSnapshotNotFound) {
			sendError(c, http.StatusNotFound, "DEPLOYMENT_NOT_FOUND", "Deployment not found")
			return
		}
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid deployment ID format")
			return
		}
		sendError(c, http.StatusInternalServerError, "RENDER_FAILED", "Failed to render deployment")
		return
	}
	middleware.RecordRender("deployed", "success", time.Since(start))

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          node,
		CorrelationID: getCorrelationID(c),
	})
}
