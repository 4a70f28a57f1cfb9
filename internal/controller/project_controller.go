package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"bricks-studio/internal/repository"
	"bricks-studio/internal/security"
	"bricks-studio/internal/service"
)

// anonymousUser is the owner id applied when authentication is disabled
const anonymousUser = "00000000-0000-0000-0000-000000000000"

// currentUserID resolves the acting user from the auth middleware
func currentUserID(c *gin.Context) string {
	if id, ok := security.GetUserID(c); ok && id != "" {
		return id
	}
	return anonymousUser
}

type ProjectController struct {
	service   service.ProjectService
	validator *validator.Validate
}

func NewProjectController(service service.ProjectService) *ProjectController {
	return &ProjectController{
		service:   service,
		validator: validator.New(),
	}
}

// ListProjects returns the acting user's projects, newest first
func (pc *ProjectController) ListProjects(c *gin.Context) {
	req := &service.ListProjectsRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			req.Limit = limit
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			req.Offset = offset
		}
	}

	if err := pc.validator.Struct(req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	response, err := pc.service.ListProjects(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list projects")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          response,
		CorrelationID: getCorrelationID(c),
	})
}

// GetProject returns one project aggregate by id
func (pc *ProjectController) GetProject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Project ID is required")
		return
	}

	project, err := pc.service.GetProject(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			sendError(c, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
			return
		}
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid project ID format")
			return
		}
		sendError(c, http.StatusInternalServerError, "GET_FAILED", "Failed to get project")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          project,
		CorrelationID: getCorrelationID(c),
	})
}

// DeleteProject removes a project aggregate
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Project ID is required")
		return
	}

	err := pc.service.DeleteProject(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			sendError(c, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
			return
		}
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid project ID format")
			return
		}
		sendError(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete project")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Message:       "Project deleted successfully",
		CorrelationID: getCorrelationID(c),
	})
}

// GetLastOpened returns the id of the project the user last opened
func (pc *ProjectController) GetLastOpened(c *gin.Context) {
	projectID, err := pc.service.GetLastOpened(c.Request.Context(), currentUserID(c))
	if err != nil {
		sendError(c, http.StatusInternalServerError, "GET_FAILED", "Failed to get last opened project")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          gin.H{"projectId": projectID},
		CorrelationID: getCorrelationID(c),
	})
}
