package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bricks-studio/internal/middleware"
	"bricks-studio/internal/repository"
	"bricks-studio/internal/service"
)

// DeployController publishes immutable project snapshots
type DeployController struct {
	service service.DeployService
}

func NewDeployController(service service.DeployService) *DeployController {
	return &DeployController{
		service: service,
	}
}

// Deploy freezes the current project state into a new deployment
func (dc *DeployController) Deploy(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Project ID is required")
		return
	}

	response, err := dc.service.Deploy(c.Request.Context(), projectID)
	if err != nil {
		middleware.RecordDeployment("error", 0)
		if errors.Is(err, repository.ErrProjectNotFound) {
			sendError(c, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
			return
		}
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid project ID format")
			return
		}
		sendError(c, http.StatusInternalServerError, "DEPLOY_FAILED", "Failed to deploy project")
		return
	}
	middleware.RecordDeployment("success", response.SnapshotBytes)

	c.JSON(http.StatusCreated, Response{
		Success:       true,
		Data:          response,
		CorrelationID: getCorrelationID(c),
	})
}

// ListDeployments returns the deployments of a project, newest first
func (dc *DeployController) ListDeployments(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Project ID is required")
		return
	}

	deployments, err := dc.service.ListDeployments(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid project ID format")
			return
		}
		sendError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list deployments")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          gin.H{"deployments": deployments},
		CorrelationID: getCorrelationID(c),
	})
}

// GetDeployment returns one deployment record
func (dc *DeployController) GetDeployment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Deployment ID is required")
		return
	}

	deployment, err := dc.service.GetDeployment(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDeploymentNotFound) {
			sendError(c, http.StatusNotFound, "DEPLOYMENT_NOT_FOUND", "Deployment not found")
			return
		}
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid deployment ID format")
			return
		}
		sendError(c, http.StatusInternalServerError, "GET_FAILED", "Failed to get deployment")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          deployment,
		CorrelationID: getCorrelationID(c),
	})
}
