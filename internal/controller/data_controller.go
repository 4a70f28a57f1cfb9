package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"bricks-studio/internal/middleware"
	"bricks-studio/internal/model"
	"bricks-studio/internal/repository"
	"bricks-studio/internal/service"
)

// DataController manages the rows behind schema collections
type DataController struct {
	service   service.DataService
	validator *validator.Validate
}

type InsertRowRequest struct {
	Data model.RowData `json:"data" validate:"required"`
}

func NewDataController(service service.DataService) *DataController {
	return &DataController{
		service:   service,
		validator: validator.New(),
	}
}

// ListRows returns the rows of a collection, newest first
func (dc *DataController) ListRows(c *gin.Context) {
	collectionID := c.Param("collectionId")
	if collectionID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Collection ID is required")
		return
	}

	response, err := dc.service.ListRows(c.Request.Context(), collectionID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid collection ID format")
			return
		}
		sendError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list rows")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          response,
		CorrelationID: getCorrelationID(c),
	})
}

// InsertRow stores one row in a collection
func (dc *DataController) InsertRow(c *gin.Context) {
	collectionID := c.Param("collectionId")
	if collectionID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Collection ID is required")
		return
	}

	var req InsertRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := dc.validator.Struct(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	row, err := dc.service.InsertRow(c.Request.Context(), collectionID, req.Data)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid collection ID format")
			return
		}
		sendError(c, http.StatusInternalServerError, "INSERT_FAILED", "Failed to insert row")
		return
	}
	middleware.RecordRowsInserted("api", 1)

	c.JSON(http.StatusCreated, Response{
		Success:       true,
		Data:          row,
		CorrelationID: getCorrelationID(c),
	})
}

// DeleteRows removes every row of a collection
func (dc *DataController) DeleteRows(c *gin.Context) {
	collectionID := c.Param("collectionId")
	if collectionID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Collection ID is required")
		return
	}

	if err := dc.service.DeleteRows(c.Request.Context(), collectionID); err != nil {
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid collection ID format")
			return
		}
		sendError(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete rows")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Message:       "Rows deleted successfully",
		CorrelationID: getCorrelationID(c),
	})
}

// ImportCSV bulk-loads rows from a CSV request body. The first record is
// the header; each following record becomes one row.
func (dc *DataController) ImportCSV(c *gin.Context) {
	collectionID := c.Param("collectionId")
	if collectionID == "" {
		sendError(c, http.StatusBadRequest, "MISSING_ID", "Collection ID is required")
		return
	}

	response, err := dc.service.ImportCSV(c.Request.Context(), collectionID, c.Request.Body)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidUUID) {
			sendError(c, http.StatusBadRequest, "INVALID_ID", "Invalid collection ID format")
			return
		}
		sendError(c, http.StatusBadRequest, "IMPORT_FAILED", "Failed to import CSV: "+err.Error())
		return
	}
	middleware.RecordRowsInserted("csv", response.Imported)

	c.JSON(http.StatusCreated, Response{
		Success:       true,
		Data:          response,
		CorrelationID: getCorrelationID(c),
	})
}
