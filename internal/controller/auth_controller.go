package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"bricks-studio/internal/security"
)

// Response is the standard API envelope of this package
type Response struct {
	Success       bool        `json:"success"`
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	Message       string      `json:"message,omitempty"`
	CorrelationID string      `json:"correlationId"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// getCorrelationID reads the correlation id the middleware stored
func getCorrelationID(c *gin.Context) string {
	if correlationID, exists := c.Get("correlation_id"); exists {
		if id, ok := correlationID.(string); ok {
			return id
		}
	}
	return ""
}

func sendError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
		CorrelationID: getCorrelationID(c),
	})
}

type AuthController struct {
	jwtManager *security.JWTManager
	validator  *validator.Validate
}

type IssueTokenRequest struct {
	UserID   string `json:"userId" validate:"omitempty,uuid"`
	Username string `json:"username" validate:"required,min=1,max=255"`
}

type IssueTokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func NewAuthController(jwtManager *security.JWTManager) *AuthController {
	return &AuthController{
		jwtManager: jwtManager,
		validator:  validator.New(),
	}
}

// IssueToken hands out a signed token for a named user. A missing user id
// allocates a fresh one; identity federation sits in front of this service.
func (ac *AuthController) IssueToken(c *gin.Context) {
	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	if err := ac.validator.Struct(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = uuid.New().String()
	}

	token, err := ac.jwtManager.GenerateToken(userID, req.Username, nil)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "TOKEN_ISSUE_FAILED", "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: IssueTokenResponse{
			Token:  token,
			UserID: userID,
		},
		CorrelationID: getCorrelationID(c),
	})
}

// RefreshToken extends the expiry of a valid token
func (ac *AuthController) RefreshToken(c *gin.Context) {
	claims, ok := security.GetUserClaims(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	token, err := ac.jwtManager.RefreshToken(claims)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "TOKEN_ISSUE_FAILED", "Failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: IssueTokenResponse{
			Token:  token,
			UserID: claims.UserID,
		},
		CorrelationID: getCorrelationID(c),
	})
}
