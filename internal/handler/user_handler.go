package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pivotpoint/backend-go/internal/database/repository"
	"github.com/pivotpoint/backend-go/internal/database/service"
)

// UserHandler handles requests for the authenticated user's own record
type UserHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// GetUser handles GET /api/user
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("❌ [UserHandler] Failed to get user", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// currentUserID reads the authenticated user's id set by RequireAuth. A
// missing or mistyped value means the route was wired without the auth
// middleware; the request is rejected and false returned.
func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}

	userID, ok := value.(uint)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return 0, false
	}

	return userID, true
}
