package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pivotpoint/backend-go/internal/database/repository"
	"github.com/pivotpoint/backend-go/internal/database/service"
)

// DecisionHandler handles HTTP requests for the decision/item aggregate
type DecisionHandler struct {
	service service.DecisionService
	logger  *slog.Logger
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(service service.DecisionService, logger *slog.Logger) *DecisionHandler {
	return &DecisionHandler{
		service: service,
		logger:  logger,
	}
}

// Request DTOs
type CreateDecisionRequest struct {
	Title string `json:"title"`
}

type UpdateDecisionRequest struct {
	Title    *string `json:"title"`
	Archived *bool   `json:"archived"`
}

type AddItemRequest struct {
	Text   string  `json:"text" binding:"required"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type"`
}

type UpdateItemRequest struct {
	Text   *string  `json:"text"`
	Weight *float64 `json:"weight"`
}

// List handles GET /api/decisions
func (h *DecisionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	board, err := h.service.List(userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// Create handles POST /api/decisions
func (h *DecisionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Title is optional; an empty or absent body falls back to the default
	var req CreateDecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	decision, err := h.service.Create(userID, req.Title)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// Update handles PUT /api/decisions/:id
func (h *DecisionHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	decisionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	decision, err := h.service.Update(userID, decisionID, req.Title, req.Archived)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// Delete handles DELETE /api/decisions/:id
func (h *DecisionHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	decisionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(userID, decisionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddItem handles POST /api/decisions/:id/items
func (h *DecisionHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	decisionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	item, err := h.service.AddItem(userID, decisionID, req.Text, req.Weight, req.Type)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateItem handles PUT /api/items/:id
func (h *DecisionHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	item, err := h.service.UpdateItem(userID, itemID, req.Text, req.Weight)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /api/items/:id
func (h *DecisionHandler) DeleteItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteItem(userID, itemID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// pathID parses a numeric path parameter, rejecting the request on failure
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// handleServiceError maps service errors to HTTP responses
func (h *DecisionHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrDecisionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Decision not found"})
	case errors.Is(err, repository.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case errors.Is(err, service.ErrItemTextRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
	case errors.Is(err, service.ErrInvalidItemType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type must be pro or con"})
	default:
		h.logger.Error("❌ [DecisionHandler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
