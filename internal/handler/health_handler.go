package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pivotpoint/backend-go/internal/database/schema"
)

// HealthHandler answers liveness probes. Each check opportunistically
// re-runs schema reconciliation, so a database recreated underneath a
// running instance heals without a restart.
type HealthHandler struct {
	db         *sql.DB
	reconciler *schema.Reconciler
	logger     *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, reconciler *schema.Reconciler, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:         db,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		h.logger.Error("❌ [Health] Database unreachable", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy", "error": "database unreachable"})
		return
	}

	if err := h.reconciler.Reconcile(c.Request.Context()); err != nil {
		h.logger.Error("❌ [Health] Schema reconciliation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy", "error": "schema reconciliation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
