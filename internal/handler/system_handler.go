package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// isoMillis matches the millisecond UTC timestamps browsers produce.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type HealthChecker interface {
	Now(ctx context.Context) (time.Time, error)
}

type SystemHandler struct {
	db     HealthChecker
	logger *slog.Logger
}

func NewSystemHandler(db HealthChecker, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{db: db, logger: logger}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(isoMillis),
	})
}

func (h *SystemHandler) DBTest(c *gin.Context) {
	now, err := h.db.Now(c.Request.Context())
	if err != nil {
		h.logger.Error("Database check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "time": now})
}
