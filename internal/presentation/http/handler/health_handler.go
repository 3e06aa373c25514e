package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-engine/pkg/logger"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports service liveness and database reachability
type HealthHandler struct {
	service string
	db      Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service string, db Pinger) *HealthHandler {
	return &HealthHandler{service: service, db: db}
}

// Health answers 200 when the database responds and 503 otherwise
func (h *HealthHandler) Health(c *gin.Context) {
	status, database := http.StatusOK, "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			status, database = http.StatusServiceUnavailable, "unavailable"
		}
	}

	c.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"service":  h.service,
		"database": database,
	})
}
