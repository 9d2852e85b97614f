package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports whether the service and its database are reachable
type HealthHandler struct {
	db            *gorm.DB
	service       string
	cacheEnabled  bool
	eventsEnabled bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, service string, cacheEnabled, eventsEnabled bool) *HealthHandler {
	return &HealthHandler{
		db:            db,
		service:       service,
		cacheEnabled:  cacheEnabled,
		eventsEnabled: eventsEnabled,
	}
}

// Check pings the database. A failed ping answers 503.
func (h *HealthHandler) Check(c *gin.Context) {
	status, code, database := "ok", http.StatusOK, "ok"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status, code, database = "degraded", http.StatusServiceUnavailable, err.Error()
	}

	c.JSON(code, gin.H{
		"status":   status,
		"service":  h.service,
		"database": database,
		"cache":    h.cacheEnabled,
		"events":   h.eventsEnabled,
	})
}
