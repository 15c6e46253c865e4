package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockpulse-go/internal/database"
)

var startTime = time.Now()

// HealthHandler reports service liveness and dependency health.
type HealthHandler struct {
	db    *database.PostgresDB
	redis *database.RedisClient
}

func NewHealthHandler(db *database.PostgresDB, redis *database.RedisClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Health checks the database and cache and reports overall status.
// Returns 503 when any dependency is unhealthy.
func (h *HealthHandler) Health(c *gin.Context) {
	services := make(map[string]string)
	status := "ok"

	if h.db != nil {
		if err := h.db.HealthCheck(c.Request.Context()); err != nil {
			services["database"] = "unhealthy: " + err.Error()
			status = "degraded"
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "not configured"
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(c.Request.Context()); err != nil {
			services["redis"] = "unhealthy: " + err.Error()
			status = "degraded"
		} else {
			services["redis"] = "healthy"
		}
	} else {
		services["redis"] = "not configured"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
		"uptime":    time.Since(startTime).String(),
		"services":  services,
	})
}
