package handlers

import (
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpulse/stockpulse-go/internal/database"
)

func setupHealthRouter(redis *database.RedisClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHealthHandler(nil, redis)
	router.GET("/health", handler.Health)
	return router
}

func TestHealthHandler_NotConfigured(t *testing.T) {
	router := setupHealthRouter(nil)

	w, body := doRequest(router, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.0.0", body["version"])

	services := body["services"].(map[string]interface{})
	assert.Equal(t, "not configured", services["database"])
	assert.Equal(t, "not configured", services["redis"])
}

func TestHealthHandler_RedisHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	redis := &database.RedisClient{
		Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
	}
	router := setupHealthRouter(redis)

	w, body := doRequest(router, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	services := body["services"].(map[string]interface{})
	assert.Equal(t, "healthy", services["redis"])
}

func TestHealthHandler_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	redis := &database.RedisClient{
		Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
	}
	mr.Close()
	router := setupHealthRouter(redis)

	w, body := doRequest(router, http.MethodGet, "/health")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", body["status"])

	services := body["services"].(map[string]interface{})
	assert.Contains(t, services["redis"], "unhealthy")
}
