// Package handler binds HTTP requests to the query and health services and
// writes their results through the response package.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ldb/src/core/usecase"
)

type HealthHandler struct {
	health *usecase.HealthService
}

func NewHealthHandler(health *usecase.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Liveness answers as long as the process serves HTTP; the database is not
// consulted.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DetailedHealth pings every component: 200 when all answer, 503 otherwise.
// GET /health/detailed
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	status := h.health.Check(c.Request.Context())
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
