package handler

import (
	"net/http"

	"github.com/cloudexam/cloudexam-backend/internal/database"
	"github.com/cloudexam/cloudexam-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports backing store reachability.
type HealthHandler struct {
	checker *database.HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checker *database.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health godoc
// GET /health
// 200 while PostgreSQL answers; Redis being down only degrades caching.
func (h *HealthHandler) Health(c *gin.Context) {
	report := h.checker.Check(c.Request.Context())
	if !report.Healthy() {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrServiceUnavailable)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok", "checks": report})
}
