package handler

import (
	"context"
	"net/http"
	"time"

	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health reports dependency reachability plus host load. Any failing check
// turns the response into a 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	deps := make(gin.H, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	host := utils.GetHostStats()
	c.JSON(code, gin.H{
		"status":         status,
		"dependencies":   deps,
		"cpu_percent":    host.CPUPercent,
		"memory_percent": host.MemoryPercent,
		"time":           time.Now().UTC(),
	})
}
