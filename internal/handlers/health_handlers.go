package handlers

import (
	"context"
	"net/http"
	"time"

	"farmmart/internal/caching"

	"github.com/labstack/echo/v4"
)

// Pinger is the connectivity probe satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JobReporter exposes the background scheduler's registered jobs.
type JobReporter interface {
	JobStatus() map[string]interface{}
}

// HealthHandlers reports liveness and readiness of the service and its
// backing stores.
type HealthHandlers struct {
	db        Pinger
	cacheSvc  caching.CacheService
	scheduler JobReporter
}

func NewHealthHandlers(db Pinger, cacheSvc caching.CacheService, scheduler JobReporter) *HealthHandlers {
	return &HealthHandlers{db: db, cacheSvc: cacheSvc, scheduler: scheduler}
}

// HealthCheck handles GET /health
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessCheck handles GET /health/ready and probes postgres and redis.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.cacheSvc.Ping(ctx); err != nil {
		checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]interface{}{
		"status": http.StatusText(status),
		"checks": checks,
		"jobs":   h.scheduler.JobStatus(),
	})
}
