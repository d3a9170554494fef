package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db      *pgxpool.Pool
	version string
}

func NewHealthHandlers(db *pgxpool.Pool, version string) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		version: version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
}

// HealthCheck reports process and dependency health
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   h.version,
	}

	if err := h.checkDatabase(ctx); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}

	return c.JSON(statusCode, health)
}

func (h *HealthHandlers) checkDatabase(ctx context.Context) error {
	_, err := h.db.Exec(ctx, "SELECT 1")
	return err
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if err := h.checkDatabase(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Critical services unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// DetailedHealthCheck adds runtime stats on top of the dependency checks
func (h *HealthHandlers) DetailedHealthCheck(c echo.Context) error {
	status := "healthy"
	dbStatus := "healthy"
	if err := h.checkDatabase(c.Request().Context()); err != nil {
		status = "degraded"
		dbStatus = err.Error()
	}

	statusCode := http.StatusOK
	if status == "degraded" {
		statusCode = http.StatusPartialContent
	}

	return c.JSON(statusCode, map[string]interface{}{
		"overall_status": status,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"version":        h.version,
		"goroutines":     runtime.NumGoroutine(),
		"checks": map[string]interface{}{
			"database": dbStatus,
		},
	})
}
