package handlers

import (
	"context"
	"time"

	"bibliotheque/internal/adapters/persistence/connpool"

	"github.com/gofiber/fiber/v2"
)

// StoreChecker reports the store health and pool usage
type StoreChecker interface {
	HealthCheck(ctx context.Context) error
}

// PoolStatser exposes connection pool bookkeeping
type PoolStatser interface {
	Stats() connpool.Stats
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store   StoreChecker
	pool    PoolStatser
	appMode string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store StoreChecker, pool PoolStatser, appMode string) *HealthHandler {
	return &HealthHandler{store: store, pool: pool, appMode: appMode}
}

// Root handles root endpoint
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "📚 Bibliotheque API v1.0 is running",
		"mode":    h.appMode,
	})
}

// HealthCheck handles health check
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	code := fiber.StatusOK
	overall, dbStatus := "ok", "healthy"
	if err := h.store.HealthCheck(ctx); err != nil {
		code = fiber.StatusServiceUnavailable
		overall, dbStatus = "degraded", "unhealthy"
	}

	return c.Status(code).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"api":      "healthy",
			"database": dbStatus,
		},
		"pool": h.pool.Stats(),
	})
}

// APIInfo handles API v1 info
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Bibliotheque API v1.0",
		"version": "1.0.0",
	})
}
