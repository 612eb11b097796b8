package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports service and dependency status.
type HealthHandler struct {
	db      *sql.DB
	rdb     *redis.Client
	breaker func() string
}

// NewHealthHandler creates a HealthHandler. Any dependency may be nil.
func NewHealthHandler(db *sql.DB, rdb *redis.Client, breaker func() string) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, breaker: breaker}
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.Map{
		"status":  "ok",
		"service": "cefilm-backend",
	}
	code := fiber.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			status["database"] = "down"
			status["status"] = "degraded"
			code = fiber.StatusServiceUnavailable
		} else {
			status["database"] = "up"
		}
	}
	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
		} else {
			status["redis"] = "up"
		}
	}
	if h.breaker != nil {
		status["recommender"] = h.breaker()
	}

	return c.Status(code).JSON(status)
}
