package handlers

import (
	"context"
	"net/http"
	"time"

	"tivastore/internal/caching"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type HealthHandlers struct {
	pool  *pgxpool.Pool
	cache *caching.CacheService
}

func NewHealthHandlers(pool *pgxpool.Pool, cache *caching.CacheService) *HealthHandlers {
	return &HealthHandlers{pool: pool, cache: cache}
}

// Health reports process liveness only.
func (h *HealthHandlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness of the service and its backing stores. An
// unreachable database fails readiness; a cold cache only degrades it.
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"service": "ok", "database": "ok", "cache": "ok"}
	code := http.StatusOK

	if h.pool != nil {
		if err := h.pool.Ping(ctx); err != nil {
			status["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			status["cache"] = "unreachable"
		}
	}
	return c.JSON(code, status)
}
