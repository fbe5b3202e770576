package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by the database handle.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	service string
}

func NewHealthHandler(db Pinger, service string) *HealthHandler {
	return &HealthHandler{db: db, service: service}
}

// HealthCheck reports 200 while the store answers a ping and 503 otherwise.
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status, health, database := http.StatusOK, "healthy", "up"
	if err := h.db.Ping(ctx); err != nil {
		status, health, database = http.StatusServiceUnavailable, "unhealthy", "down"
	}
	return c.JSON(status, map[string]string{
		"status":   health,
		"service":  h.service,
		"database": database,
	})
}
