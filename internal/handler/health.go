package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether the database deployment is reachable. Implemented
// by database.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness probe used by container orchestrators.
type HealthHandler struct {
	DB Pinger // nil skips the database probe
}

// Health always answers 200 while the process can serve requests; liveness
// never depends on the database. The body carries a best-effort mongo
// probe result for operators.
func (h *HealthHandler) Health(c echo.Context) error {
	mongo := "unknown"
	if h.DB != nil {
		mongo = "connected"
		if err := h.DB.Ping(c.Request().Context()); err != nil {
			mongo = "disconnected"
		}
	}
	return ok(c, http.StatusOK, echo.Map{"status": "ok", "mongo": mongo})
}

// Root answers GET / with service pointers.
func Root(c echo.Context) error {
	return ok(c, http.StatusOK, echo.Map{
		"message": "devfolio backend API",
		"health":  "/health",
	})
}
