package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"companion/internal/delivery/http/middleware"
	"companion/internal/delivery/http/response"
)

// HealthCheck is the liveness endpoint.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// StatusHandler serves the root status route.
type StatusHandler struct{}

// NewStatusHandler is the constructor for StatusHandler, injected by Fx.
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

// Root reports service status. When the request carries a valid access token
// the response also names the caller; anonymous requests get the same 200.
func (h *StatusHandler) Root(c echo.Context) error {
	data := map[string]any{
		"service":       "companion",
		"status":        "ok",
		"authenticated": false,
	}

	if user, err := middleware.CurrentUser(c); err == nil {
		data["authenticated"] = true
		data["user"] = user.Email
	}

	return response.Success(c, http.StatusOK, data, "")
}
