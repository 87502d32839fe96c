package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"companion/internal/delivery/http/middleware"
	"companion/internal/delivery/http/response"
)

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct{}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me returns the authenticated user's public profile.
func (h *UserHandler) Me(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user.Public(), "")
}
