// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"companion/config"
	"companion/internal/delivery/http/response"
	"companion/internal/domain/service"
	"companion/internal/usecase"
)

// refreshCookieName is the cookie the refresh token travels in.
const refreshCookieName = "refresh_token"

// refreshCookiePath limits the cookie to the auth endpoints, so the refresh
// token never rides along on ordinary API calls.
const refreshCookiePath = "/api/auth"

// AuthHandler holds dependencies for the authentication endpoints.
type AuthHandler struct {
	uc           usecase.AuthUsecase
	codec        service.TokenCodec
	cookieSecure bool
	logger       *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, codec service.TokenCodec, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	cookieSecure := true
	if cfg != nil && cfg.Auth != nil {
		cookieSecure = cfg.Auth.CookieSecure
	}

	return &AuthHandler{
		uc:           uc,
		codec:        codec,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// The login form follows the OAuth2 password flow shape: the username field
// carries the email.
type loginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input registerRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Email:    input.Email,
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.User, "User registered successfully")
}

// Login handles the credential exchange. The token pair is returned in the
// body and the refresh token is additionally set as an HttpOnly cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var input loginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	pair, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    input.Username,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	return response.Success(c, http.StatusOK, toTokenResponse(pair), "Login successful")
}

// Refresh rotates the token pair using the refresh cookie. The rotated
// refresh token replaces the cookie.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var refreshToken string
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		refreshToken = cookie.Value
	}

	pair, err := h.uc.Refresh(c.Request().Context(), &usecase.RefreshInput{RefreshToken: refreshToken})
	if err != nil {
		return errors.WithStack(err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	return response.Success(c, http.StatusOK, toTokenResponse(pair), "Token refreshed successfully")
}

// setRefreshCookie installs the refresh token cookie, scoped to the auth
// endpoints and unreadable from scripts.
func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(h.codec.RefreshTokenDuration().Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func toTokenResponse(pair *usecase.TokenPairOutput) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	}
}
