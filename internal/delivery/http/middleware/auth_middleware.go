// Package middleware contains the HTTP middleware for the application.
package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"companion/internal/domain/entity"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/repository"
	"companion/internal/domain/service"
)

// ContextKeyUser is the echo context key the authenticated user rides under.
const ContextKeyUser = "user"

// AuthMiddleware validates bearer access tokens and resolves them to users.
type AuthMiddleware struct {
	codec    service.TokenCodec
	userRepo repository.UserRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(codec service.TokenCodec, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, userRepo: userRepo}
}

// Authenticate rejects the request unless it carries a valid access token
// whose subject resolves to an account. The resolved user is set on the echo
// context for the rest of the request.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.resolveRequestUser(c)
		if err != nil {
			return err
		}

		c.Set(ContextKeyUser, user)

		return next(c)
	}
}

// OptionalAuthenticate resolves the user when a valid token is present and
// continues anonymously on every failure. Used on the root status route.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, err := m.resolveRequestUser(c); err == nil {
			c.Set(ContextKeyUser, user)
		}

		return next(c)
	}
}

// resolveRequestUser runs the full bearer-token path: extraction, decode,
// class check, and subject lookup.
func (m *AuthMiddleware) resolveRequestUser(c echo.Context) (*entity.User, error) {
	tokenString, err := extractBearerToken(c)
	if err != nil {
		return nil, err
	}

	return m.ResolveAccessToken(c.Request().Context(), tokenString)
}

// ResolveAccessToken decodes an access token and resolves its subject. It is
// shared with the websocket path, which carries the token in a query
// parameter instead of a header.
func (m *AuthMiddleware) ResolveAccessToken(ctx context.Context, tokenString string) (*entity.User, error) {
	claims, err := m.codec.Decode(tokenString)
	if err != nil {
		return nil, errors.Wrap(err, "access token rejected")
	}
	if claims.Class != service.TokenClassAccess {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("token is not an access token")
	}

	user, err := m.userRepo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidToken.WrapMessage("token subject no longer exists")
		}

		return nil, errors.Wrap(err, "failed to resolve token subject")
	}

	return user, nil
}

// extractBearerToken pulls the token out of the Authorization header. An
// absent header is the caller's condition and maps to ErrMissingToken.
func extractBearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", domainerrors.ErrMissingToken.WrapMessage("authorization header is missing")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return "", domainerrors.ErrInvalidToken.WrapMessage("authorization header is not a bearer token")
	}

	return tokenString, nil
}

// CurrentUser returns the authenticated user set by Authenticate.
func CurrentUser(c echo.Context) (*entity.User, error) {
	user, ok := c.Get(ContextKeyUser).(*entity.User)
	if !ok || user == nil {
		return nil, domainerrors.ErrMissingToken.WrapMessage("no authenticated user on request")
	}

	return user, nil
}
