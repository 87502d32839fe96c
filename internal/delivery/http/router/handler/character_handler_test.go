package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companion/internal/delivery/http/middleware"
	"companion/internal/delivery/http/validator"
	"companion/internal/domain/entity"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/mocks"
	"companion/internal/usecase"
)

// asUser is a stand-in for the bearer middleware in handler tests.
func asUser(user *entity.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextKeyUser, user)

			return next(c)
		}
	}
}

func newCharacterTestServer(t *testing.T, uc usecase.CharacterUsecase, user *entity.User) *echo.Echo {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(slog.New(slog.DiscardHandler)).HandleHTTPError

	h := NewCharacterHandler(uc)
	g := e.Group("/api/users/me/characters", asUser(user))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	return e
}

func TestCharacterHandler_Create(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "user@example.com"}
	uc := new(mocks.CharacterUsecase)
	uc.On("CreateCharacter", mockAnything, mockAnything).
		Return(&entity.Character{ID: uuid.New(), OwnerID: user.ID, Name: "Luna"}, nil)

	e := newCharacterTestServer(t, uc, user)

	body := `{"name":"Luna","system_prompt":"You are Luna."}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/me/characters", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Luna")
}

func TestCharacterHandler_Create_MissingName(t *testing.T) {
	user := &entity.User{ID: uuid.New()}
	uc := new(mocks.CharacterUsecase)

	e := newCharacterTestServer(t, uc, user)

	req := httptest.NewRequest(http.MethodPost, "/api/users/me/characters", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "CreateCharacter", mockAnything, mockAnything)
}

func TestCharacterHandler_Get_BadID(t *testing.T) {
	user := &entity.User{ID: uuid.New()}
	uc := new(mocks.CharacterUsecase)

	e := newCharacterTestServer(t, uc, user)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me/characters/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestCharacterHandler_Get_NotFound(t *testing.T) {
	user := &entity.User{ID: uuid.New()}
	characterID := uuid.New()
	uc := new(mocks.CharacterUsecase)
	uc.On("GetCharacter", mockAnything, user.ID, characterID).
		Return(nil, domainerrors.ErrCharacterNotFound.WrapMessage("character not found"))

	e := newCharacterTestServer(t, uc, user)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me/characters/"+characterID.String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "CHARACTER_NOT_FOUND")
}

func TestCharacterHandler_Update_PartialBody(t *testing.T) {
	user := &entity.User{ID: uuid.New()}
	characterID := uuid.New()
	uc := new(mocks.CharacterUsecase)
	uc.On("UpdateCharacter", mockAnything, mockAnything).
		Run(func(args mockArguments) {
			input := args.Get(1).(*usecase.UpdateCharacterInput)
			require.NotNil(t, input.Name)
			assert.Equal(t, "Stella", *input.Name)
			assert.Nil(t, input.Description)
		}).
		Return(&entity.Character{ID: characterID, OwnerID: user.ID, Name: "Stella"}, nil)

	e := newCharacterTestServer(t, uc, user)

	body := `{"name":"Stella"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/users/me/characters/"+characterID.String(), strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCharacterHandler_Delete(t *testing.T) {
	user := &entity.User{ID: uuid.New()}
	characterID := uuid.New()
	uc := new(mocks.CharacterUsecase)
	uc.On("DeleteCharacter", mockAnything, user.ID, characterID).Return(nil)

	e := newCharacterTestServer(t, uc, user)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/me/characters/"+characterID.String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
