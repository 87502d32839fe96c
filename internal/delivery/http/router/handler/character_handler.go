package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"companion/internal/delivery/http/middleware"
	"companion/internal/delivery/http/response"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/usecase"
)

// CharacterHandler holds dependencies for character profile endpoints.
type CharacterHandler struct {
	uc usecase.CharacterUsecase
}

// NewCharacterHandler is the constructor for CharacterHandler, injected by Fx.
func NewCharacterHandler(uc usecase.CharacterUsecase) *CharacterHandler {
	return &CharacterHandler{uc: uc}
}

type createCharacterRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Description  string `json:"description" validate:"max=2000"`
	AvatarURL    string `json:"avatar_url" validate:"omitempty,url"`
	SystemPrompt string `json:"system_prompt" validate:"max=8000"`
}

type updateCharacterRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	AvatarURL    *string `json:"avatar_url" validate:"omitempty,url"`
	SystemPrompt *string `json:"system_prompt" validate:"omitempty,max=8000"`
}

// Create handles character creation for the authenticated user.
func (h *CharacterHandler) Create(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	var input createCharacterRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid character input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	character, err := h.uc.CreateCharacter(c.Request().Context(), &usecase.CreateCharacterInput{
		OwnerID:      user.ID,
		Name:         input.Name,
		Description:  input.Description,
		AvatarURL:    input.AvatarURL,
		SystemPrompt: input.SystemPrompt,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, character, "Character created successfully")
}

// List returns all of the authenticated user's characters.
func (h *CharacterHandler) List(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	characters, err := h.uc.ListCharacters(c.Request().Context(), user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, characters, "")
}

// Get returns one of the authenticated user's characters.
func (h *CharacterHandler) Get(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	characterID, err := parsePathID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	character, err := h.uc.GetCharacter(c.Request().Context(), user.ID, characterID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, character, "")
}

// Update applies a partial update to one of the user's characters.
func (h *CharacterHandler) Update(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	characterID, err := parsePathID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var input updateCharacterRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid character input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	character, err := h.uc.UpdateCharacter(c.Request().Context(), &usecase.UpdateCharacterInput{
		OwnerID:      user.ID,
		CharacterID:  characterID,
		Name:         input.Name,
		Description:  input.Description,
		AvatarURL:    input.AvatarURL,
		SystemPrompt: input.SystemPrompt,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, character, "Character updated successfully")
}

// Delete removes one of the user's characters.
func (h *CharacterHandler) Delete(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	characterID, err := parsePathID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeleteCharacter(c.Request().Context(), user.ID, characterID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// parsePathID parses a UUID path parameter.
func parsePathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WrapMessage("invalid " + name + " path parameter")
	}

	return id, nil
}
