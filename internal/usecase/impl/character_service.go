package impl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "companion/internal/delivery/context"
	"companion/internal/domain/entity"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/repository"
	"companion/internal/usecase"
)

// characterService implements the CharacterUsecase interface.
type characterService struct {
	characterRepo repository.CharacterRepository
	logger        *slog.Logger
}

// CharacterServiceParams holds dependencies for characterService, injected by Fx.
type CharacterServiceParams struct {
	fx.In

	CharacterRepo repository.CharacterRepository
	Logger        *slog.Logger
}

// NewCharacterService is the constructor for characterService.
func NewCharacterService(params CharacterServiceParams) usecase.CharacterUsecase {
	return &characterService{
		characterRepo: params.CharacterRepo,
		logger:        params.Logger,
	}
}

func (srv *characterService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateCharacter persists a new character for the owner.
func (srv *characterService) CreateCharacter(ctx context.Context, input *usecase.CreateCharacterInput) (*entity.Character, error) {
	character := &entity.Character{
		OwnerID:      input.OwnerID,
		Name:         input.Name,
		Description:  input.Description,
		AvatarURL:    input.AvatarURL,
		SystemPrompt: input.SystemPrompt,
	}

	if err := srv.characterRepo.Create(ctx, character); err != nil {
		srv.log(ctx).Error("Failed to create character", slog.Any("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create character")
	}
	srv.log(ctx).Debug("Character created", slog.Any("characterID", character.ID))

	return character, nil
}

// GetCharacter loads a character the owner can see. A character belonging to
// someone else is reported as not found, not forbidden, so IDs stay
// unenumerable.
func (srv *characterService) GetCharacter(ctx context.Context, ownerID, characterID uuid.UUID) (*entity.Character, error) {
	return srv.loadOwned(ctx, ownerID, characterID)
}

// ListCharacters returns the owner's characters, newest first.
func (srv *characterService) ListCharacters(ctx context.Context, ownerID uuid.UUID) ([]*entity.Character, error) {
	characters, err := srv.characterRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		srv.log(ctx).Error("Failed to list characters", slog.Any("ownerID", ownerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list characters")
	}

	return characters, nil
}

// UpdateCharacter applies a partial update to an owned character.
func (srv *characterService) UpdateCharacter(ctx context.Context, input *usecase.UpdateCharacterInput) (*entity.Character, error) {
	character, err := srv.loadOwned(ctx, input.OwnerID, input.CharacterID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		character.Name = *input.Name
	}
	if input.Description != nil {
		character.Description = *input.Description
	}
	if input.AvatarURL != nil {
		character.AvatarURL = *input.AvatarURL
	}
	if input.SystemPrompt != nil {
		character.SystemPrompt = *input.SystemPrompt
	}

	if err := srv.characterRepo.Update(ctx, character); err != nil {
		srv.log(ctx).Error("Failed to update character", slog.Any("characterID", character.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update character")
	}
	srv.log(ctx).Debug("Character updated", slog.Any("characterID", character.ID))

	return character, nil
}

// DeleteCharacter removes an owned character.
func (srv *characterService) DeleteCharacter(ctx context.Context, ownerID, characterID uuid.UUID) error {
	if _, err := srv.loadOwned(ctx, ownerID, characterID); err != nil {
		return err
	}

	if err := srv.characterRepo.Delete(ctx, characterID); err != nil {
		srv.log(ctx).Error("Failed to delete character", slog.Any("characterID", characterID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete character")
	}
	srv.log(ctx).Debug("Character deleted", slog.Any("characterID", characterID))

	return nil
}

// loadOwned fetches the character and enforces ownership.
func (srv *characterService) loadOwned(ctx context.Context, ownerID, characterID uuid.UUID) (*entity.Character, error) {
	character, err := srv.characterRepo.FindByID(ctx, characterID)
	if err != nil {
		if errors.Is(err, repository.ErrCharacterNotFound) {
			return nil, domainerrors.ErrCharacterNotFound.WrapMessage("character not found")
		}

		return nil, errors.Wrap(err, "failed to find character")
	}
	if character.OwnerID != ownerID {
		return nil, domainerrors.ErrCharacterNotFound.WrapMessage("character not found")
	}

	return character, nil
}
