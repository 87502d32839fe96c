package usecase

import (
	"context"

	"github.com/google/uuid"

	"companion/internal/domain/entity"
)

// CreateCharacterInput defines the data required to create a character.
type CreateCharacterInput struct {
	OwnerID      uuid.UUID
	Name         string
	Description  string
	AvatarURL    string
	SystemPrompt string
}

// UpdateCharacterInput carries a partial character update. Nil fields are
// left unchanged.
type UpdateCharacterInput struct {
	OwnerID      uuid.UUID
	CharacterID  uuid.UUID
	Name         *string
	Description  *string
	AvatarURL    *string
	SystemPrompt *string
}

// CharacterUsecase defines character profile operations. Every operation is
// scoped to the owning user; touching another user's character yields
// not-found rather than forbidden so character IDs are not enumerable.
type CharacterUsecase interface {
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*entity.Character, error)
	GetCharacter(ctx context.Context, ownerID, characterID uuid.UUID) (*entity.Character, error)
	ListCharacters(ctx context.Context, ownerID uuid.UUID) ([]*entity.Character, error)
	UpdateCharacter(ctx context.Context, input *UpdateCharacterInput) (*entity.Character, error)
	DeleteCharacter(ctx context.Context, ownerID, characterID uuid.UUID) error
}
