package repository

import (
	"context"
	"errors"

	"companion/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCharacterNotFound is returned when a character does not exist.
var ErrCharacterNotFound = errors.New("character not found")

// CharacterRepository defines the standard operations for character persistence.
type CharacterRepository interface {
	// Create persists a new character.
	Create(ctx context.Context, character *entity.Character) error

	// FindByID retrieves a single character by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Character, error)

	// ListByOwner returns all characters owned by the given user.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Character, error)

	// Update modifies an existing character.
	Update(ctx context.Context, character *entity.Character) error

	// Delete removes a character by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
