package postgres

import (
	"context"

	"companion/internal/domain/entity"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/repository"
	"companion/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// characterRepository implements the repository.CharacterRepository interface using GORM.
type characterRepository struct {
	db *gorm.DB
}

// NewCharacterRepository is the constructor for characterRepository.
func NewCharacterRepository(db *gorm.DB) repository.CharacterRepository {
	return &characterRepository{db: db}
}

// Create persists a new character.
func (repo *characterRepository) Create(ctx context.Context, character *entity.Character) error {
	characterM := fromCharacterDomain(character)

	if err := repo.db.WithContext(ctx).Create(characterM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("character owner does not exist")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required character fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create character")
	}

	character.ID = characterM.ID
	character.CreatedAt = characterM.CreatedAt
	character.UpdatedAt = characterM.UpdatedAt

	return nil
}

// FindByID retrieves a single character by its unique ID.
func (repo *characterRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Character, error) {
	var characterM model.CharacterModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&characterM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCharacterNotFound
		}

		return nil, errors.Wrap(err, "failed to find character by id")
	}

	return toCharacterDomain(&characterM), nil
}

// ListByOwner returns all characters owned by the given user, newest first.
func (repo *characterRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Character, error) {
	var characterModels []model.CharacterModel
	err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&characterModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters by owner")
	}

	characters := make([]*entity.Character, 0, len(characterModels))
	for i := range characterModels {
		characters = append(characters, toCharacterDomain(&characterModels[i]))
	}

	return characters, nil
}

// Update modifies an existing character.
func (repo *characterRepository) Update(ctx context.Context, character *entity.Character) error {
	characterM := fromCharacterDomain(character)

	result := repo.db.WithContext(ctx).
		Model(&model.CharacterModel{}).
		Where("id = ?", character.ID).
		Updates(map[string]any{
			"name":          characterM.Name,
			"description":   characterM.Description,
			"avatar_url":    characterM.AvatarURL,
			"system_prompt": characterM.SystemPrompt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update character")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCharacterNotFound
	}

	return nil
}

// Delete removes a character by its ID.
func (repo *characterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CharacterModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete character")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCharacterNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toCharacterDomain(data *model.CharacterModel) *entity.Character {
	if data == nil {
		return nil
	}

	return &entity.Character{
		ID:           data.ID,
		OwnerID:      data.OwnerID,
		Name:         data.Name,
		Description:  data.Description,
		AvatarURL:    data.AvatarURL,
		SystemPrompt: data.SystemPrompt,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromCharacterDomain(data *entity.Character) *model.CharacterModel {
	if data == nil {
		return nil
	}

	return &model.CharacterModel{
		ID:           data.ID,
		OwnerID:      data.OwnerID,
		Name:         data.Name,
		Description:  data.Description,
		AvatarURL:    data.AvatarURL,
		SystemPrompt: data.SystemPrompt,
	}
}
