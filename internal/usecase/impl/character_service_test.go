package impl

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"companion/internal/domain/entity"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/repository"
	"companion/internal/errors"
	"companion/internal/mocks"
	"companion/internal/usecase"
)

type characterServiceFixtures struct {
	service       usecase.CharacterUsecase
	characterRepo *mocks.CharacterRepository
}

func createTestCharacterService(t *testing.T) characterServiceFixtures {
	t.Helper()

	characterRepo := new(mocks.CharacterRepository)
	svc := NewCharacterService(CharacterServiceParams{
		CharacterRepo: characterRepo,
		Logger:        slog.New(slog.DiscardHandler),
	})

	return characterServiceFixtures{service: svc, characterRepo: characterRepo}
}

func TestCharacterService_CreateCharacter(t *testing.T) {
	fx := createTestCharacterService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	fx.characterRepo.On("Create", ctx, mock.AnythingOfType("*entity.Character")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Character).ID = uuid.New()
		}).
		Return(nil)

	character, err := fx.service.CreateCharacter(ctx, &usecase.CreateCharacterInput{
		OwnerID:      ownerID,
		Name:         "Luna",
		SystemPrompt: "You are Luna, a thoughtful companion.",
	})

	require.NoError(t, err)
	assert.Equal(t, ownerID, character.OwnerID)
	assert.Equal(t, "Luna", character.Name)
	assert.NotEqual(t, uuid.Nil, character.ID)
}

func TestCharacterService_GetCharacter_ForeignOwnerReportsNotFound(t *testing.T) {
	fx := createTestCharacterService(t)
	ctx := context.Background()
	characterID := uuid.New()

	fx.characterRepo.On("FindByID", ctx, characterID).
		Return(&entity.Character{ID: characterID, OwnerID: uuid.New()}, nil)

	_, err := fx.service.GetCharacter(ctx, uuid.New(), characterID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrCharacterNotFound))
}

func TestCharacterService_GetCharacter_Missing(t *testing.T) {
	fx := createTestCharacterService(t)
	ctx := context.Background()
	characterID := uuid.New()

	fx.characterRepo.On("FindByID", ctx, characterID).Return(nil, repository.ErrCharacterNotFound)

	_, err := fx.service.GetCharacter(ctx, uuid.New(), characterID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrCharacterNotFound))
}

func TestCharacterService_UpdateCharacter_PartialUpdate(t *testing.T) {
	fx := createTestCharacterService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	characterID := uuid.New()

	fx.characterRepo.On("FindByID", ctx, characterID).Return(&entity.Character{
		ID:           characterID,
		OwnerID:      ownerID,
		Name:         "Luna",
		Description:  "original description",
		SystemPrompt: "original prompt",
	}, nil)
	fx.characterRepo.On("Update", ctx, mock.AnythingOfType("*entity.Character")).Return(nil)

	newName := "Stella"
	character, err := fx.service.UpdateCharacter(ctx, &usecase.UpdateCharacterInput{
		OwnerID:     ownerID,
		CharacterID: characterID,
		Name:        &newName,
	})

	require.NoError(t, err)
	assert.Equal(t, "Stella", character.Name)
	// Fields not present in the input stay untouched.
	assert.Equal(t, "original description", character.Description)
	assert.Equal(t, "original prompt", character.SystemPrompt)
}

func TestCharacterService_DeleteCharacter_ChecksOwnershipFirst(t *testing.T) {
	fx := createTestCharacterService(t)
	ctx := context.Background()
	characterID := uuid.New()

	fx.characterRepo.On("FindByID", ctx, characterID).
		Return(&entity.Character{ID: characterID, OwnerID: uuid.New()}, nil)

	err := fx.service.DeleteCharacter(ctx, uuid.New(), characterID)

	require.Error(t, err)
	fx.characterRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCharacterService_ListCharacters(t *testing.T) {
	fx := createTestCharacterService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	fx.characterRepo.On("ListByOwner", ctx, ownerID).Return([]*entity.Character{
		{ID: uuid.New(), OwnerID: ownerID, Name: "Luna"},
		{ID: uuid.New(), OwnerID: ownerID, Name: "Stella"},
	}, nil)

	characters, err := fx.service.ListCharacters(ctx, ownerID)

	require.NoError(t, err)
	assert.Len(t, characters, 2)
}
