package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"companion/internal/domain/entity"
	"companion/internal/domain/service"
	"companion/internal/usecase"
)

// AuthUsecase mocks usecase.AuthUsecase.
type AuthUsecase struct {
	mock.Mock
}

func (m *AuthUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	args := m.Called(ctx, input)
	if out, ok := args.Get(0).(*usecase.RegisterOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AuthUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.TokenPairOutput, error) {
	args := m.Called(ctx, input)
	if out, ok := args.Get(0).(*usecase.TokenPairOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AuthUsecase) Refresh(ctx context.Context, input *usecase.RefreshInput) (*usecase.TokenPairOutput, error) {
	args := m.Called(ctx, input)
	if out, ok := args.Get(0).(*usecase.TokenPairOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

// CharacterUsecase mocks usecase.CharacterUsecase.
type CharacterUsecase struct {
	mock.Mock
}

func (m *CharacterUsecase) CreateCharacter(ctx context.Context, input *usecase.CreateCharacterInput) (*entity.Character, error) {
	args := m.Called(ctx, input)
	if character, ok := args.Get(0).(*entity.Character); ok {
		return character, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CharacterUsecase) GetCharacter(ctx context.Context, ownerID, characterID uuid.UUID) (*entity.Character, error) {
	args := m.Called(ctx, ownerID, characterID)
	if character, ok := args.Get(0).(*entity.Character); ok {
		return character, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CharacterUsecase) ListCharacters(ctx context.Context, ownerID uuid.UUID) ([]*entity.Character, error) {
	args := m.Called(ctx, ownerID)
	if characters, ok := args.Get(0).([]*entity.Character); ok {
		return characters, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CharacterUsecase) UpdateCharacter(ctx context.Context, input *usecase.UpdateCharacterInput) (*entity.Character, error) {
	args := m.Called(ctx, input)
	if character, ok := args.Get(0).(*entity.Character); ok {
		return character, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CharacterUsecase) DeleteCharacter(ctx context.Context, ownerID, characterID uuid.UUID) error {
	return m.Called(ctx, ownerID, characterID).Error(0)
}

// ChatUsecase mocks usecase.ChatUsecase.
type ChatUsecase struct {
	mock.Mock
	Chunks []string
}

func (m *ChatUsecase) CreateSession(ctx context.Context, input *usecase.CreateSessionInput) (*entity.ChatSession, error) {
	args := m.Called(ctx, input)
	if session, ok := args.Get(0).(*entity.ChatSession); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ChatUsecase) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*entity.ChatSession, error) {
	args := m.Called(ctx, userID, sessionID)
	if session, ok := args.Get(0).(*entity.ChatSession); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ChatUsecase) ListSessions(ctx context.Context, userID uuid.UUID) ([]*entity.ChatSession, error) {
	args := m.Called(ctx, userID)
	if sessions, ok := args.Get(0).([]*entity.ChatSession); ok {
		return sessions, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ChatUsecase) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	return m.Called(ctx, userID, sessionID).Error(0)
}

func (m *ChatUsecase) SendMessage(ctx context.Context, input *usecase.SendMessageInput, onChunk func(chunk string) error) (*usecase.SendMessageOutput, error) {
	args := m.Called(ctx, input, onChunk)
	for _, chunk := range m.Chunks {
		if err := onChunk(chunk); err != nil {
			return nil, err
		}
	}
	if out, ok := args.Get(0).(*usecase.SendMessageOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

// ImageGenUsecase mocks usecase.ImageGenUsecase.
type ImageGenUsecase struct {
	mock.Mock
}

func (m *ImageGenUsecase) GenerateImage(ctx context.Context, req *service.Txt2ImgRequest) (*service.Txt2ImgResult, error) {
	args := m.Called(ctx, req)
	if result, ok := args.Get(0).(*service.Txt2ImgResult); ok {
		return result, args.Error(1)
	}

	return nil, args.Error(1)
}
