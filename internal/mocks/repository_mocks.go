// Package mocks provides testify doubles for the domain interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"companion/internal/domain/entity"
	"companion/internal/domain/repository"
)

// UserRepository mocks repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

// CharacterRepository mocks repository.CharacterRepository.
type CharacterRepository struct {
	mock.Mock
}

func (m *CharacterRepository) Create(ctx context.Context, character *entity.Character) error {
	return m.Called(ctx, character).Error(0)
}

func (m *CharacterRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Character, error) {
	args := m.Called(ctx, id)
	if character, ok := args.Get(0).(*entity.Character); ok {
		return character, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CharacterRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Character, error) {
	args := m.Called(ctx, ownerID)
	if characters, ok := args.Get(0).([]*entity.Character); ok {
		return characters, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CharacterRepository) Update(ctx context.Context, character *entity.Character) error {
	return m.Called(ctx, character).Error(0)
}

func (m *CharacterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// ChatRepository mocks repository.ChatRepository.
type ChatRepository struct {
	mock.Mock
}

func (m *ChatRepository) CreateSession(ctx context.Context, session *entity.ChatSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *ChatRepository) FindSessionByID(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	args := m.Called(ctx, id)
	if session, ok := args.Get(0).(*entity.ChatSession); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ChatRepository) ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ChatSession, error) {
	args := m.Called(ctx, userID)
	if sessions, ok := args.Get(0).([]*entity.ChatSession); ok {
		return sessions, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ChatRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ChatRepository) AppendMessage(ctx context.Context, message *entity.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *ChatRepository) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]*entity.Message, error) {
	args := m.Called(ctx, sessionID)
	if messages, ok := args.Get(0).([]*entity.Message); ok {
		return messages, args.Error(1)
	}

	return nil, args.Error(1)
}

// TransactionManager mocks repository.TransactionManager. By default Execute
// runs the given function against the supplied factory, mirroring a committed
// transaction.
type TransactionManager struct {
	mock.Mock
	Factory repository.RepositoryFactory
}

func (m *TransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}

	return fn(m.Factory)
}

// RepositoryFactory mocks repository.RepositoryFactory, handing back fixed
// repository doubles.
type RepositoryFactory struct {
	Users      repository.UserRepository
	Characters repository.CharacterRepository
	Chats      repository.ChatRepository
}

func (f *RepositoryFactory) UserRepo() repository.UserRepository {
	return f.Users
}

func (f *RepositoryFactory) CharacterRepo() repository.CharacterRepository {
	return f.Characters
}

func (f *RepositoryFactory) ChatRepo() repository.ChatRepository {
	return f.Chats
}
