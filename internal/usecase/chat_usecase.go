package usecase

import (
	"context"

	"github.com/google/uuid"

	"companion/internal/domain/entity"
)

// CreateSessionInput defines the data required to open a chat session.
type CreateSessionInput struct {
	UserID      uuid.UUID
	CharacterID uuid.UUID
	Title       string
}

// SendMessageInput carries one inbound user message for a session.
type SendMessageInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Content   string
}

// SendMessageOutput returns the persisted reply after streaming completes.
type SendMessageOutput struct {
	Reply *entity.Message
}

// ChatUsecase defines chat session and messaging operations. SendMessage
// persists the user message, streams the generated reply chunk-by-chunk
// through onChunk, and persists the accumulated reply before returning.
type ChatUsecase interface {
	CreateSession(ctx context.Context, input *CreateSessionInput) (*entity.ChatSession, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*entity.ChatSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID) ([]*entity.ChatSession, error)
	DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error
	SendMessage(ctx context.Context, input *SendMessageInput, onChunk func(chunk string) error) (*SendMessageOutput, error)
}
