package repository

import (
	"context"
	"errors"

	"companion/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrChatSessionNotFound is returned when a chat session does not exist.
var ErrChatSessionNotFound = errors.New("chat session not found")

// ChatRepository defines the standard operations for chat persistence.
type ChatRepository interface {
	// CreateSession persists a new chat session.
	CreateSession(ctx context.Context, session *entity.ChatSession) error

	// FindSessionByID retrieves a session by its ID, without messages.
	FindSessionByID(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error)

	// ListSessionsByUser returns all sessions belonging to the given user.
	ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ChatSession, error)

	// DeleteSession removes a session and its messages.
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// AppendMessage persists a message within a session.
	AppendMessage(ctx context.Context, message *entity.Message) error

	// ListMessages returns a session's messages in chronological order.
	ListMessages(ctx context.Context, sessionID uuid.UUID) ([]*entity.Message, error)
}
