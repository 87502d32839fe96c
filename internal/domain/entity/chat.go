package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message roles. The upstream generator only ever produces RoleAI messages;
// everything received over the chat socket is RoleUser.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// ChatSession ties a user to a character for an ongoing conversation.
type ChatSession struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	CharacterID uuid.UUID  `json:"character_id"`
	Title       string     `json:"title"`
	CreatedAt   time.Time  `json:"created_at"`
	Messages    []*Message `json:"messages,omitempty"`
}

// Message is a single utterance within a chat session.
type Message struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
