package entity

import (
	"time"

	"github.com/google/uuid"
)

// Character is a user-owned companion persona. SystemPrompt seeds the text
// generator with the character's personality for every chat session that
// references it.
type Character struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
