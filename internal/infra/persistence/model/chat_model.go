package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatSessionModel mirrors the 'chat_sessions' table.
type ChatSessionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CharacterID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(200);default:'New Chat'"`
	CreatedAt   time.Time

	Messages []MessageModel `gorm:"foreignKey:SessionID"`
}

// TableName explicitly sets the table name for GORM.
func (ChatSessionModel) TableName() string {
	return "chat_sessions"
}

// MessageModel mirrors the 'messages' table. Role is 'user' or 'ai'.
type MessageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Role      string    `gorm:"type:varchar(50);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (MessageModel) TableName() string {
	return "messages"
}
