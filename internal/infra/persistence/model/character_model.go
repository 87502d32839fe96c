package model

import (
	"time"

	"github.com/google/uuid"
)

// CharacterModel mirrors the 'characters' table.
type CharacterModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Description  string    `gorm:"type:text"`
	AvatarURL    string    `gorm:"type:varchar(512)"`
	SystemPrompt string    `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	ChatSessions []ChatSessionModel `gorm:"foreignKey:CharacterID"`
}

// TableName explicitly sets the table name for GORM.
func (CharacterModel) TableName() string {
	return "characters"
}
