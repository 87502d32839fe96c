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

// chatRepository implements the repository.ChatRepository interface using GORM.
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository is the constructor for chatRepository.
func NewChatRepository(db *gorm.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

// CreateSession persists a new chat session.
func (repo *chatRepository) CreateSession(ctx context.Context, session *entity.ChatSession) error {
	sessionM := fromChatSessionDomain(session)

	if err := repo.db.WithContext(ctx).Create(sessionM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrNotFound.WrapMessage("session user or character does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create chat session")
	}

	session.ID = sessionM.ID
	session.CreatedAt = sessionM.CreatedAt

	return nil
}

// FindSessionByID retrieves a session by its ID, without messages.
func (repo *chatRepository) FindSessionByID(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	var sessionM model.ChatSessionModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&sessionM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrChatSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find chat session by id")
	}

	return toChatSessionDomain(&sessionM), nil
}

// ListSessionsByUser returns all sessions belonging to the given user, newest first.
func (repo *chatRepository) ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ChatSession, error) {
	var sessionModels []model.ChatSessionModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessionModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chat sessions by user")
	}

	sessions := make([]*entity.ChatSession, 0, len(sessionModels))
	for i := range sessionModels {
		sessions = append(sessions, toChatSessionDomain(&sessionModels[i]))
	}

	return sessions, nil
}

// DeleteSession removes a session; its messages cascade at the schema level.
func (repo *chatRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ChatSessionModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete chat session")
	}
	if result.RowsAffected == 0 {
		return repository.ErrChatSessionNotFound
	}

	return nil
}

// AppendMessage persists a message within a session.
func (repo *chatRepository) AppendMessage(ctx context.Context, message *entity.Message) error {
	messageM := fromMessageDomain(message)

	if err := repo.db.WithContext(ctx).Create(messageM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrChatSessionNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to append message")
	}

	message.ID = messageM.ID
	message.CreatedAt = messageM.CreatedAt

	return nil
}

// ListMessages returns a session's messages in chronological order.
func (repo *chatRepository) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]*entity.Message, error) {
	var messageModels []model.MessageModel
	err := repo.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messageModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}

	messages := make([]*entity.Message, 0, len(messageModels))
	for i := range messageModels {
		messages = append(messages, toMessageDomain(&messageModels[i]))
	}

	return messages, nil
}

// --- Mapper Functions ---

func toChatSessionDomain(data *model.ChatSessionModel) *entity.ChatSession {
	if data == nil {
		return nil
	}

	return &entity.ChatSession{
		ID:          data.ID,
		UserID:      data.UserID,
		CharacterID: data.CharacterID,
		Title:       data.Title,
		CreatedAt:   data.CreatedAt,
	}
}

func fromChatSessionDomain(data *entity.ChatSession) *model.ChatSessionModel {
	if data == nil {
		return nil
	}

	return &model.ChatSessionModel{
		ID:          data.ID,
		UserID:      data.UserID,
		CharacterID: data.CharacterID,
		Title:       data.Title,
	}
}

func toMessageDomain(data *model.MessageModel) *entity.Message {
	if data == nil {
		return nil
	}

	return &entity.Message{
		ID:        data.ID,
		SessionID: data.SessionID,
		Role:      data.Role,
		Content:   data.Content,
		CreatedAt: data.CreatedAt,
	}
}

func fromMessageDomain(data *entity.Message) *model.MessageModel {
	if data == nil {
		return nil
	}

	return &model.MessageModel{
		ID:        data.ID,
		SessionID: data.SessionID,
		Role:      data.Role,
		Content:   data.Content,
	}
}
