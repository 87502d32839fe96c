package impl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "companion/internal/delivery/context"
	"companion/internal/domain/entity"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/repository"
	"companion/internal/domain/service"
	"companion/internal/infra/metrics"
	"companion/internal/usecase"
)

// chatService implements the ChatUsecase interface.
type chatService struct {
	chatRepo      repository.ChatRepository
	characterRepo repository.CharacterRepository
	generator     service.TextGenerator
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// ChatServiceParams holds dependencies for chatService, injected by Fx.
type ChatServiceParams struct {
	fx.In

	ChatRepo      repository.ChatRepository
	CharacterRepo repository.CharacterRepository
	Generator     service.TextGenerator
	Metrics       *metrics.Metrics `optional:"true"`
	Logger        *slog.Logger
}

// NewChatService is the constructor for chatService.
func NewChatService(params ChatServiceParams) usecase.ChatUsecase {
	return &chatService{
		chatRepo:      params.ChatRepo,
		characterRepo: params.CharacterRepo,
		generator:     params.Generator,
		metrics:       params.Metrics,
		logger:        params.Logger,
	}
}

func (srv *chatService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateSession opens a chat session against one of the user's characters.
func (srv *chatService) CreateSession(ctx context.Context, input *usecase.CreateSessionInput) (*entity.ChatSession, error) {
	character, err := srv.characterRepo.FindByID(ctx, input.CharacterID)
	if err != nil {
		if errors.Is(err, repository.ErrCharacterNotFound) {
			return nil, domainerrors.ErrCharacterNotFound.WrapMessage("character not found")
		}

		return nil, errors.Wrap(err, "failed to find character for session")
	}
	if character.OwnerID != input.UserID {
		return nil, domainerrors.ErrCharacterNotFound.WrapMessage("character not found")
	}

	session := &entity.ChatSession{
		UserID:      input.UserID,
		CharacterID: input.CharacterID,
		Title:       input.Title,
	}
	if session.Title == "" {
		session.Title = "New Chat"
	}

	if err := srv.chatRepo.CreateSession(ctx, session); err != nil {
		srv.log(ctx).Error("Failed to create chat session", slog.Any("userID", input.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create chat session")
	}
	srv.log(ctx).Debug("Chat session created", slog.Any("sessionID", session.ID))

	return session, nil
}

// GetSession loads a session with its messages in chronological order.
func (srv *chatService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*entity.ChatSession, error) {
	session, err := srv.loadOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := srv.chatRepo.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list session messages")
	}
	session.Messages = messages

	return session, nil
}

// ListSessions returns the user's sessions, newest first.
func (srv *chatService) ListSessions(ctx context.Context, userID uuid.UUID) ([]*entity.ChatSession, error) {
	sessions, err := srv.chatRepo.ListSessionsByUser(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to list chat sessions", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list chat sessions")
	}

	return sessions, nil
}

// DeleteSession removes a session and its messages.
func (srv *chatService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	if _, err := srv.loadOwnedSession(ctx, userID, sessionID); err != nil {
		return err
	}

	if err := srv.chatRepo.DeleteSession(ctx, sessionID); err != nil {
		srv.log(ctx).Error("Failed to delete chat session", slog.Any("sessionID", sessionID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete chat session")
	}
	srv.log(ctx).Debug("Chat session deleted", slog.Any("sessionID", sessionID))

	return nil
}

// SendMessage persists the inbound user message, streams the reply through
// onChunk, and persists the accumulated reply. The user message is stored
// even when generation later fails, so the transcript reflects what the user
// actually sent.
func (srv *chatService) SendMessage(ctx context.Context, input *usecase.SendMessageInput, onChunk func(chunk string) error) (*usecase.SendMessageOutput, error) {
	session, err := srv.loadOwnedSession(ctx, input.UserID, input.SessionID)
	if err != nil {
		return nil, err
	}

	systemPrompt := srv.resolveSystemPrompt(ctx, session.CharacterID)

	userMessage := &entity.Message{
		SessionID: session.ID,
		Role:      entity.RoleUser,
		Content:   input.Content,
	}
	if err := srv.chatRepo.AppendMessage(ctx, userMessage); err != nil {
		srv.log(ctx).Error("Failed to persist user message", slog.Any("sessionID", session.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to persist user message")
	}
	srv.metrics.ObserveChatMessage(string(entity.RoleUser))

	reply, err := srv.generator.Stream(ctx, service.TextPrompt{
		SystemPrompt: systemPrompt,
		UserMessage:  input.Content,
	}, onChunk)
	if err != nil {
		srv.metrics.ObserveUpstreamFailure("text")
		srv.log(ctx).Error("Text generation failed", slog.Any("sessionID", session.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "text generation failed")
	}

	aiMessage := &entity.Message{
		SessionID: session.ID,
		Role:      entity.RoleAI,
		Content:   reply,
	}
	if err := srv.chatRepo.AppendMessage(ctx, aiMessage); err != nil {
		srv.log(ctx).Error("Failed to persist reply", slog.Any("sessionID", session.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to persist reply")
	}
	srv.metrics.ObserveChatMessage(string(entity.RoleAI))

	return &usecase.SendMessageOutput{Reply: aiMessage}, nil
}

// resolveSystemPrompt fetches the character's system prompt. A failed lookup
// degrades to an empty prompt rather than failing the whole exchange.
func (srv *chatService) resolveSystemPrompt(ctx context.Context, characterID uuid.UUID) string {
	character, err := srv.characterRepo.FindByID(ctx, characterID)
	if err != nil {
		srv.log(ctx).Warn("Session character unavailable, using empty system prompt", slog.Any("characterID", characterID), slog.Any("error", err))

		return ""
	}

	return character.SystemPrompt
}

// loadOwnedSession fetches the session and enforces ownership, reporting a
// foreign session as not found.
func (srv *chatService) loadOwnedSession(ctx context.Context, userID, sessionID uuid.UUID) (*entity.ChatSession, error) {
	session, err := srv.chatRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrChatSessionNotFound) {
			return nil, domainerrors.ErrChatSessionNotFound.WrapMessage("chat session not found")
		}

		return nil, errors.Wrap(err, "failed to find chat session")
	}
	if session.UserID != userID {
		return nil, domainerrors.ErrChatSessionNotFound.WrapMessage("chat session not found")
	}

	return session, nil
}
