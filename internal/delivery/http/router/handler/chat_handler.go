package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"companion/internal/delivery/http/middleware"
	"companion/internal/delivery/http/response"
	"companion/internal/domain/entity"
	"companion/internal/usecase"
)

// Websocket frame types sent to the client during streaming.
const (
	frameChunk = "chunk"
	frameDone  = "done"
	frameError = "error"
)

// ChatHandler holds dependencies for chat session and streaming endpoints.
type ChatHandler struct {
	uc       usecase.ChatUsecase
	authMW   *middleware.AuthMiddleware
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewChatHandler is the constructor for ChatHandler, injected by Fx.
func NewChatHandler(uc usecase.ChatUsecase, authMW *middleware.AuthMiddleware, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		uc:     uc,
		authMW: authMW,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Origin enforcement happens at the CORS layer; the websocket
			// endpoint authenticates by token instead.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

type createSessionRequest struct {
	CharacterID uuid.UUID `json:"character_id" validate:"required"`
	Title       string    `json:"title" validate:"max=200"`
}

// streamFrame is one websocket message sent to the client.
type streamFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// CreateSession opens a chat session against one of the user's characters.
func (h *ChatHandler) CreateSession(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	var input createSessionRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid session input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	session, err := h.uc.CreateSession(c.Request().Context(), &usecase.CreateSessionInput{
		UserID:      user.ID,
		CharacterID: input.CharacterID,
		Title:       input.Title,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, session, "Chat session created successfully")
}

// ListSessions returns the user's chat sessions.
func (h *ChatHandler) ListSessions(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	sessions, err := h.uc.ListSessions(c.Request().Context(), user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessions, "")
}

// GetSession returns one session with its full transcript.
func (h *ChatHandler) GetSession(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	sessionID, err := parsePathID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	session, err := h.uc.GetSession(c.Request().Context(), user.ID, sessionID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, session, "")
}

// DeleteSession removes a session and its messages.
func (h *ChatHandler) DeleteSession(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return errors.WithStack(err)
	}

	sessionID, err := parsePathID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeleteSession(c.Request().Context(), user.ID, sessionID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Stream is the websocket chat endpoint. Browsers cannot set headers on
// websocket requests, so the access token and session id arrive as query
// parameters. Each inbound text frame becomes a user message; the reply is
// streamed back chunk-by-chunk and persisted when complete.
func (h *ChatHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Wrap(err, "websocket upgrade failed")
	}
	defer conn.Close()

	ctx := c.Request().Context()

	user, err := h.authMW.ResolveAccessToken(ctx, c.QueryParam("token"))
	if err != nil {
		h.closeWithPolicyViolation(conn, "invalid or missing token")

		return nil
	}

	sessionID, err := uuid.Parse(c.QueryParam("session"))
	if err != nil {
		h.closeWithPolicyViolation(conn, "invalid or missing session")

		return nil
	}
	if _, err := h.uc.GetSession(ctx, user.ID, sessionID); err != nil {
		h.closeWithPolicyViolation(conn, "unknown session")

		return nil
	}

	h.serveSession(ctx, conn, user, sessionID)

	return nil
}

// serveSession runs the read loop until the client disconnects.
func (h *ChatHandler) serveSession(ctx context.Context, conn *websocket.Conn, user *entity.User, sessionID uuid.UUID) {
	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("Websocket closed unexpectedly", slog.Any("error", err))
			}

			return
		}
		if messageType != websocket.TextMessage || len(payload) == 0 {
			continue
		}

		output, err := h.uc.SendMessage(ctx, &usecase.SendMessageInput{
			UserID:    user.ID,
			SessionID: sessionID,
			Content:   string(payload),
		}, func(chunk string) error {
			return conn.WriteJSON(streamFrame{Type: frameChunk, Content: chunk})
		})
		if err != nil {
			h.logger.Error("Streamed exchange failed", slog.Any("sessionID", sessionID), slog.Any("error", err))
			_ = conn.WriteJSON(streamFrame{Type: frameError, Content: "generation failed"})

			continue
		}

		if err := conn.WriteJSON(streamFrame{Type: frameDone, Content: output.Reply.Content}); err != nil {
			return
		}
	}
}

// closeWithPolicyViolation sends a policy-violation close frame. The
// connection had to be upgraded first for the client to see the reason.
func (h *ChatHandler) closeWithPolicyViolation(conn *websocket.Conn, reason string) {
	_ = conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
	)
}
