package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/solos-dev/solos/internal/crypto"
	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/service"
	"github.com/solos-dev/solos/internal/server/storage"
	"github.com/solos-dev/solos/pkg/api"
)

// MaxChatMessageLen ограничивает длину одного сообщения
const MaxChatMessageLen = 4000

// Responder генерирует ответ ассистента на сообщение пользователя.
// Хранение истории от генерации отделено: история шифруется и
// сохраняется независимо от того, кто отвечает.
type Responder interface {
	Reply(ctx context.Context, message string) (string, error)
}

// CannedResponder отвечает по ключевым словам без внешних вызовов.
// Используется, пока не подключен настоящий LLM backend.
type CannedResponder struct{}

// Reply возвращает заготовленный ответ по содержимому сообщения
func (CannedResponder) Reply(_ context.Context, message string) (string, error) {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "task"):
		return "I can help you organize your tasks. What would you like to work on first?", nil
	case strings.Contains(lower, "focus"):
		return "A short focused session works well. Try 25 minutes on a single task.", nil
	case strings.Contains(lower, "tired"), strings.Contains(lower, "energy"):
		return "Low energy is a signal worth listening to. Consider a short break before your next block.", nil
	default:
		return "I'm here to help you plan your day. Tell me about your tasks or how you're feeling.", nil
	}
}

// ChatHandler обрабатывает диалог с ассистентом.
// Сообщение и ответ шифруются производным ключом пользователя
// до записи: история читаема только через API владельца.
type ChatHandler struct {
	logger        *slog.Logger
	conversations storage.ConversationStorage
	users         storage.UserStorage
	fields        *service.FieldCrypto
	responder     Responder
}

// NewChatHandler создает новый handler для чата
func NewChatHandler(logger *slog.Logger, conversations storage.ConversationStorage, users storage.UserStorage, fields *service.FieldCrypto, responder Responder) *ChatHandler {
	return &ChatHandler{
		logger:        logger,
		conversations: conversations,
		users:         users,
		fields:        fields,
		responder:     responder,
	}
}

// Send обрабатывает POST /api/v1/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		sendError(h.logger, w, "message is required", http.StatusBadRequest)
		return
	}
	if len(req.Message) > MaxChatMessageLen {
		sendError(h.logger, w, "message is too long", http.StatusBadRequest)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	reply, err := h.responder.Reply(ctx, req.Message)
	if err != nil {
		h.logger.ErrorContext(ctx, "responder failed", slog.Any("error", err))
		sendError(h.logger, w, "assistant is unavailable", http.StatusServiceUnavailable)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	conv := &models.Conversation{
		ID:         uuid.New().String(),
		UserID:     userID,
		SessionID:  sessionID,
		KeyVersion: user.KeyVersion,
		CreatedAt:  time.Now(),
	}
	if conv.MessageCiphertext, err = h.fields.Encrypt(user, req.Message); err != nil {
		h.logger.ErrorContext(ctx, "failed to encrypt message", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if conv.ResponseCiphertext, err = h.fields.Encrypt(user, reply); err != nil {
		h.logger.ErrorContext(ctx, "failed to encrypt response", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.conversations.CreateConversation(ctx, conv); err != nil {
		h.logger.ErrorContext(ctx, "failed to save conversation", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ChatResponse{
		SessionID: sessionID,
		Response:  reply,
		CreatedAt: conv.CreatedAt,
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// History обрабатывает GET /api/v1/chat/{session_id}
// Записи, не прошедшие проверку целостности, пропускаются:
// одна поврежденная пара не лишает доступа к остальной истории.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	sessionID := r.PathValue("session_id")
	if sessionID == "" {
		sendError(h.logger, w, "session_id is required", http.StatusBadRequest)
		return
	}

	convs, err := h.conversations.GetSessionConversations(ctx, userID, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get conversations", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ChatHistoryResponse{
		SessionID: sessionID,
		Messages:  make([]api.ChatMessage, 0, len(convs)),
	}
	for _, conv := range convs {
		message, err := h.fields.Decrypt(user, conv.MessageCiphertext)
		if err != nil {
			h.logChatDecryptFailure(ctx, conv.ID, err)
			continue
		}
		response, err := h.fields.Decrypt(user, conv.ResponseCiphertext)
		if err != nil {
			h.logChatDecryptFailure(ctx, conv.ID, err)
			continue
		}
		resp.Messages = append(resp.Messages, api.ChatMessage{
			ID:        conv.ID,
			Message:   message,
			Response:  response,
			CreatedAt: conv.CreatedAt,
		})
	}
	resp.Total = len(resp.Messages)

	sendJSON(h.logger, w, resp, http.StatusOK)
}

func (h *ChatHandler) logChatDecryptFailure(ctx context.Context, convID string, err error) {
	if errors.Is(err, crypto.ErrIntegrity) {
		h.logger.WarnContext(ctx, "skipping corrupt conversation",
			slog.String("conversation_id", convID))
		return
	}
	h.logger.ErrorContext(ctx, "failed to decrypt conversation",
		slog.String("conversation_id", convID), slog.Any("error", err))
}
