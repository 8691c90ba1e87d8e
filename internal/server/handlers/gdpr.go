package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/solos-dev/solos/internal/crypto"
	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/service"
	"github.com/solos-dev/solos/internal/server/storage"
	"github.com/solos-dev/solos/pkg/api"
)

// GDPRStorages объединяет хранилища, участвующие в выгрузке данных
type GDPRStorages struct {
	Users         storage.UserStorage
	Tasks         storage.TaskStorage
	Moods         storage.MoodStorage
	Journal       storage.JournalStorage
	Blocks        storage.TimeBlockStorage
	Focus         storage.FocusStorage
	Conversations storage.ConversationStorage
}

// GDPRHandler обрабатывает выгрузку и удаление данных пользователя.
// Выгрузка расшифровывает все поля: она предназначена владельцу данных.
// Записи с нарушенной целостностью пропускаются и считаются отдельно.
type GDPRHandler struct {
	logger   *slog.Logger
	storages GDPRStorages
	fields   *service.FieldCrypto
}

// NewGDPRHandler создает новый handler для GDPR операций
func NewGDPRHandler(logger *slog.Logger, storages GDPRStorages, fields *service.FieldCrypto) *GDPRHandler {
	return &GDPRHandler{
		logger:   logger,
		storages: storages,
		fields:   fields,
	}
}

// Export обрабатывает GET /api/v1/gdpr/export
func (h *GDPRHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	user, err := h.storages.Users.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ExportResponse{
		ExportedAt: time.Now(),
		User: api.UserExport{
			ID:        user.ID,
			Username:  user.Username,
			CreatedAt: user.CreatedAt,
			LastLogin: user.LastLogin,
		},
	}

	skipped := 0

	email, err := h.fields.Decrypt(user, user.EmailCiphertext)
	if err != nil {
		h.logDecryptFailure(ctx, "email", user.ID, err)
		skipped++
	} else {
		resp.User.Email = email
	}

	tasks, err := h.storages.Tasks.GetUserTasks(ctx, userID, "")
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export tasks", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	resp.Tasks = make([]api.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, taskToResponse(t))
	}

	moods, err := h.storages.Moods.GetUserMoodLogs(ctx, userID, time.Time{})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export mood logs", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	resp.MoodLogs = make([]api.MoodLogResponse, 0, len(moods))
	for _, m := range moods {
		item := api.MoodLogResponse{
			ID:          m.ID,
			MoodRating:  m.MoodRating,
			EnergyLevel: m.EnergyLevel,
			TimeOfDay:   m.TimeOfDay,
			InputMethod: m.InputMethod,
			LoggedAt:    m.LoggedAt,
		}
		if len(m.NotesCiphertext) > 0 {
			notes, err := h.fields.Decrypt(user, m.NotesCiphertext)
			if err != nil {
				h.logDecryptFailure(ctx, "mood notes", m.ID, err)
				skipped++
			} else {
				item.Notes = notes
			}
		}
		resp.MoodLogs = append(resp.MoodLogs, item)
	}

	entries, err := h.storages.Journal.GetUserJournalEntries(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export journal", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	resp.Journal = make([]api.JournalEntryResponse, 0, len(entries))
	for _, e := range entries {
		body, err := h.fields.Decrypt(user, e.BodyCiphertext)
		if err != nil {
			h.logDecryptFailure(ctx, "journal body", e.ID, err)
			skipped++
			continue
		}
		resp.Journal = append(resp.Journal, api.JournalEntryResponse{
			ID:        e.ID,
			Title:     e.Title,
			Body:      body,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		})
	}

	blocks, err := h.storages.Blocks.GetUserTimeBlocks(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export time blocks", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	resp.TimeBlocks = make([]api.TimeBlockResponse, 0, len(blocks))
	for _, b := range blocks {
		resp.TimeBlocks = append(resp.TimeBlocks, timeBlockToResponse(b))
	}

	sessions, err := h.storages.Focus.GetUserFocusSessions(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export focus sessions", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	resp.FocusSessions = make([]api.FocusSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp.FocusSessions = append(resp.FocusSessions, focusSessionToResponse(s))
	}

	convs, err := h.storages.Conversations.GetUserConversations(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export conversations", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	resp.Conversations = make([]api.ChatMessage, 0, len(convs))
	for _, conv := range convs {
		msg, err := h.decryptConversation(user, conv)
		if err != nil {
			h.logDecryptFailure(ctx, "conversation", conv.ID, err)
			skipped++
			continue
		}
		resp.Conversations = append(resp.Conversations, msg)
	}

	resp.SkippedItems = skipped

	h.logger.InfoContext(ctx, "data export completed",
		slog.String("user_id", userID),
		slog.Int("skipped_items", skipped))

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// DeleteAccount обрабатывает POST /api/v1/gdpr/delete
// Удаление каскадное: refresh tokens и все пользовательские данные
// уходят вместе с записью пользователя.
func (h *GDPRHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	if err := h.storages.Users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "account deleted", slog.String("user_id", userID))

	resp := api.DeleteAccountResponse{
		Message: "account and all associated data deleted",
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

func (h *GDPRHandler) decryptConversation(user *models.User, conv *models.Conversation) (api.ChatMessage, error) {
	message, err := h.fields.Decrypt(user, conv.MessageCiphertext)
	if err != nil {
		return api.ChatMessage{}, err
	}
	response, err := h.fields.Decrypt(user, conv.ResponseCiphertext)
	if err != nil {
		return api.ChatMessage{}, err
	}
	return api.ChatMessage{
		ID:        conv.ID,
		Message:   message,
		Response:  response,
		CreatedAt: conv.CreatedAt,
	}, nil
}

func (h *GDPRHandler) logDecryptFailure(ctx context.Context, kind, id string, err error) {
	if errors.Is(err, crypto.ErrIntegrity) {
		h.logger.WarnContext(ctx, "skipping corrupt record in export",
			slog.String("kind", kind), slog.String("id", id))
		return
	}
	h.logger.ErrorContext(ctx, "failed to decrypt record in export",
		slog.String("kind", kind), slog.String("id", id), slog.Any("error", err))
}
