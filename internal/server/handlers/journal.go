package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/service"
	"github.com/solos-dev/solos/internal/server/storage"
	"github.com/solos-dev/solos/pkg/api"
)

// JournalHandler обрабатывает записи дневника.
// Тело записи шифруется производным ключом пользователя: в БД
// открытого текста нет, в списке тело не возвращается.
type JournalHandler struct {
	logger  *slog.Logger
	journal storage.JournalStorage
	users   storage.UserStorage
	fields  *service.FieldCrypto
}

// NewJournalHandler создает новый handler для дневника
func NewJournalHandler(logger *slog.Logger, journal storage.JournalStorage, users storage.UserStorage, fields *service.FieldCrypto) *JournalHandler {
	return &JournalHandler{
		logger:  logger,
		journal: journal,
		users:   users,
		fields:  fields,
	}
}

// Create обрабатывает POST /api/v1/journal
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.CreateJournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Body == "" {
		sendError(h.logger, w, "body is required", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	entry := &models.JournalEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     req.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	entry.BodyCiphertext, err = h.fields.Encrypt(user, req.Body)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encrypt journal body", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.journal.CreateJournalEntry(ctx, entry); err != nil {
		h.logger.ErrorContext(ctx, "failed to create journal entry", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.JournalEntryResponse{
		ID:        entry.ID,
		Title:     entry.Title,
		Body:      req.Body,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}

	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// List обрабатывает GET /api/v1/journal
// Возвращает только метаданные: полный текст отдается по id
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	entries, err := h.journal.GetUserJournalEntries(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list journal entries", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.JournalListResponse{
		Entries: make([]api.JournalEntryResponse, 0, len(entries)),
		Total:   len(entries),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, api.JournalEntryResponse{
			ID:        e.ID,
			Title:     e.Title,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/v1/journal/{id}
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	entry, err := h.journal.GetJournalEntry(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			sendError(h.logger, w, "journal entry not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get journal entry", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	body, err := h.fields.Decrypt(user, entry.BodyCiphertext)
	if err != nil {
		// Запись не проходит проверку целостности: отдать нечего
		h.logger.ErrorContext(ctx, "failed to decrypt journal body",
			slog.String("entry_id", entry.ID), slog.Any("error", err))
		sendError(h.logger, w, "journal entry cannot be decrypted", http.StatusUnprocessableEntity)
		return
	}

	resp := api.JournalEntryResponse{
		ID:        entry.ID,
		Title:     entry.Title,
		Body:      body,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/journal/{id}
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	if err := h.journal.DeleteJournalEntry(ctx, userID, r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			sendError(h.logger, w, "journal entry not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete journal entry", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
