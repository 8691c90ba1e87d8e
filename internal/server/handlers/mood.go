package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/solos-dev/solos/internal/crypto"
	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/service"
	"github.com/solos-dev/solos/internal/server/storage"
	"github.com/solos-dev/solos/pkg/api"
)

// Допустимые значения времени суток
var validTimesOfDay = map[string]bool{"": true, "morning": true, "afternoon": true, "evening": true}

// Допустимые способы ввода
var validInputMethods = map[string]bool{"tap": true, "voice": true, "emoji": true}

// MoodHandler обрабатывает записи настроения и энергии.
// Заметки шифруются производным ключом пользователя перед сохранением.
type MoodHandler struct {
	logger *slog.Logger
	moods  storage.MoodStorage
	users  storage.UserStorage
	fields *service.FieldCrypto
}

// NewMoodHandler создает новый handler для записей настроения
func NewMoodHandler(logger *slog.Logger, moods storage.MoodStorage, users storage.UserStorage, fields *service.FieldCrypto) *MoodHandler {
	return &MoodHandler{
		logger: logger,
		moods:  moods,
		users:  users,
		fields: fields,
	}
}

// Create обрабатывает POST /api/v1/mood-energy
func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.CreateMoodLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.MoodRating < 1 || req.MoodRating > 5 {
		sendError(h.logger, w, "mood_rating must be between 1 and 5", http.StatusBadRequest)
		return
	}
	if req.EnergyLevel < 1 || req.EnergyLevel > 5 {
		sendError(h.logger, w, "energy_level must be between 1 and 5", http.StatusBadRequest)
		return
	}
	if !validTimesOfDay[req.TimeOfDay] {
		sendError(h.logger, w, "time_of_day must be morning, afternoon or evening", http.StatusBadRequest)
		return
	}
	inputMethod := req.InputMethod
	if inputMethod == "" {
		inputMethod = "tap"
	}
	if !validInputMethods[inputMethod] {
		sendError(h.logger, w, "input_method must be tap, voice or emoji", http.StatusBadRequest)
		return
	}

	log := &models.MoodEnergyLog{
		ID:          uuid.New().String(),
		UserID:      userID,
		MoodRating:  req.MoodRating,
		EnergyLevel: req.EnergyLevel,
		TimeOfDay:   req.TimeOfDay,
		InputMethod: inputMethod,
		LoggedAt:    time.Now(),
	}

	if req.Notes != "" {
		user, err := h.users.GetUserByID(ctx, userID)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
		log.NotesCiphertext, err = h.fields.Encrypt(user, req.Notes)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to encrypt notes", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	if err := h.moods.CreateMoodLog(ctx, log); err != nil {
		h.logger.ErrorContext(ctx, "failed to create mood log", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.MoodLogResponse{
		ID:          log.ID,
		MoodRating:  log.MoodRating,
		EnergyLevel: log.EnergyLevel,
		TimeOfDay:   log.TimeOfDay,
		InputMethod: log.InputMethod,
		Notes:       req.Notes,
		LoggedAt:    log.LoggedAt,
	}

	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// List обрабатывает GET /api/v1/mood-energy?since=2026-08-01T00:00:00Z
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	var since time.Time
	if s := r.URL.Query().Get("since"); s != "" {
		var err error
		since, err = time.Parse(time.RFC3339, s)
		if err != nil {
			sendError(h.logger, w, "since must be an RFC3339 timestamp", http.StatusBadRequest)
			return
		}
	}

	logs, err := h.moods.GetUserMoodLogs(ctx, userID, since)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list mood logs", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.MoodLogListResponse{
		Logs: make([]api.MoodLogResponse, 0, len(logs)),
	}
	for _, log := range logs {
		item := api.MoodLogResponse{
			ID:          log.ID,
			MoodRating:  log.MoodRating,
			EnergyLevel: log.EnergyLevel,
			TimeOfDay:   log.TimeOfDay,
			InputMethod: log.InputMethod,
			LoggedAt:    log.LoggedAt,
		}
		if len(log.NotesCiphertext) > 0 {
			notes, err := h.fields.Decrypt(user, log.NotesCiphertext)
			if err != nil {
				// Поврежденная запись не валит весь список
				if errors.Is(err, crypto.ErrIntegrity) {
					h.logger.WarnContext(ctx, "skipping corrupt mood notes",
						slog.String("log_id", log.ID))
				} else {
					h.logger.ErrorContext(ctx, "failed to decrypt notes",
						slog.String("log_id", log.ID), slog.Any("error", err))
				}
			} else {
				item.Notes = notes
			}
		}
		resp.Logs = append(resp.Logs, item)
	}
	resp.Total = len(resp.Logs)

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/mood-energy/{id}
func (h *MoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	if err := h.moods.DeleteMoodLog(ctx, userID, r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			sendError(h.logger, w, "mood log not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete mood log", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
