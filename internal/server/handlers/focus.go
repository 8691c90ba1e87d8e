package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/storage"
	"github.com/solos-dev/solos/pkg/api"
)

// Допустимые типы сессий фокусировки
var validSessionTypes = map[string]bool{"pomodoro": true, "custom": true}

// FocusHandler обрабатывает сессии фокусировки
type FocusHandler struct {
	logger   *slog.Logger
	sessions storage.FocusStorage
}

// NewFocusHandler создает новый handler для сессий фокусировки
func NewFocusHandler(logger *slog.Logger, sessions storage.FocusStorage) *FocusHandler {
	return &FocusHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// Start обрабатывает POST /api/v1/focus-sessions
func (h *FocusHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.StartFocusSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	sessionType := req.SessionType
	if sessionType == "" {
		sessionType = "pomodoro"
	}
	if !validSessionTypes[sessionType] {
		sendError(h.logger, w, "session_type must be pomodoro or custom", http.StatusBadRequest)
		return
	}
	if req.PlannedDuration <= 0 {
		sendError(h.logger, w, "planned_duration must be positive", http.StatusBadRequest)
		return
	}

	now := time.Now()
	session := &models.FocusSession{
		ID:              uuid.New().String(),
		UserID:          userID,
		TaskID:          req.TaskID,
		SessionType:     sessionType,
		PlannedDuration: req.PlannedDuration,
		StartedAt:       now,
		CreatedAt:       now,
	}

	if err := h.sessions.CreateFocusSession(ctx, session); err != nil {
		h.logger.ErrorContext(ctx, "failed to create focus session", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, focusSessionToResponse(session), http.StatusCreated)
}

// List обрабатывает GET /api/v1/focus-sessions
func (h *FocusHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	sessions, err := h.sessions.GetUserFocusSessions(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list focus sessions", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.FocusSessionListResponse{
		Sessions: make([]api.FocusSessionResponse, 0, len(sessions)),
		Total:    len(sessions),
	}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, focusSessionToResponse(s))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/v1/focus-sessions/{id}
func (h *FocusHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	session, err := h.sessions.GetFocusSession(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			sendError(h.logger, w, "focus session not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get focus session", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, focusSessionToResponse(session), http.StatusOK)
}

// End обрабатывает PATCH /api/v1/focus-sessions/{id}
// Повторное завершение уже завершенной сессии — 409
func (h *FocusHandler) End(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.EndFocusSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.FocusRating != nil && (*req.FocusRating < 1 || *req.FocusRating > 5) {
		sendError(h.logger, w, "focus_rating must be between 1 and 5", http.StatusBadRequest)
		return
	}
	if req.ProductivityRating != nil && (*req.ProductivityRating < 1 || *req.ProductivityRating > 5) {
		sendError(h.logger, w, "productivity_rating must be between 1 and 5", http.StatusBadRequest)
		return
	}
	if req.Interruptions < 0 {
		sendError(h.logger, w, "interruptions cannot be negative", http.StatusBadRequest)
		return
	}

	session, err := h.sessions.GetFocusSession(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			sendError(h.logger, w, "focus session not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get focus session", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if session.EndedAt != nil {
		sendError(h.logger, w, "focus session already ended", http.StatusConflict)
		return
	}

	now := time.Now()
	session.EndedAt = &now
	session.Completed = req.Completed
	session.Interruptions = req.Interruptions
	session.FocusRating = req.FocusRating
	session.ProductivityRating = req.ProductivityRating
	if req.ActualDuration != nil {
		session.ActualDuration = req.ActualDuration
	} else {
		// По умолчанию считаем от фактического времени
		minutes := int(now.Sub(session.StartedAt).Minutes())
		session.ActualDuration = &minutes
	}

	if err := h.sessions.UpdateFocusSession(ctx, session); err != nil {
		h.logger.ErrorContext(ctx, "failed to end focus session", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, focusSessionToResponse(session), http.StatusOK)
}

func focusSessionToResponse(s *models.FocusSession) api.FocusSessionResponse {
	return api.FocusSessionResponse{
		ID:                 s.ID,
		TaskID:             s.TaskID,
		SessionType:        s.SessionType,
		PlannedDuration:    s.PlannedDuration,
		ActualDuration:     s.ActualDuration,
		StartedAt:          s.StartedAt,
		EndedAt:            s.EndedAt,
		Completed:          s.Completed,
		Interruptions:      s.Interruptions,
		FocusRating:        s.FocusRating,
		ProductivityRating: s.ProductivityRating,
		CreatedAt:          s.CreatedAt,
	}
}
