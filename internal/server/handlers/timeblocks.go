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

// Допустимые типы блоков времени
var validBlockTypes = map[string]bool{
	models.BlockTypeWork:     true,
	models.BlockTypePersonal: true,
	models.BlockTypeRest:     true,
	models.BlockTypeFocus:    true,
}

// TimeBlocksHandler обрабатывает блоки времени в расписании
type TimeBlocksHandler struct {
	logger *slog.Logger
	blocks storage.TimeBlockStorage
}

// NewTimeBlocksHandler создает новый handler для блоков времени
func NewTimeBlocksHandler(logger *slog.Logger, blocks storage.TimeBlockStorage) *TimeBlocksHandler {
	return &TimeBlocksHandler{
		logger: logger,
		blocks: blocks,
	}
}

// Create обрабатывает POST /api/v1/time-blocks
func (h *TimeBlocksHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.CreateTimeBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		sendError(h.logger, w, "title is required", http.StatusBadRequest)
		return
	}
	if !validBlockTypes[req.BlockType] {
		sendError(h.logger, w, "block_type must be work, personal, rest or focus", http.StatusBadRequest)
		return
	}
	if !req.EndTime.After(req.StartTime) {
		sendError(h.logger, w, "end_time must be after start_time", http.StatusBadRequest)
		return
	}
	if req.BufferTimeMinutes < 0 {
		sendError(h.logger, w, "buffer_time_minutes cannot be negative", http.StatusBadRequest)
		return
	}

	now := time.Now()
	block := &models.TimeBlock{
		ID:                uuid.New().String(),
		UserID:            userID,
		Title:             req.Title,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		BlockType:         req.BlockType,
		Color:             req.Color,
		IsFlexible:        req.IsFlexible,
		BufferTimeMinutes: req.BufferTimeMinutes,
		LinkedTaskID:      req.LinkedTaskID,
		Location:          req.Location,
		Description:       req.Description,
		AllDay:            req.AllDay,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := h.blocks.CreateTimeBlock(ctx, block); err != nil {
		h.logger.ErrorContext(ctx, "failed to create time block", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, timeBlockToResponse(block), http.StatusCreated)
}

// List обрабатывает GET /api/v1/time-blocks?from=...&to=...
// Возвращает блоки, пересекающие окно [from, to)
func (h *TimeBlocksHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	var from, to time.Time
	var err error
	if s := r.URL.Query().Get("from"); s != "" {
		if from, err = time.Parse(time.RFC3339, s); err != nil {
			sendError(h.logger, w, "from must be an RFC3339 timestamp", http.StatusBadRequest)
			return
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if to, err = time.Parse(time.RFC3339, s); err != nil {
			sendError(h.logger, w, "to must be an RFC3339 timestamp", http.StatusBadRequest)
			return
		}
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		sendError(h.logger, w, "to must be after from", http.StatusBadRequest)
		return
	}

	blocks, err := h.blocks.GetUserTimeBlocks(ctx, userID, from, to)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list time blocks", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.TimeBlockListResponse{
		Blocks: make([]api.TimeBlockResponse, 0, len(blocks)),
		Total:  len(blocks),
	}
	for _, b := range blocks {
		resp.Blocks = append(resp.Blocks, timeBlockToResponse(b))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Update обрабатывает PATCH /api/v1/time-blocks/{id}
func (h *TimeBlocksHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.UpdateTimeBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	block, err := h.blocks.GetTimeBlock(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			sendError(h.logger, w, "time block not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get time block", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			sendError(h.logger, w, "title cannot be empty", http.StatusBadRequest)
			return
		}
		block.Title = *req.Title
	}
	if req.BlockType != nil {
		if !validBlockTypes[*req.BlockType] {
			sendError(h.logger, w, "block_type must be work, personal, rest or focus", http.StatusBadRequest)
			return
		}
		block.BlockType = *req.BlockType
	}
	if req.StartTime != nil {
		block.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		block.EndTime = *req.EndTime
	}
	// Инвариант проверяется после применения обоих полей:
	// поодиночке их можно двигать как угодно
	if !block.EndTime.After(block.StartTime) {
		sendError(h.logger, w, "end_time must be after start_time", http.StatusBadRequest)
		return
	}
	if req.Color != nil {
		block.Color = *req.Color
	}
	if req.IsFlexible != nil {
		block.IsFlexible = *req.IsFlexible
	}
	if req.BufferTimeMinutes != nil {
		if *req.BufferTimeMinutes < 0 {
			sendError(h.logger, w, "buffer_time_minutes cannot be negative", http.StatusBadRequest)
			return
		}
		block.BufferTimeMinutes = *req.BufferTimeMinutes
	}
	if req.Location != nil {
		block.Location = *req.Location
	}
	if req.Description != nil {
		block.Description = *req.Description
	}
	if req.AllDay != nil {
		block.AllDay = *req.AllDay
	}
	block.UpdatedAt = time.Now()

	if err := h.blocks.UpdateTimeBlock(ctx, block); err != nil {
		h.logger.ErrorContext(ctx, "failed to update time block", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, timeBlockToResponse(block), http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/time-blocks/{id}
func (h *TimeBlocksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	if err := h.blocks.DeleteTimeBlock(ctx, userID, r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			sendError(h.logger, w, "time block not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete time block", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func timeBlockToResponse(b *models.TimeBlock) api.TimeBlockResponse {
	return api.TimeBlockResponse{
		ID:                b.ID,
		Title:             b.Title,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		BlockType:         b.BlockType,
		Color:             b.Color,
		IsFlexible:        b.IsFlexible,
		BufferTimeMinutes: b.BufferTimeMinutes,
		LinkedTaskID:      b.LinkedTaskID,
		Location:          b.Location,
		Description:       b.Description,
		AllDay:            b.AllDay,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
