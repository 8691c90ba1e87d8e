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

// Допустимые значения приоритета
var validPriorities = map[string]bool{"low": true, "medium": true, "high": true}

// Допустимые значения статуса
var validStatuses = map[string]bool{
	models.TaskStatusPending:    true,
	models.TaskStatusInProgress: true,
	models.TaskStatusCompleted:  true,
}

// TasksHandler обрабатывает CRUD запросы по задачам
type TasksHandler struct {
	logger *slog.Logger
	tasks  storage.TaskStorage
}

// NewTasksHandler создает новый handler для задач
func NewTasksHandler(logger *slog.Logger, tasks storage.TaskStorage) *TasksHandler {
	return &TasksHandler{
		logger: logger,
		tasks:  tasks,
	}
}

// Create обрабатывает POST /api/v1/tasks
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		sendError(h.logger, w, "title is required", http.StatusBadRequest)
		return
	}
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	if !validPriorities[priority] {
		sendError(h.logger, w, "priority must be low, medium or high", http.StatusBadRequest)
		return
	}
	if req.ScheduledStart != nil && req.ScheduledEnd != nil && !req.ScheduledEnd.After(*req.ScheduledStart) {
		sendError(h.logger, w, "scheduled_end must be after scheduled_start", http.StatusBadRequest)
		return
	}

	now := time.Now()
	task := &models.Task{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.TaskStatusPending,
		Priority:       priority,
		Category:       req.Category,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.tasks.CreateTask(ctx, task); err != nil {
		h.logger.ErrorContext(ctx, "failed to create task", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, taskToResponse(task), http.StatusCreated)
}

// List обрабатывает GET /api/v1/tasks?status=pending
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !validStatuses[status] {
		sendError(h.logger, w, "invalid status filter", http.StatusBadRequest)
		return
	}

	tasks, err := h.tasks.GetUserTasks(ctx, userID, status)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list tasks", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.TaskListResponse{
		Tasks: make([]api.TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, taskToResponse(t))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/v1/tasks/{id}
func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			sendError(h.logger, w, "task not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get task", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, taskToResponse(task), http.StatusOK)
}

// Update обрабатывает PATCH /api/v1/tasks/{id}
// Меняются только поля, явно перечисленные в UpdateTaskRequest:
// служебные поля (id, user_id, created_at) через PATCH недостижимы.
func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.GetTask(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			sendError(h.logger, w, "task not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get task", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.Status != nil {
		if !validStatuses[*req.Status] {
			sendError(h.logger, w, "invalid status", http.StatusBadRequest)
			return
		}
		// Переход в completed фиксирует момент завершения,
		// обратный переход его сбрасывает
		if *req.Status == models.TaskStatusCompleted && task.Status != models.TaskStatusCompleted {
			now := time.Now()
			task.CompletedAt = &now
			task.CompletionPercentage = 100
		} else if *req.Status != models.TaskStatusCompleted {
			task.CompletedAt = nil
		}
		task.Status = *req.Status
	}
	if req.Priority != nil {
		if !validPriorities[*req.Priority] {
			sendError(h.logger, w, "priority must be low, medium or high", http.StatusBadRequest)
			return
		}
		task.Priority = *req.Priority
	}
	if req.Title != nil {
		if *req.Title == "" {
			sendError(h.logger, w, "title cannot be empty", http.StatusBadRequest)
			return
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.CompletionPercentage != nil {
		if *req.CompletionPercentage < 0 || *req.CompletionPercentage > 100 {
			sendError(h.logger, w, "completion_percentage must be between 0 and 100", http.StatusBadRequest)
			return
		}
		task.CompletionPercentage = *req.CompletionPercentage
	}
	if req.ScheduledStart != nil {
		task.ScheduledStart = req.ScheduledStart
	}
	if req.ScheduledEnd != nil {
		task.ScheduledEnd = req.ScheduledEnd
	}
	task.UpdatedAt = time.Now()

	if err := h.tasks.UpdateTask(ctx, task); err != nil {
		h.logger.ErrorContext(ctx, "failed to update task", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, taskToResponse(task), http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/tasks/{id}
func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := mustUserID(h.logger, w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(ctx, userID, r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			sendError(h.logger, w, "task not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete task", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func taskToResponse(t *models.Task) api.TaskResponse {
	return api.TaskResponse{
		ID:                   t.ID,
		Title:                t.Title,
		Description:          t.Description,
		Status:               t.Status,
		Priority:             t.Priority,
		Category:             t.Category,
		CompletionPercentage: t.CompletionPercentage,
		ScheduledStart:       t.ScheduledStart,
		ScheduledEnd:         t.ScheduledEnd,
		CompletedAt:          t.CompletedAt,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}
