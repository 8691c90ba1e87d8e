package api

import "time"

// CreateTaskRequest представляет запрос на создание задачи
type CreateTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Priority       string     `json:"priority,omitempty"` // low, medium, high
	Category       string     `json:"category,omitempty"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
}

// UpdateTaskRequest представляет частичное обновление задачи.
// Поля-указатели: nil означает "не менять". Поля, отсутствующие
// в этой структуре, через PATCH изменить нельзя.
type UpdateTaskRequest struct {
	Title                *string    `json:"title,omitempty"`
	Description          *string    `json:"description,omitempty"`
	Status               *string    `json:"status,omitempty"`
	Priority             *string    `json:"priority,omitempty"`
	Category             *string    `json:"category,omitempty"`
	CompletionPercentage *int       `json:"completion_percentage,omitempty"`
	ScheduledStart       *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd         *time.Time `json:"scheduled_end,omitempty"`
}

// TaskResponse представляет задачу в ответе API
type TaskResponse struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	Status               string     `json:"status"`
	Priority             string     `json:"priority"`
	Category             string     `json:"category,omitempty"`
	CompletionPercentage int        `json:"completion_percentage"`
	ScheduledStart       *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd         *time.Time `json:"scheduled_end,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TaskListResponse представляет список задач
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}
