package api

import "time"

// CreateTimeBlockRequest представляет запрос на создание блока времени
type CreateTimeBlockRequest struct {
	Title             string    `json:"title"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	BlockType         string    `json:"block_type"` // work, personal, rest, focus
	Color             string    `json:"color,omitempty"`
	IsFlexible        bool      `json:"is_flexible"`
	BufferTimeMinutes int       `json:"buffer_time_minutes"`
	LinkedTaskID      string    `json:"linked_task_id,omitempty"`
	Location          string    `json:"location,omitempty"`
	Description       string    `json:"description,omitempty"`
	AllDay            bool      `json:"all_day"`
}

// UpdateTimeBlockRequest представляет частичное обновление блока времени
type UpdateTimeBlockRequest struct {
	Title             *string    `json:"title,omitempty"`
	StartTime         *time.Time `json:"start_time,omitempty"`
	EndTime           *time.Time `json:"end_time,omitempty"`
	BlockType         *string    `json:"block_type,omitempty"`
	Color             *string    `json:"color,omitempty"`
	IsFlexible        *bool      `json:"is_flexible,omitempty"`
	BufferTimeMinutes *int       `json:"buffer_time_minutes,omitempty"`
	Location          *string    `json:"location,omitempty"`
	Description       *string    `json:"description,omitempty"`
	AllDay            *bool      `json:"all_day,omitempty"`
}

// TimeBlockResponse представляет блок времени в ответе API
type TimeBlockResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	BlockType         string    `json:"block_type"`
	Color             string    `json:"color,omitempty"`
	IsFlexible        bool      `json:"is_flexible"`
	BufferTimeMinutes int       `json:"buffer_time_minutes"`
	LinkedTaskID      string    `json:"linked_task_id,omitempty"`
	Location          string    `json:"location,omitempty"`
	Description       string    `json:"description,omitempty"`
	AllDay            bool      `json:"all_day"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TimeBlockListResponse представляет список блоков времени
type TimeBlockListResponse struct {
	Blocks []TimeBlockResponse `json:"blocks"`
	Total  int                 `json:"total"`
}

// StartFocusSessionRequest представляет запрос на старт сессии фокусировки
type StartFocusSessionRequest struct {
	TaskID          string `json:"task_id,omitempty"`
	SessionType     string `json:"session_type,omitempty"` // pomodoro, custom
	PlannedDuration int    `json:"planned_duration"`       // минуты
}

// EndFocusSessionRequest представляет запрос на завершение сессии
type EndFocusSessionRequest struct {
	Completed          bool `json:"completed"`
	ActualDuration     *int `json:"actual_duration,omitempty"` // минуты
	Interruptions      int  `json:"interruptions"`
	FocusRating        *int `json:"focus_rating,omitempty"`        // 1-5
	ProductivityRating *int `json:"productivity_rating,omitempty"` // 1-5
}

// FocusSessionResponse представляет сессию фокусировки в ответе API
type FocusSessionResponse struct {
	ID                 string     `json:"id"`
	TaskID             string     `json:"task_id,omitempty"`
	SessionType        string     `json:"session_type"`
	PlannedDuration    int        `json:"planned_duration"`
	ActualDuration     *int       `json:"actual_duration,omitempty"`
	StartedAt          time.Time  `json:"started_at"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
	Completed          bool       `json:"completed"`
	Interruptions      int        `json:"interruptions"`
	FocusRating        *int       `json:"focus_rating,omitempty"`
	ProductivityRating *int       `json:"productivity_rating,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// FocusSessionListResponse представляет список сессий фокусировки
type FocusSessionListResponse struct {
	Sessions []FocusSessionResponse `json:"sessions"`
	Total    int                    `json:"total"`
}
