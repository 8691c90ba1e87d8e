package models

import "time"

// Статусы задач
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// Task представляет задачу пользователя.
type Task struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	Status               string     `json:"status"`   // pending, in_progress, completed
	Priority             string     `json:"priority"` // low, medium, high
	Category             string     `json:"category,omitempty"`
	CompletionPercentage int        `json:"completion_percentage"`
	ScheduledStart       *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd         *time.Time `json:"scheduled_end,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// MoodEnergyLog представляет запись настроения и энергии.
// Заметки опциональны и хранятся только в зашифрованном виде.
type MoodEnergyLog struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	MoodRating     int       `json:"mood_rating"`  // шкала 1-5
	EnergyLevel    int       `json:"energy_level"` // шкала 1-5
	TimeOfDay      string    `json:"time_of_day,omitempty"` // morning, afternoon, evening
	InputMethod    string    `json:"input_method"`          // tap, voice, emoji
	NotesCiphertext []byte   `json:"-"`
	LoggedAt       time.Time `json:"logged_at"`
}

// JournalEntry представляет запись дневника.
// Тело записи хранится только в зашифрованном виде.
type JournalEntry struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	BodyCiphertext []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Типы блоков времени
const (
	BlockTypeWork     = "work"
	BlockTypePersonal = "personal"
	BlockTypeRest     = "rest"
	BlockTypeFocus    = "focus"
)

// TimeBlock представляет блок времени в расписании пользователя.
type TimeBlock struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Title             string    `json:"title"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	BlockType         string    `json:"block_type"` // work, personal, rest, focus
	Color             string    `json:"color"`      // hex цвет для визуальной организации
	IsFlexible        bool      `json:"is_flexible"`
	BufferTimeMinutes int       `json:"buffer_time_minutes"`
	LinkedTaskID      string    `json:"linked_task_id,omitempty"`
	Location          string    `json:"location,omitempty"`
	Description       string    `json:"description,omitempty"`
	AllDay            bool      `json:"all_day"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FocusSession представляет сессию фокусировки (pomodoro и т.п.).
type FocusSession struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	TaskID             string     `json:"task_id,omitempty"`
	SessionType        string     `json:"session_type"`     // pomodoro, custom
	PlannedDuration    int        `json:"planned_duration"` // минуты
	ActualDuration     *int       `json:"actual_duration,omitempty"`
	StartedAt          time.Time  `json:"started_at"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
	Completed          bool       `json:"completed"`
	Interruptions      int        `json:"interruptions"`
	FocusRating        *int       `json:"focus_rating,omitempty"`        // 1-5
	ProductivityRating *int       `json:"productivity_rating,omitempty"` // 1-5
	CreatedAt          time.Time  `json:"created_at"`
}

// Conversation представляет одну пару сообщение/ответ в чате.
// Содержимое хранится только в зашифрованном виде.
type Conversation struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	SessionID          string    `json:"session_id"`
	MessageCiphertext  []byte    `json:"-"`
	ResponseCiphertext []byte    `json:"-"`
	KeyVersion         string    `json:"key_version"`
	CreatedAt          time.Time `json:"created_at"`
}
