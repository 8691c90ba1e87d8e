package api

import "time"

// CreateMoodLogRequest представляет запрос на запись настроения и энергии
type CreateMoodLogRequest struct {
	MoodRating  int    `json:"mood_rating"`  // шкала 1-5
	EnergyLevel int    `json:"energy_level"` // шкала 1-5
	TimeOfDay   string `json:"time_of_day,omitempty"`
	InputMethod string `json:"input_method,omitempty"` // tap, voice, emoji
	Notes       string `json:"notes,omitempty"`        // открытый текст; сервер хранит только ciphertext
}

// MoodLogResponse представляет запись настроения в ответе API.
// Notes расшифровываются перед отдачей владельцу.
type MoodLogResponse struct {
	ID          string    `json:"id"`
	MoodRating  int       `json:"mood_rating"`
	EnergyLevel int       `json:"energy_level"`
	TimeOfDay   string    `json:"time_of_day,omitempty"`
	InputMethod string    `json:"input_method"`
	Notes       string    `json:"notes,omitempty"`
	LoggedAt    time.Time `json:"logged_at"`
}

// MoodLogListResponse представляет список записей настроения
type MoodLogListResponse struct {
	Logs  []MoodLogResponse `json:"logs"`
	Total int               `json:"total"`
}

// CreateJournalEntryRequest представляет запрос на создание записи дневника
type CreateJournalEntryRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"` // открытый текст; сервер хранит только ciphertext
}

// JournalEntryResponse представляет запись дневника в ответе API
type JournalEntryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JournalListResponse представляет список записей дневника.
// Body в списке не возвращается: полный текст отдается только по id.
type JournalListResponse struct {
	Entries []JournalEntryResponse `json:"entries"`
	Total   int                    `json:"total"`
}
