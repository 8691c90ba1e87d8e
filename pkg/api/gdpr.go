package api

import "time"

// UserExport представляет профиль пользователя в выгрузке данных
type UserExport struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"` // расшифрованный email
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// ExportResponse представляет полную выгрузку данных пользователя.
// Все зашифрованные поля расшифровываются перед выгрузкой: выгрузка
// предназначена владельцу данных.
type ExportResponse struct {
	ExportedAt    time.Time              `json:"exported_at"`
	User          UserExport             `json:"user"`
	Tasks         []TaskResponse         `json:"tasks"`
	MoodLogs      []MoodLogResponse      `json:"mood_logs"`
	Journal       []JournalEntryResponse `json:"journal"`
	TimeBlocks    []TimeBlockResponse    `json:"time_blocks"`
	FocusSessions []FocusSessionResponse `json:"focus_sessions"`
	Conversations []ChatMessage          `json:"conversations"`
	SkippedItems  int                    `json:"skipped_items"` // записи, не прошедшие проверку целостности
}

// DeleteAccountResponse представляет подтверждение удаления аккаунта
type DeleteAccountResponse struct {
	Message string `json:"message"`
}
