package api

import "time"

// ChatRequest представляет сообщение пользователя ассистенту
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"` // пустой — сервер начинает новую сессию
	Message   string `json:"message"`
}

// ChatResponse представляет ответ ассистента
type ChatResponse struct {
	SessionID string    `json:"session_id"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage представляет одну пару сообщение/ответ в истории
type ChatMessage struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatHistoryResponse представляет историю сессии чата
type ChatHistoryResponse struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
	Total     int           `json:"total"`
}
