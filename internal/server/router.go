package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/solos-dev/solos/internal/server/handlers"
	"github.com/solos-dev/solos/internal/server/middleware"
	"github.com/solos-dev/solos/internal/server/token"
)

// Handlers объединяет все обработчики API
type Handlers struct {
	Auth       *handlers.AuthHandler
	Tasks      *handlers.TasksHandler
	Mood       *handlers.MoodHandler
	Journal    *handlers.JournalHandler
	TimeBlocks *handlers.TimeBlocksHandler
	Focus      *handlers.FocusHandler
	Chat       *handlers.ChatHandler
	GDPR       *handlers.GDPRHandler
	Health     *handlers.HealthHandler
}

// RouterConfig содержит настройки middleware цепочки
type RouterConfig struct {
	RateLimit     int           // общий лимит запросов на IP
	RateWindow    time.Duration // окно rate limiter
	AuthRateLimit int           // отдельный лимит для /auth эндпоинтов
}

// NewRouter собирает HTTP роутер со всей middleware цепочкой.
// Порядок: recovery -> logging -> rate limit -> (auth для защищенных).
// Recovery снаружи: паника в любом слое дает 500, а не упавший процесс.
func NewRouter(logger *slog.Logger, tokens *token.Service, cfg RouterConfig, h Handlers) http.Handler {
	mux := http.NewServeMux()

	authRate := middleware.AuthRateLimitMiddleware(cfg.AuthRateLimit, cfg.RateWindow, logger)
	authed := middleware.AuthMiddleware(logger, tokens)

	// Публичные эндпоинты аутентификации с жестким лимитом
	mux.Handle("POST /api/v1/auth/register", authRate(http.HandlerFunc(h.Auth.Register)))
	mux.Handle("POST /api/v1/auth/login", authRate(http.HandlerFunc(h.Auth.Login)))
	mux.Handle("POST /api/v1/auth/refresh", authRate(http.HandlerFunc(h.Auth.Refresh)))
	mux.Handle("POST /api/v1/auth/logout", authRate(http.HandlerFunc(h.Auth.Logout)))

	// Задачи
	mux.Handle("POST /api/v1/tasks", authed(http.HandlerFunc(h.Tasks.Create)))
	mux.Handle("GET /api/v1/tasks", authed(http.HandlerFunc(h.Tasks.List)))
	mux.Handle("GET /api/v1/tasks/{id}", authed(http.HandlerFunc(h.Tasks.Get)))
	mux.Handle("PATCH /api/v1/tasks/{id}", authed(http.HandlerFunc(h.Tasks.Update)))
	mux.Handle("DELETE /api/v1/tasks/{id}", authed(http.HandlerFunc(h.Tasks.Delete)))

	// Настроение и энергия
	mux.Handle("POST /api/v1/mood-energy", authed(http.HandlerFunc(h.Mood.Create)))
	mux.Handle("GET /api/v1/mood-energy", authed(http.HandlerFunc(h.Mood.List)))
	mux.Handle("DELETE /api/v1/mood-energy/{id}", authed(http.HandlerFunc(h.Mood.Delete)))

	// Дневник
	mux.Handle("POST /api/v1/journal", authed(http.HandlerFunc(h.Journal.Create)))
	mux.Handle("GET /api/v1/journal", authed(http.HandlerFunc(h.Journal.List)))
	mux.Handle("GET /api/v1/journal/{id}", authed(http.HandlerFunc(h.Journal.Get)))
	mux.Handle("DELETE /api/v1/journal/{id}", authed(http.HandlerFunc(h.Journal.Delete)))

	// Блоки времени
	mux.Handle("POST /api/v1/time-blocks", authed(http.HandlerFunc(h.TimeBlocks.Create)))
	mux.Handle("GET /api/v1/time-blocks", authed(http.HandlerFunc(h.TimeBlocks.List)))
	mux.Handle("PATCH /api/v1/time-blocks/{id}", authed(http.HandlerFunc(h.TimeBlocks.Update)))
	mux.Handle("DELETE /api/v1/time-blocks/{id}", authed(http.HandlerFunc(h.TimeBlocks.Delete)))

	// Сессии фокусировки
	mux.Handle("POST /api/v1/focus-sessions", authed(http.HandlerFunc(h.Focus.Start)))
	mux.Handle("GET /api/v1/focus-sessions", authed(http.HandlerFunc(h.Focus.List)))
	mux.Handle("GET /api/v1/focus-sessions/{id}", authed(http.HandlerFunc(h.Focus.Get)))
	mux.Handle("PATCH /api/v1/focus-sessions/{id}", authed(http.HandlerFunc(h.Focus.End)))

	// Чат с ассистентом
	mux.Handle("POST /api/v1/chat", authed(http.HandlerFunc(h.Chat.Send)))
	mux.Handle("GET /api/v1/chat/{session_id}", authed(http.HandlerFunc(h.Chat.History)))

	// GDPR
	mux.Handle("GET /api/v1/gdpr/export", authed(http.HandlerFunc(h.GDPR.Export)))
	mux.Handle("POST /api/v1/gdpr/delete", authed(http.HandlerFunc(h.GDPR.DeleteAccount)))

	// Health check без авторизации
	mux.Handle("GET /api/v1/health", http.HandlerFunc(h.Health.Health))

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(cfg.RateLimit, cfg.RateWindow, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return handler
}
