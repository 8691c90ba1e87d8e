package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/solos-dev/solos/internal/server/handlers"
	"github.com/solos-dev/solos/internal/server/token"
)

// AuthMiddleware создает middleware для проверки JWT токена.
// Принимает только access token: refresh token в Authorization
// заголовке отклоняется, даже с валидной подписью.
func AuthMiddleware(logger *slog.Logger, tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("Invalid Authorization header format")
				http.Error(w, "Unauthorized: invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			// Тип сверяется явно: долгоживущий refresh token не дает
			// доступа к API
			if claims.TokenType != token.TypeAccess {
				logger.Warn("Non-access token presented", "token_type", claims.TokenType)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			// Добавляем данные из токена в контекст
			ctx := context.WithValue(r.Context(), handlers.UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, handlers.PermissionsKey, claims.Permissions)

			logger.Debug("User authenticated", "user_id", claims.Subject)

			// Передаем запрос дальше с обновленным контекстом
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
