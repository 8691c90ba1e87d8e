package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solos-dev/solos/internal/server/handlers"
	"github.com/solos-dev/solos/internal/server/token"
)

const testSecret = "middleware-test-secret-0123456789abcdef"

func newAuthTestStack(t *testing.T) (*token.Service, http.Handler, *string) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := token.NewService(testSecret, 15*time.Minute, 7*24*time.Hour)

	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := handlers.GetUserID(r.Context())
		seenUserID = userID
		w.WriteHeader(http.StatusOK)
	})

	return tokens, AuthMiddleware(logger, tokens)(next), &seenUserID
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens, handler, seenUserID := newAuthTestStack(t)

	accessToken, _, err := tokens.IssueAccessToken("user-123", []string{"user"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-123", *seenUserID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	_, handler, _ := newAuthTestStack(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidFormat(t *testing.T) {
	_, handler, _ := newAuthTestStack(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no bearer prefix", header: "token-without-prefix"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "garbage token", header: "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_RejectsRefreshToken(t *testing.T) {
	tokens, handler, _ := newAuthTestStack(t)

	// Refresh token с валидной подписью не дает доступа к API
	refreshToken, _, _, err := tokens.IssueRefreshToken("user-123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+refreshToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	past := time.Now().Add(-time.Hour)
	issuer := token.NewService(testSecret, 15*time.Minute, 7*24*time.Hour).
		WithClock(func() time.Time { return past })
	accessToken, _, err := issuer.IssueAccessToken("user-123", nil)
	require.NoError(t, err)

	verifier := token.NewService(testSecret, 15*time.Minute, 7*24*time.Hour)
	handler := AuthMiddleware(logger, verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
