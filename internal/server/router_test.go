package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/handlers"
	"github.com/solos-dev/solos/internal/server/lockout"
	"github.com/solos-dev/solos/internal/server/service"
	"github.com/solos-dev/solos/internal/server/storage/sqlite"
	"github.com/solos-dev/solos/internal/server/token"
	"github.com/solos-dev/solos/pkg/api"
)

type memAuditLog struct {
	mu       sync.Mutex
	attempts []*models.FailedAttempt
}

func (m *memAuditLog) AppendFailure(ctx context.Context, attempt *models.FailedAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, attempt)
	return nil
}

func (m *memAuditLog) CountFailuresSince(ctx context.Context, identityHash string, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, a := range m.attempts {
		if a.IdentityHash == identityHash && !a.Timestamp.Before(since) {
			count++
		}
	}
	return count, nil
}

// newTestServer собирает полный роутер над in-memory БД
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fields, err := service.NewFieldCrypto("router-test-master-secret-0123456789ab")
	require.NoError(t, err)

	tokens := token.NewService("router-test-jwt-secret-0123456789abcdef", 15*time.Minute, 7*24*time.Hour)
	policy := lockout.NewPolicy(&memAuditLog{}, logger, 5, 15*time.Minute)
	auth := service.NewAuthService(db, db, tokens, fields, policy, logger)

	h := Handlers{
		Auth:       handlers.NewAuthHandler(logger, auth),
		Tasks:      handlers.NewTasksHandler(logger, db),
		Mood:       handlers.NewMoodHandler(logger, db, db, fields),
		Journal:    handlers.NewJournalHandler(logger, db, db, fields),
		TimeBlocks: handlers.NewTimeBlocksHandler(logger, db),
		Focus:      handlers.NewFocusHandler(logger, db),
		Chat:       handlers.NewChatHandler(logger, db, db, fields, handlers.CannedResponder{}),
		GDPR: handlers.NewGDPRHandler(logger, handlers.GDPRStorages{
			Users:         db,
			Tasks:         db,
			Moods:         db,
			Journal:       db,
			Blocks:        db,
			Focus:         db,
			Conversations: db,
		}, fields),
		Health: handlers.NewHealthHandler(logger, db, "test"),
	}

	router := NewRouter(logger, tokens, RouterConfig{
		RateLimit:     1000,
		RateWindow:    time.Minute,
		AuthRateLimit: 1000,
	}, h)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_HealthIsPublic(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/tasks")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_EndToEndFlow(t *testing.T) {
	srv := newTestServer(t)

	// Регистрация
	regBody, _ := json.Marshal(api.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "Str0ng-Pass!",
	})
	resp, err := http.Post(srv.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(regBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var reg api.RegisterResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reg))

	// Создание задачи с access token
	taskBody, _ := json.Marshal(api.CreateTaskRequest{Title: "end to end task"})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/tasks", bytes.NewReader(taskBody))
	req.Header.Set("Authorization", "Bearer "+reg.AccessToken)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusCreated, resp2.StatusCode)

	// Список задач видит созданную
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+reg.AccessToken)
	resp3, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp3.Body.Close()
	require.Equal(t, http.StatusOK, resp3.StatusCode)

	var list api.TaskListResponse
	require.NoError(t, json.NewDecoder(resp3.Body).Decode(&list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "end to end task", list.Tasks[0].Title)

	// Refresh token в Authorization заголовке не проходит
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+reg.RefreshToken)
	resp4, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp4.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp4.StatusCode)
}
