package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/lockout"
	"github.com/solos-dev/solos/internal/server/storage"
	"github.com/solos-dev/solos/internal/server/token"
)

const testJWTSecret = "test-jwt-secret-0123456789abcdefghijklm"

// mockUserStorage is an in-memory UserStorage implementation for testing
type mockUserStorage struct {
	mu    sync.Mutex
	users map[string]*models.User // email_hash -> User
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.EmailHash]; exists {
		return storage.ErrUserAlreadyExists
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return storage.ErrUserAlreadyExists
		}
	}
	m.users[user.EmailHash] = user
	return nil
}

func (m *mockUserStorage) GetUserByEmailHash(ctx context.Context, emailHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[emailHash]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateUser(ctx context.Context, user *models.User) error { return nil }
func (m *mockUserStorage) DeleteUser(ctx context.Context, userID string) error     { return nil }
func (m *mockUserStorage) UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error {
	return nil
}

// mockTokenStorage is an in-memory TokenStorage implementation for testing
type mockTokenStorage struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken // token_hash -> record
}

func newMockTokenStorage() *mockTokenStorage {
	return &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}
}

func (m *mockTokenStorage) SaveRefreshToken(ctx context.Context, tok *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tok.TokenHash] = tok
	return nil
}

func (m *mockTokenStorage) GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[tokenHash]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	return tok, nil
}

func (m *mockTokenStorage) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[tokenHash]; !ok {
		return storage.ErrTokenNotFound
	}
	delete(m.tokens, tokenHash)
	return nil
}

func (m *mockTokenStorage) DeleteUserTokens(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for hash, tok := range m.tokens {
		if tok.UserID == userID {
			delete(m.tokens, hash)
			n++
		}
	}
	return n, nil
}

func (m *mockTokenStorage) DeleteExpiredTokens(ctx context.Context) (int, error) { return 0, nil }

// mockAuditLog is an in-memory AuditLog implementation for testing
type mockAuditLog struct {
	mu       sync.Mutex
	attempts []*models.FailedAttempt
}

func (m *mockAuditLog) AppendFailure(ctx context.Context, attempt *models.FailedAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, attempt)
	return nil
}

func (m *mockAuditLog) CountFailuresSince(ctx context.Context, identityHash string, since time.Time) (int, error) {
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

type authFixture struct {
	svc    *AuthService
	users  *mockUserStorage
	tokens *mockTokenStorage
	audit  *mockAuditLog
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := newMockUserStorage()
	tokens := newMockTokenStorage()
	audit := &mockAuditLog{}

	fields, err := NewFieldCrypto(testMasterSecret)
	require.NoError(t, err)

	tokenSvc := token.NewService(testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	policy := lockout.NewPolicy(audit, logger, 5, 15*time.Minute)

	return &authFixture{
		svc:    NewAuthService(users, tokens, tokenSvc, fields, policy, logger),
		users:  users,
		tokens: tokens,
		audit:  audit,
	}
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, pair, err := f.svc.Register(ctx, "alice@example.com", "alice", "Str0ng-Pass!")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Len(t, user.EncryptionSalt, 32)
	assert.Equal(t, models.KeyVersionV1, user.KeyVersion)
	// Пароль и email не хранятся в открытом виде
	assert.NotEqual(t, "Str0ng-Pass!", user.PasswordHash)
	assert.NotContains(t, string(user.EmailCiphertext), "alice@example.com")
	assert.Len(t, user.EmailHash, 64)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Positive(t, pair.ExpiresIn)
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		username string
		password string
	}{
		{name: "bad email", email: "not-an-email", username: "alice", password: "Str0ng-Pass!"},
		{name: "bad username", email: "a@b.com", username: "a", password: "Str0ng-Pass!"},
		{name: "weak password", email: "a@b.com", username: "alice", password: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.Register(ctx, tt.email, tt.username, tt.password)
			assert.Error(t, err)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, "alice@example.com", "alice", "Str0ng-Pass!")
	require.NoError(t, err)

	// Тот же email в другом регистре — тот же email_hash
	_, _, err = f.svc.Register(ctx, "Alice@Example.COM", "alice2", "Str0ng-Pass!")
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, "alice@example.com", "alice", "Str0ng-Pass!")
	require.NoError(t, err)

	user, pair, err := f.svc.Login(ctx, "alice@example.com", "Str0ng-Pass!", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestLoginUniformFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, "alice@example.com", "alice", "Str0ng-Pass!")
	require.NoError(t, err)

	// Неправильный пароль и несуществующий пользователь — одна и та же ошибка
	_, _, errWrongPass := f.svc.Login(ctx, "alice@example.com", "Wrong-Pass-1!", "10.0.0.1")
	_, _, errNoUser := f.svc.Login(ctx, "ghost@example.com", "Str0ng-Pass!", "10.0.0.1")

	assert.ErrorIs(t, errWrongPass, ErrAuthenticationFailed)
	assert.ErrorIs(t, errNoUser, ErrAuthenticationFailed)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

func TestLoginLockout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, "alice@example.com", "alice", "Str0ng-Pass!")
	require.NoError(t, err)

	// 5 неудачных попыток блокируют аккаунт
	for i := 0; i < 5; i++ {
		_, _, err := f.svc.Login(ctx, "alice@example.com", "Wrong-Pass-1!", "10.0.0.1")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	}

	// Даже с правильным паролем вход заблокирован
	_, _, err = f.svc.Login(ctx, "alice@example.com", "Str0ng-Pass!", "10.0.0.1")
	assert.ErrorIs(t, err, ErrAccountLocked)
	// Сообщение не содержит время разблокировки
	assert.NotContains(t, err.Error(), "minute")
}

func TestLoginFailuresRecorded(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, _ = f.svc.Login(ctx, "ghost@example.com", "Str0ng-Pass!", "192.168.0.7")

	require.Len(t, f.audit.attempts, 1)
	assert.Equal(t, "192.168.0.7", f.audit.attempts[0].IPAddress)
}

func TestRefresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, pair, err := f.svc.Register(ctx, "alice@example.com", "alice", "Str0ng-Pass!")
	require.NoError(t, err)

	newPair, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newPair.AccessToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, pair, err := f.svc.Register(ctx, "alice@example.com", "alice", "Str0ng-Pass!")
	require.NoError(t, err)

	// Access token в refresh потоке отклоняется
	_, err = f.svc.Refresh(ctx, pair.AccessToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, token.ErrTokenMalformed)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, pair, err := f.svc.Register(ctx, "alice@example.com", "alice", "Str0ng-Pass!")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))

	// После logout refresh token недействителен
	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	// Повторный logout — не ошибка
	assert.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))
}

func TestConcurrentRegistrationSameEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := f.svc.Register(ctx, "alice@example.com",
				"alice", "Str0ng-Pass!")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	// Ровно одна регистрация успешна, остальные — uniqueness violation
	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, storage.ErrUserAlreadyExists):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, dup)
}
