package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/solos-dev/solos/internal/crypto"
	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/lockout"
	"github.com/solos-dev/solos/internal/server/storage"
	"github.com/solos-dev/solos/internal/server/token"
	"github.com/solos-dev/solos/internal/validation"
)

// Ошибки аутентификации.
var (
	// ErrAuthenticationFailed возвращается одинаково для неправильного
	// пароля и несуществующего identity, чтобы не раскрывать
	// существование аккаунта
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrAccountLocked - достигнут порог неудачных попыток входа.
	// Намеренно не сообщает время разблокировки.
	ErrAccountLocked = errors.New("account temporarily locked")
)

// defaultPermissions выдаются каждому access token
var defaultPermissions = []string{"user"}

// TokenPair содержит выданную пару токенов.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // время жизни access token в секундах
}

// AuthService оркестрирует регистрацию и вход: хеширование пароля,
// индексация email, генерация соли, шифрование полей, выдача токенов
// и учет неудачных попыток.
type AuthService struct {
	users    storage.UserStorage
	tokens   storage.TokenStorage
	tokenSvc *token.Service
	fields   *FieldCrypto
	lockout  *lockout.Policy
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService создает сервис аутентификации.
func NewAuthService(
	users storage.UserStorage,
	tokens storage.TokenStorage,
	tokenSvc *token.Service,
	fields *FieldCrypto,
	lockoutPolicy *lockout.Policy,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		tokenSvc: tokenSvc,
		fields:   fields,
		lockout:  lockoutPolicy,
		logger:   logger,
		now:      time.Now,
	}
}

// Register регистрирует нового пользователя.
// Соль генерируется ровно один раз и уходит в хранилище одной вставкой
// с проверкой уникальности email_hash/username: гонка двух регистраций
// с одним email дает ровно один успех и один storage.ErrUserAlreadyExists.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, *TokenPair, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, nil, err
	}

	emailHash, err := crypto.IndexEmail(email)
	if err != nil {
		return nil, nil, err
	}

	passwordHash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:             uuid.New().String(),
		Username:       username,
		EmailHash:      emailHash,
		PasswordHash:   passwordHash,
		EncryptionSalt: salt,
		KeyVersion:     models.KeyVersionV1,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Email хранится и как индекс, и как ciphertext:
	// хеш для поиска, ciphertext для восстановления значения
	user.EmailCiphertext, err = s.fields.Encrypt(user, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encrypt email: %w", err)
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", username))

	return user, pair, nil
}

// Login аутентифицирует пользователя по email и паролю.
// Порядок проверок фиксирован: сначала lockout, затем поиск и пароль.
// Неизвестный email и неверный пароль возвращают один и тот же
// ErrAuthenticationFailed.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*models.User, *TokenPair, error) {
	if s.lockout.IsLocked(ctx, email) {
		return nil, nil, ErrAccountLocked
	}

	emailHash, err := crypto.IndexEmail(email)
	if err != nil {
		return nil, nil, ErrAuthenticationFailed
	}

	user, err := s.users.GetUserByEmailHash(ctx, emailHash)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.lockout.RecordFailure(ctx, email, ip)
			return nil, nil, ErrAuthenticationFailed
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive || !crypto.VerifyPassword(password, user.PasswordHash) {
		s.lockout.RecordFailure(ctx, email, ip)
		return nil, nil, ErrAuthenticationFailed
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		// не фатально для входа
		s.logger.WarnContext(ctx, "failed to update last login",
			slog.String("user_id", user.ID), slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return user, pair, nil
}

// Refresh обменивает refresh token на новый access token.
// Access token в этом потоке не принимается: тип сверяется явно.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenSvc.Verify(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != token.TypeRefresh {
		return nil, fmt.Errorf("%w: access token used in refresh flow", token.ErrTokenMalformed)
	}

	// Токен должен быть среди выданных: logout делает его недействительным
	stored, err := s.tokens.GetRefreshToken(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	if s.now().After(stored.ExpiresAt) {
		return nil, token.ErrTokenExpired
	}

	accessToken, expiresIn, err := s.tokenSvc.IssueAccessToken(stored.UserID, defaultPermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// Logout отзывает refresh token. Уже отозванный токен — не ошибка.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokens.DeleteRefreshToken(ctx, hashToken(refreshToken))
	if err != nil && !errors.Is(err, storage.ErrTokenNotFound) {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// IsLocked сообщает, заблокирован ли identity.
func (s *AuthService) IsLocked(ctx context.Context, email string) bool {
	return s.lockout.IsLocked(ctx, email)
}

func (s *AuthService) issueTokens(ctx context.Context, userID string) (*TokenPair, error) {
	accessToken, expiresIn, err := s.tokenSvc.IssueAccessToken(userID, defaultPermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, jti, expiresAt, err := s.tokenSvc.IssueRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	record := &models.RefreshToken{
		ID:        jti,
		UserID:    userID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: expiresAt,
		CreatedAt: s.now(),
	}
	if err := s.tokens.SaveRefreshToken(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// hashToken возвращает SHA256 hex от значения токена.
// В БД хранится только хеш: утечка таблицы не дает рабочих токенов.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
