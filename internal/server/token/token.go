package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Типы токенов. Access и refresh подписываются одинаково,
// но различаются claim token_type: проверка соответствия типа
// потоку — обязанность вызывающего кода (middleware, refresh handler).
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

const issuer = "solos"

// Типизированные ошибки верификации.
var (
	// ErrTokenExpired - подпись валидна, но срок действия истек
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed - структурно поврежденный токен или невалидная
	// подпись; более сильный сигнал подделки, чем ErrTokenExpired
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims представляет полезную нагрузку токена.
// Каждый токен несет случайный jti (RegisteredClaims.ID) — задел под
// revocation list, который можно добавить без изменения формата.
type Claims struct {
	TokenType   string   `json:"token_type"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Service выдает и проверяет JWT токены (HS256).
// Верификация — чистая функция от секрета и байтов токена,
// безопасна для конкурентных вызовов без координации.
type Service struct {
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	now             func() time.Time
}

// NewService создает новый сервис токенов.
// secret должен быть криптографически стойкой случайной строкой.
func NewService(secret string, accessTokenTTL, refreshTokenTTL time.Duration) *Service {
	return &Service{
		secret:          []byte(secret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		now:             time.Now,
	}
}

// WithClock подменяет источник времени. Используется в тестах.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IssueAccessToken выдает короткоживущий access token с permissions.
func (s *Service) IssueAccessToken(userID string, permissions []string) (string, int64, error) {
	tok, err := s.issue(userID, TypeAccess, permissions, s.accessTokenTTL)
	if err != nil {
		return "", 0, err
	}
	return tok, int64(s.accessTokenTTL.Seconds()), nil
}

// IssueRefreshToken выдает долгоживущий refresh token.
// Возвращает токен, его jti и время истечения.
func (s *Service) IssueRefreshToken(userID string) (string, string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.refreshTokenTTL)
	jti := uuid.New().String()

	tok, err := s.signed(userID, TypeRefresh, nil, jti, now, expiresAt)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return tok, jti, expiresAt, nil
}

func (s *Service) issue(userID, tokenType string, permissions []string, ttl time.Duration) (string, error) {
	now := s.now()
	return s.signed(userID, tokenType, permissions, uuid.New().String(), now, now.Add(ttl))
}

func (s *Service) signed(userID, tokenType string, permissions []string, jti string, now, expiresAt time.Time) (string, error) {
	claims := Claims{
		TokenType:   tokenType,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify проверяет подпись и срок действия токена.
// Возвращает claims либо ErrTokenExpired / ErrTokenMalformed.
// Тип токена Verify не проверяет: caller обязан сверить claims.TokenType
// с ожидаемым потоком (access flow не принимает refresh token и наоборот).
func (s *Service) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Принимаем только HMAC: токен с alg=none или RS256 — подделка
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.TokenType != TypeAccess && claims.TokenType != TypeRefresh {
		return nil, fmt.Errorf("%w: unknown token type %q", ErrTokenMalformed, claims.TokenType)
	}

	return claims, nil
}
