package models

import "time"

// KeyVersionV1 — текущая версия схемы деривации/шифрования.
// Хранится в записи пользователя, чтобы миграция на новую схему
// не требовала изменения структуры таблицы.
const KeyVersionV1 = "v1"

// User представляет запись пользователя в системе.
// Email никогда не хранится в открытом виде: EmailHash используется
// для поиска по равенству, EmailCiphertext — для восстановления значения.
type User struct {
	ID              string     `json:"id"`          // UUID пользователя
	Username        string     `json:"username"`    // уникальный username
	EmailHash       string     `json:"email_hash"`  // SHA256 hex от нормализованного email, уникальный индекс
	EmailCiphertext []byte     `json:"-"`           // email, зашифрованный производным ключом пользователя
	PasswordHash    string     `json:"-"`           // bcrypt хеш пароля
	EncryptionSalt  []byte     `json:"-"`           // 32 bytes, генерируется один раз при регистрации, неизменяемая
	KeyVersion      string     `json:"key_version"` // версия схемы шифрования (сейчас всегда v1)
	IsActive        bool       `json:"is_active"`   // аккаунт активен
	LastLogin       *time.Time `json:"last_login"`  // время последнего входа
	CreatedAt       time.Time  `json:"created_at"`  // время создания
	UpdatedAt       time.Time  `json:"updated_at"`  // время последнего обновления
}

// RefreshToken представляет выданный refresh token пользователя.
// Хранится только SHA256 хеш значения токена, не сам токен.
type RefreshToken struct {
	ID        string    `json:"id"`         // jti токена
	UserID    string    `json:"user_id"`    // ID пользователя
	TokenHash string    `json:"token_hash"` // SHA256 hex от значения токена
	ExpiresAt time.Time `json:"expires_at"` // время истечения
	CreatedAt time.Time `json:"created_at"` // время создания
}
