package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Параметры деривации ключей
const (
	// PBKDF2Iterations - количество итераций PBKDF2-HMAC-SHA256.
	// Значение фиксировано: его изменение меняет производный ключ
	// и делает существующие ciphertext нечитаемыми без миграции key_version.
	PBKDF2Iterations = 100000
	// KeySize - длина производного ключа в байтах (AES-256)
	KeySize = 32
	// SaltSize - размер соли в байтах
	SaltSize = 32
)

// GenerateSalt генерирует криптографически случайную соль указанного размера.
// Соль генерируется ровно один раз при регистрации пользователя:
// повторная генерация для существующего пользователя меняет производный ключ
// и навсегда теряет все ранее зашифрованные поля.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// GenerateSaltBase64 генерирует криптографически случайную соль и возвращает ее в Base64
func GenerateSaltBase64() (string, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// DeriveKey генерирует уникальный симметричный ключ пользователя из
// master secret, идентификатора пользователя и соли.
// Детерминированная функция: одинаковые входы всегда дают одинаковый ключ.
// userID замешивается в материал ключа, поэтому два пользователя
// со случайно совпавшими солями все равно получают разные ключи.
func DeriveKey(masterSecret, userID string, salt []byte) ([]byte, error) {
	if masterSecret == "" {
		return nil, fmt.Errorf("master secret cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	material := []byte(masterSecret + ":" + userID)
	key := pbkdf2.Key(material, salt, PBKDF2Iterations, KeySize, sha256.New)

	return key, nil
}

// DeriveKeyFromBase64Salt генерирует ключ из Base64-кодированной соли
func DeriveKeyFromBase64Salt(masterSecret, userID, saltBase64 string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(saltBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	return DeriveKey(masterSecret, userID, salt)
}
