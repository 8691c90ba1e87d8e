package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// NonceSize - размер nonce для AES-GCM (12 bytes стандартный размер)
	NonceSize = 12
)

// ErrIntegrity возвращается, когда ciphertext поврежден, обрезан или
// расшифровывается неправильным ключом. Эти случаи неразличимы для
// вызывающего кода: частичный plaintext никогда не возвращается.
var ErrIntegrity = errors.New("ciphertext integrity check failed")

// Encrypt шифрует данные с использованием AES-256-GCM.
// Формат результата: nonce (12 bytes) + ciphertext + auth_tag (16 bytes).
// Nonce генерируется заново на каждый вызов, поэтому повторное шифрование
// одинакового plaintext дает разный результат — ciphertext нельзя
// использовать для поиска по равенству.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("plaintext cannot be empty")
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	// Генерируем случайный nonce
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// GCM автоматически добавляет authentication tag в конец
	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	// Результат самодостаточен: nonce + ciphertext + auth_tag,
	// для расшифровки нужен только ключ
	result := make([]byte, 0, len(nonce)+len(ciphertext))
	result = append(result, nonce...)
	result = append(result, ciphertext...)

	return result, nil
}

// EncryptToBase64 шифрует данные и возвращает результат в Base64
func EncryptToBase64(key, plaintext []byte) (string, error) {
	encrypted, err := Encrypt(key, plaintext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encrypted), nil
}

// Decrypt дешифрует данные, зашифрованные с помощью Encrypt.
// Ожидает формат: nonce (12 bytes) + ciphertext + auth_tag (16 bytes).
// Любое повреждение данных или неправильный ключ возвращают ErrIntegrity.
func Decrypt(key, encrypted []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	if len(encrypted) < NonceSize {
		return nil, fmt.Errorf("%w: data too short", ErrIntegrity)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := encrypted[:NonceSize]
	ciphertext := encrypted[NonceSize:]

	// Open проверяет authentication tag; ошибка означает tampering
	// или неправильный ключ — различить эти случаи невозможно
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIntegrity, err)
	}

	return plaintext, nil
}

// DecryptFromBase64 дешифрует данные из Base64
func DecryptFromBase64(key []byte, encryptedBase64 string) ([]byte, error) {
	encrypted, err := base64.StdEncoding.DecodeString(encryptedBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64", ErrIntegrity)
	}
	return Decrypt(key, encrypted)
}
