package service

import (
	"fmt"

	"github.com/solos-dev/solos/internal/crypto"
	"github.com/solos-dev/solos/internal/models"
)

// FieldCrypto шифрует и дешифрует чувствительные поля производным
// ключом пользователя. Ключ вычисляется на каждый вызов и нигде не
// кешируется: закешированный ключ пережил бы ротацию master secret.
type FieldCrypto struct {
	masterSecret string
}

// NewFieldCrypto создает сервис шифрования полей.
func NewFieldCrypto(masterSecret string) (*FieldCrypto, error) {
	if masterSecret == "" {
		return nil, fmt.Errorf("master secret cannot be empty")
	}
	return &FieldCrypto{masterSecret: masterSecret}, nil
}

// Encrypt шифрует поле производным ключом пользователя.
func (f *FieldCrypto) Encrypt(user *models.User, plaintext string) ([]byte, error) {
	key, err := crypto.DeriveKey(f.masterSecret, user.ID, user.EncryptionSalt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	ciphertext, err := crypto.Encrypt(key, []byte(plaintext))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt field: %w", err)
	}

	return ciphertext, nil
}

// Decrypt дешифрует поле производным ключом пользователя.
// Возвращает crypto.ErrIntegrity для поврежденных данных.
// Пустой ciphertext — ответственность вызывающего кода: опциональные
// поля проверяются на len == 0 до вызова.
func (f *FieldCrypto) Decrypt(user *models.User, ciphertext []byte) (string, error) {
	key, err := crypto.DeriveKey(f.masterSecret, user.ID, user.EncryptionSalt)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}

	plaintext, err := crypto.Decrypt(key, ciphertext)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
