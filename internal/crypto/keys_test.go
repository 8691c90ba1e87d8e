package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt1, SaltSize)

	salt2, err := GenerateSalt()
	require.NoError(t, err)

	// Две соли не должны совпадать
	assert.NotEqual(t, salt1, salt2)
}

func TestGenerateSaltBase64(t *testing.T) {
	saltB64, err := GenerateSaltBase64()
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(saltB64)
	require.NoError(t, err)
	assert.Len(t, decoded, SaltSize)
}

func TestDeriveKey(t *testing.T) {
	validSalt := make([]byte, SaltSize)
	for i := range validSalt {
		validSalt[i] = byte(i)
	}

	tests := []struct {
		name         string
		masterSecret string
		userID       string
		errMsg       string
		salt         []byte
		wantErr      bool
	}{
		{
			name:         "successful derivation",
			masterSecret: "test-master-secret-0123456789abcdef",
			userID:       "user-1",
			salt:         validSalt,
			wantErr:      false,
		},
		{
			name:         "empty master secret",
			masterSecret: "",
			userID:       "user-1",
			salt:         validSalt,
			wantErr:      true,
			errMsg:       "master secret cannot be empty",
		},
		{
			name:         "empty user id",
			masterSecret: "test-master-secret-0123456789abcdef",
			userID:       "",
			salt:         validSalt,
			wantErr:      true,
			errMsg:       "user id cannot be empty",
		},
		{
			name:         "invalid salt length",
			masterSecret: "test-master-secret-0123456789abcdef",
			userID:       "user-1",
			salt:         make([]byte, 16),
			wantErr:      true,
			errMsg:       "salt must be 32 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveKey(tt.masterSecret, tt.userID, tt.salt)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, key)
			} else {
				require.NoError(t, err)
				assert.Len(t, key, KeySize)
			}
		})
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	// Одинаковые входы всегда дают одинаковый ключ
	key1, err := DeriveKey("master-secret", "user-1", salt)
	require.NoError(t, err)

	key2, err := DeriveKey("master-secret", "user-1", salt)
	require.NoError(t, err)

	assert.Equal(t, key1, key2, "деривация должна быть детерминированной")
}

func TestDeriveKeyUniquePerUser(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	// Даже с одинаковой солью разные пользователи получают разные ключи
	key1, err := DeriveKey("master-secret", "user-1", salt)
	require.NoError(t, err)

	key2, err := DeriveKey("master-secret", "user-2", salt)
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
}

func TestDeriveKeyDependsOnAllInputs(t *testing.T) {
	salt1, err := GenerateSalt()
	require.NoError(t, err)
	salt2, err := GenerateSalt()
	require.NoError(t, err)

	base, err := DeriveKey("master-secret", "user-1", salt1)
	require.NoError(t, err)

	otherSecret, err := DeriveKey("other-secret", "user-1", salt1)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherSecret)

	otherSalt, err := DeriveKey("master-secret", "user-1", salt2)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherSalt)
}

func TestDeriveKeyFromBase64Salt(t *testing.T) {
	saltB64, err := GenerateSaltBase64()
	require.NoError(t, err)

	key, err := DeriveKeyFromBase64Salt("master-secret", "user-1", saltB64)
	require.NoError(t, err)
	assert.Len(t, key, KeySize)

	// Невалидный base64
	_, err = DeriveKeyFromBase64Salt("master-secret", "user-1", "not-valid-base64!!!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode salt")
}
