package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solos-dev/solos/internal/crypto"
	"github.com/solos-dev/solos/internal/models"
)

const testMasterSecret = "test-master-secret-0123456789abcdefghij"

func newFieldUser(t *testing.T, id string) *models.User {
	t.Helper()
	salt, err := crypto.GenerateSalt()
	require.NoError(t, err)
	return &models.User{
		ID:             id,
		EncryptionSalt: salt,
		KeyVersion:     models.KeyVersionV1,
	}
}

func TestNewFieldCryptoRequiresSecret(t *testing.T) {
	_, err := NewFieldCrypto("")
	require.Error(t, err)
}

func TestFieldCryptoRoundTrip(t *testing.T) {
	fc, err := NewFieldCrypto(testMasterSecret)
	require.NoError(t, err)

	user := newFieldUser(t, "u1")

	ciphertext, err := fc.Encrypt(user, "my private journal entry")
	require.NoError(t, err)
	assert.NotContains(t, string(ciphertext), "journal")

	plaintext, err := fc.Decrypt(user, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "my private journal entry", plaintext)
}

func TestFieldCryptoPerUserKeys(t *testing.T) {
	fc, err := NewFieldCrypto(testMasterSecret)
	require.NoError(t, err)

	alice := newFieldUser(t, "alice")
	bob := newFieldUser(t, "bob")
	// Специально даем Бобу ту же соль: ключ все равно другой,
	// потому что user id замешан в деривацию
	bob.EncryptionSalt = alice.EncryptionSalt

	ciphertext, err := fc.Encrypt(alice, "secret")
	require.NoError(t, err)

	_, err = fc.Decrypt(bob, ciphertext)
	require.Error(t, err)
	assert.ErrorIs(t, err, crypto.ErrIntegrity)
}

func TestFieldCryptoTamperDetected(t *testing.T) {
	fc, err := NewFieldCrypto(testMasterSecret)
	require.NoError(t, err)

	user := newFieldUser(t, "u1")
	ciphertext, err := fc.Encrypt(user, "secret")
	require.NoError(t, err)

	ciphertext[len(ciphertext)-1] ^= 0x01

	_, err = fc.Decrypt(user, ciphertext)
	require.Error(t, err)
	assert.ErrorIs(t, err, crypto.ErrIntegrity)
}
