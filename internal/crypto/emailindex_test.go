package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexEmail(t *testing.T) {
	digest, err := IndexEmail("user@example.com")
	require.NoError(t, err)
	assert.Len(t, digest, 64) // SHA256 hex

	// Детерминированность
	digest2, err := IndexEmail("user@example.com")
	require.NoError(t, err)
	assert.Equal(t, digest, digest2)

	// Пустой email — ошибка
	_, err = IndexEmail("   ")
	require.Error(t, err)
}

func TestIndexEmailCaseNormalized(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
	}{
		{
			name:   "upper vs lower",
			first:  "User@Example.COM",
			second: "user@example.com",
		},
		{
			name:   "surrounding whitespace",
			first:  "  user@example.com  ",
			second: "user@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d1, err := IndexEmail(tt.first)
			require.NoError(t, err)
			d2, err := IndexEmail(tt.second)
			require.NoError(t, err)
			assert.Equal(t, d1, d2, "email varying only in case/spacing must index identically")
		})
	}
}

func TestIndexEmailDistinct(t *testing.T) {
	d1, err := IndexEmail("user@example.com")
	require.NoError(t, err)
	d2, err := IndexEmail("other@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2)
}

func TestIndexIdentity(t *testing.T) {
	d1 := IndexIdentity("Alice@Example.com")
	d2 := IndexIdentity("alice@example.com")
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)
}
