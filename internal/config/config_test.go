package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMasterSecret = "test-master-secret-0123456789abcdefghij"
	testJWTSecret    = "test-jwt-secret-0123456789abcdefghijklm"
)

func setRequiredSecrets(t *testing.T) {
	t.Setenv("SOLOS_MASTER_SECRET", testMasterSecret)
	t.Setenv("SOLOS_JWT_SECRET", testJWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredSecrets(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 5, cfg.LockoutLimit)
	assert.Equal(t, 15*time.Minute, cfg.LockoutWindow)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("SOLOS_ADDR", ":9000")
	t.Setenv("SOLOS_ACCESS_TOKEN_TTL", "30m")
	t.Setenv("SOLOS_LOCKOUT_LIMIT", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 3, cfg.LockoutLimit)
}

func TestLoadMissingSecrets(t *testing.T) {
	tests := []struct {
		name   string
		master string
		jwt    string
		errMsg string
	}{
		{
			name:   "missing master secret",
			master: "",
			jwt:    testJWTSecret,
			errMsg: "SOLOS_MASTER_SECRET",
		},
		{
			name:   "short master secret",
			master: "too-short",
			jwt:    testJWTSecret,
			errMsg: "SOLOS_MASTER_SECRET",
		},
		{
			name:   "missing jwt secret",
			master: testMasterSecret,
			jwt:    "",
			errMsg: "SOLOS_JWT_SECRET",
		},
		{
			name:   "short jwt secret",
			master: testMasterSecret,
			jwt:    strings.Repeat("x", MinSecretLen-1),
			errMsg: "SOLOS_JWT_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SOLOS_MASTER_SECRET", tt.master)
			t.Setenv("SOLOS_JWT_SECRET", tt.jwt)

			// Отсутствующий секрет — отказ на старте, не runtime ошибка
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadInvalidValues(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("SOLOS_ACCESS_TOKEN_TTL", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOLOS_ACCESS_TOKEN_TTL")
}

func TestValidateTTLOrder(t *testing.T) {
	cfg := &Config{
		MasterSecret:    testMasterSecret,
		JWTSecret:       testJWTSecret,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Minute,
		LockoutLimit:    5,
		LockoutWindow:   15 * time.Minute,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh token TTL")
}
