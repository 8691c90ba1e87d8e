package boltaudit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solos-dev/solos/internal/models"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()

	log, err := New(context.Background(), filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	return log
}

func TestAppendAndCount(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		err := log.AppendFailure(ctx, &models.FailedAttempt{
			IdentityHash: "alice-hash",
			IPAddress:    "10.0.0.1",
			Timestamp:    now.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	count, err := log.CountFailuresSince(ctx, "alice-hash", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCountRespectsWindow(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	now := time.Now().UTC()

	// Две старые попытки и одна свежая
	for _, ts := range []time.Time{
		now.Add(-30 * time.Minute),
		now.Add(-20 * time.Minute),
		now.Add(-time.Minute),
	} {
		err := log.AppendFailure(ctx, &models.FailedAttempt{
			IdentityHash: "alice-hash",
			IPAddress:    "10.0.0.1",
			Timestamp:    ts,
		})
		require.NoError(t, err)
	}

	count, err := log.CountFailuresSince(ctx, "alice-hash", now.Add(-15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, count, "записи за пределами окна не учитываются")
}

func TestCountIsolatedPerIdentity(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	now := time.Now().UTC()

	require.NoError(t, log.AppendFailure(ctx, &models.FailedAttempt{
		IdentityHash: "alice-hash",
		IPAddress:    "10.0.0.1",
		Timestamp:    now,
	}))

	count, err := log.CountFailuresSince(ctx, "bob-hash", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCountSameTimestamp(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	ts := time.Now().UTC()

	// Записи с одинаковым timestamp не должны перезаписывать друг друга
	for i := 0; i < 5; i++ {
		require.NoError(t, log.AppendFailure(ctx, &models.FailedAttempt{
			IdentityHash: "alice-hash",
			IPAddress:    "10.0.0.1",
			Timestamp:    ts,
		}))
	}

	count, err := log.CountFailuresSince(ctx, "alice-hash", ts.Add(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
