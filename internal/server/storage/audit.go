package storage

import (
	"context"
	"time"

	"github.com/solos-dev/solos/internal/models"
)

// AuditLog defines a read/append interface over a time-ordered log of
// failed login attempts. Records are never deleted inside the lockout
// window: the lock state is derived by counting, so entries expire
// naturally once the window slides past them.
type AuditLog interface {
	// AppendFailure appends one failed attempt record
	AppendFailure(ctx context.Context, attempt *models.FailedAttempt) error

	// CountFailuresSince counts failed attempts for an identity digest
	// recorded at or after since
	CountFailuresSince(ctx context.Context, identityHash string, since time.Time) (int, error)
}
