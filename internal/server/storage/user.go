package storage

import (
	"context"
	"time"

	"github.com/solos-dev/solos/internal/models"
)

// UserStorage defines interface for user data persistence.
//
// EncryptionSalt is written exactly once by CreateUser and is never part of
// any UPDATE statement: regenerating a salt would change the derived key and
// silently orphan every ciphertext the user owns.
type UserStorage interface {
	// CreateUser creates a new user in the storage.
	// Returns ErrUserAlreadyExists if email_hash or username is taken.
	// The uniqueness check and the insert happen in one statement, so two
	// concurrent registrations with the same email yield exactly one success.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmailHash retrieves user by email digest.
	// Returns ErrUserNotFound if user doesn't exist.
	GetUserByEmailHash(ctx context.Context, emailHash string) (*models.User, error)

	// GetUserByID retrieves user by ID.
	// Returns ErrUserNotFound if user doesn't exist.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateUser updates mutable user fields (username, email, password hash,
	// active flag, key version). Never touches encryption_salt.
	// Returns ErrUserNotFound if user doesn't exist.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes user by ID together with all owned records.
	// Returns ErrUserNotFound if user doesn't exist.
	DeleteUser(ctx context.Context, userID string) error

	// UpdateLastLogin updates the last login timestamp.
	UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error
}
