package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/storage"
)

// CreateUser creates a new user in the storage.
// The UNIQUE constraints on email_hash and username make the uniqueness
// check and the insert atomic: of two concurrent registrations with the
// same email exactly one succeeds.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email_hash, email_ciphertext, password_hash,
			encryption_salt, key_version, is_active, last_login, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.EmailHash,
		user.EmailCiphertext,
		user.PasswordHash,
		user.EncryptionSalt,
		user.KeyVersion,
		user.IsActive,
		user.LastLogin,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

const userColumns = `id, username, email_hash, email_ciphertext, password_hash,
	encryption_salt, key_version, is_active, last_login, created_at, updated_at`

func (s *Storage) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.EmailHash,
		&user.EmailCiphertext,
		&user.PasswordHash,
		&user.EncryptionSalt,
		&user.KeyVersion,
		&user.IsActive,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}

	return user, nil
}

// GetUserByEmailHash retrieves user by email digest
func (s *Storage) GetUserByEmailHash(ctx context.Context, emailHash string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email_hash = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, emailHash))
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, userID))
}

// UpdateUser updates user information.
// encryption_salt is deliberately absent from the statement: the salt is
// written once at registration and must never change afterwards.
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = ?, email_hash = ?, email_ciphertext = ?, password_hash = ?,
			key_version = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		user.Username,
		user.EmailHash,
		user.EmailCiphertext,
		user.PasswordHash,
		user.KeyVersion,
		user.IsActive,
		time.Now(),
		user.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return requireRowsAffected(result, storage.ErrUserNotFound)
}

// DeleteUser deletes user by ID. Owned records go via ON DELETE CASCADE.
func (s *Storage) DeleteUser(ctx context.Context, userID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return requireRowsAffected(result, storage.ErrUserNotFound)
}

// UpdateLastLogin updates the last login timestamp
func (s *Storage) UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, lastLogin, userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return requireRowsAffected(result, storage.ErrUserNotFound)
}

// requireRowsAffected возвращает notFound, если statement не затронул ни одной строки
func requireRowsAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
