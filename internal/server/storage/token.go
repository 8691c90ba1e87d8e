package storage

import (
	"context"

	"github.com/solos-dev/solos/internal/models"
)

// TokenStorage defines interface for refresh token persistence.
// Only token hashes are stored. Deleting a stored hash is the current
// revocation mechanism (logout); a jti denylist can be layered on top later.
type TokenStorage interface {
	// SaveRefreshToken stores a new refresh token record
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// GetRefreshToken retrieves refresh token record by token hash.
	// Returns ErrTokenNotFound if token doesn't exist.
	GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// DeleteRefreshToken deletes refresh token by token hash.
	// Returns ErrTokenNotFound if token doesn't exist.
	DeleteRefreshToken(ctx context.Context, tokenHash string) error

	// DeleteUserTokens deletes all refresh tokens for a user.
	// Returns number of deleted tokens.
	DeleteUserTokens(ctx context.Context, userID string) (int, error)

	// DeleteExpiredTokens removes all expired tokens.
	// Returns number of deleted tokens.
	DeleteExpiredTokens(ctx context.Context) (int, error)
}
