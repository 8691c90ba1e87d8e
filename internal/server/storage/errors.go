package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that a user with this email or username
	// already exists. Returned by the uniqueness constraint on email_hash
	// and username, which makes concurrent registration race-safe.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTokenNotFound indicates that refresh token was not found
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrEntryNotFound indicates that a domain entity was not found
	ErrEntryNotFound = errors.New("entry not found")
)
