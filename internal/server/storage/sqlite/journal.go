package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/storage"
)

// CreateJournalEntry creates a new journal entry
func (s *Storage) CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (id, user_id, title, body_ciphertext, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Title,
		entry.BodyCiphertext,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	return nil
}

// GetJournalEntry retrieves a journal entry by id scoped to a user
func (s *Storage) GetJournalEntry(ctx context.Context, userID, entryID string) (*models.JournalEntry, error) {
	query := `
		SELECT id, user_id, title, body_ciphertext, created_at, updated_at
		FROM journal_entries
		WHERE id = ? AND user_id = ?
	`

	entry := &models.JournalEntry{}
	err := s.db.QueryRowContext(ctx, query, entryID, userID).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Title,
		&entry.BodyCiphertext,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	return entry, nil
}

// GetUserJournalEntries retrieves all journal entries for a user, newest first
func (s *Storage) GetUserJournalEntries(ctx context.Context, userID string) ([]*models.JournalEntry, error) {
	query := `
		SELECT id, user_id, title, body_ciphertext, created_at, updated_at
		FROM journal_entries
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.JournalEntry{}
	for rows.Next() {
		entry := &models.JournalEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Title,
			&entry.BodyCiphertext,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal entries: %w", err)
	}

	return entries, nil
}

// DeleteJournalEntry deletes a journal entry
func (s *Storage) DeleteJournalEntry(ctx context.Context, userID, entryID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM journal_entries WHERE id = ? AND user_id = ?`, entryID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	return requireRowsAffected(result, storage.ErrEntryNotFound)
}
