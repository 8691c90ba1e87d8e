package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/storage"
)

// CreateMoodLog creates a new mood/energy log entry
func (s *Storage) CreateMoodLog(ctx context.Context, log *models.MoodEnergyLog) error {
	query := `
		INSERT INTO mood_energy_logs (id, user_id, mood_rating, energy_level,
			time_of_day, input_method, notes_ciphertext, logged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		log.ID,
		log.UserID,
		log.MoodRating,
		log.EnergyLevel,
		log.TimeOfDay,
		log.InputMethod,
		log.NotesCiphertext,
		log.LoggedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert mood log: %w", err)
	}

	return nil
}

// GetUserMoodLogs retrieves mood logs for a user logged after since, newest first
func (s *Storage) GetUserMoodLogs(ctx context.Context, userID string, since time.Time) ([]*models.MoodEnergyLog, error) {
	query := `
		SELECT id, user_id, mood_rating, energy_level, time_of_day, input_method,
			notes_ciphertext, logged_at
		FROM mood_energy_logs
		WHERE user_id = ?
	`
	args := []any{userID}

	if !since.IsZero() {
		query += ` AND logged_at >= ?`
		args = append(args, since)
	}
	query += ` ORDER BY logged_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood logs: %w", err)
	}
	defer rows.Close()

	logs := []*models.MoodEnergyLog{}
	for rows.Next() {
		log := &models.MoodEnergyLog{}
		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.MoodRating,
			&log.EnergyLevel,
			&log.TimeOfDay,
			&log.InputMethod,
			&log.NotesCiphertext,
			&log.LoggedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mood log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mood logs: %w", err)
	}

	return logs, nil
}

// DeleteMoodLog deletes a mood log entry
func (s *Storage) DeleteMoodLog(ctx context.Context, userID, logID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM mood_energy_logs WHERE id = ? AND user_id = ?`, logID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete mood log: %w", err)
	}

	return requireRowsAffected(result, storage.ErrEntryNotFound)
}
