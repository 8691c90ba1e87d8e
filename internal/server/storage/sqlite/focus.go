package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/storage"
)

const focusColumns = `id, user_id, task_id, session_type, planned_duration, actual_duration,
	started_at, ended_at, completed, interruptions, focus_rating, productivity_rating, created_at`

// CreateFocusSession creates a new focus session
func (s *Storage) CreateFocusSession(ctx context.Context, session *models.FocusSession) error {
	query := `
		INSERT INTO focus_sessions (` + focusColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		nullString(session.TaskID),
		session.SessionType,
		session.PlannedDuration,
		session.ActualDuration,
		session.StartedAt,
		session.EndedAt,
		session.Completed,
		session.Interruptions,
		session.FocusRating,
		session.ProductivityRating,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert focus session: %w", err)
	}

	return nil
}

func scanFocusSession(scan func(dest ...any) error) (*models.FocusSession, error) {
	session := &models.FocusSession{}
	var taskID sql.NullString
	var actualDuration, focusRating, productivityRating sql.NullInt64
	var endedAt sql.NullTime

	err := scan(
		&session.ID,
		&session.UserID,
		&taskID,
		&session.SessionType,
		&session.PlannedDuration,
		&actualDuration,
		&session.StartedAt,
		&endedAt,
		&session.Completed,
		&session.Interruptions,
		&focusRating,
		&productivityRating,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if taskID.Valid {
		session.TaskID = taskID.String
	}
	if actualDuration.Valid {
		v := int(actualDuration.Int64)
		session.ActualDuration = &v
	}
	if endedAt.Valid {
		session.EndedAt = &endedAt.Time
	}
	if focusRating.Valid {
		v := int(focusRating.Int64)
		session.FocusRating = &v
	}
	if productivityRating.Valid {
		v := int(productivityRating.Int64)
		session.ProductivityRating = &v
	}

	return session, nil
}

// GetFocusSession retrieves a focus session by id scoped to a user
func (s *Storage) GetFocusSession(ctx context.Context, userID, sessionID string) (*models.FocusSession, error) {
	query := `SELECT ` + focusColumns + ` FROM focus_sessions WHERE id = ? AND user_id = ?`

	row := s.db.QueryRowContext(ctx, query, sessionID, userID)
	session, err := scanFocusSession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get focus session: %w", err)
	}

	return session, nil
}

// GetUserFocusSessions retrieves all focus sessions for a user, newest first
func (s *Storage) GetUserFocusSessions(ctx context.Context, userID string) ([]*models.FocusSession, error) {
	query := `SELECT ` + focusColumns + ` FROM focus_sessions WHERE user_id = ? ORDER BY started_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query focus sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.FocusSession{}
	for rows.Next() {
		session, err := scanFocusSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan focus session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate focus sessions: %w", err)
	}

	return sessions, nil
}

// UpdateFocusSession updates a focus session
func (s *Storage) UpdateFocusSession(ctx context.Context, session *models.FocusSession) error {
	query := `
		UPDATE focus_sessions
		SET actual_duration = ?, ended_at = ?, completed = ?, interruptions = ?,
			focus_rating = ?, productivity_rating = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		session.ActualDuration,
		session.EndedAt,
		session.Completed,
		session.Interruptions,
		session.FocusRating,
		session.ProductivityRating,
		session.ID,
		session.UserID,
	)

	if err != nil {
		return fmt.Errorf("failed to update focus session: %w", err)
	}

	return requireRowsAffected(result, storage.ErrEntryNotFound)
}
