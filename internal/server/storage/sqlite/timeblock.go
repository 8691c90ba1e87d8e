package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/storage"
)

const timeBlockColumns = `id, user_id, title, start_time, end_time, block_type, color,
	is_flexible, buffer_time_minutes, linked_task_id, location, description, all_day,
	created_at, updated_at`

// CreateTimeBlock creates a new time block
func (s *Storage) CreateTimeBlock(ctx context.Context, block *models.TimeBlock) error {
	query := `
		INSERT INTO time_blocks (` + timeBlockColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		block.ID,
		block.UserID,
		block.Title,
		block.StartTime,
		block.EndTime,
		block.BlockType,
		block.Color,
		block.IsFlexible,
		block.BufferTimeMinutes,
		nullString(block.LinkedTaskID),
		block.Location,
		block.Description,
		block.AllDay,
		block.CreatedAt,
		block.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert time block: %w", err)
	}

	return nil
}

func scanTimeBlock(scan func(dest ...any) error) (*models.TimeBlock, error) {
	block := &models.TimeBlock{}
	var linkedTaskID sql.NullString

	err := scan(
		&block.ID,
		&block.UserID,
		&block.Title,
		&block.StartTime,
		&block.EndTime,
		&block.BlockType,
		&block.Color,
		&block.IsFlexible,
		&block.BufferTimeMinutes,
		&linkedTaskID,
		&block.Location,
		&block.Description,
		&block.AllDay,
		&block.CreatedAt,
		&block.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if linkedTaskID.Valid {
		block.LinkedTaskID = linkedTaskID.String
	}

	return block, nil
}

// GetTimeBlock retrieves a time block by id scoped to a user
func (s *Storage) GetTimeBlock(ctx context.Context, userID, blockID string) (*models.TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks WHERE id = ? AND user_id = ?`

	row := s.db.QueryRowContext(ctx, query, blockID, userID)
	block, err := scanTimeBlock(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get time block: %w", err)
	}

	return block, nil
}

// GetUserTimeBlocks retrieves time blocks overlapping [from, to), ordered by start time
func (s *Storage) GetUserTimeBlocks(ctx context.Context, userID string, from, to time.Time) ([]*models.TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks WHERE user_id = ?`
	args := []any{userID}

	if !from.IsZero() {
		query += ` AND end_time > ?`
		args = append(args, from)
	}
	if !to.IsZero() {
		query += ` AND start_time < ?`
		args = append(args, to)
	}
	query += ` ORDER BY start_time ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time blocks: %w", err)
	}
	defer rows.Close()

	blocks := []*models.TimeBlock{}
	for rows.Next() {
		block, err := scanTimeBlock(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time block: %w", err)
		}
		blocks = append(blocks, block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time blocks: %w", err)
	}

	return blocks, nil
}

// UpdateTimeBlock updates a time block
func (s *Storage) UpdateTimeBlock(ctx context.Context, block *models.TimeBlock) error {
	query := `
		UPDATE time_blocks
		SET title = ?, start_time = ?, end_time = ?, block_type = ?, color = ?,
			is_flexible = ?, buffer_time_minutes = ?, linked_task_id = ?,
			location = ?, description = ?, all_day = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		block.Title,
		block.StartTime,
		block.EndTime,
		block.BlockType,
		block.Color,
		block.IsFlexible,
		block.BufferTimeMinutes,
		nullString(block.LinkedTaskID),
		block.Location,
		block.Description,
		block.AllDay,
		block.UpdatedAt,
		block.ID,
		block.UserID,
	)

	if err != nil {
		return fmt.Errorf("failed to update time block: %w", err)
	}

	return requireRowsAffected(result, storage.ErrEntryNotFound)
}

// DeleteTimeBlock deletes a time block
func (s *Storage) DeleteTimeBlock(ctx context.Context, userID, blockID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM time_blocks WHERE id = ? AND user_id = ?`, blockID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete time block: %w", err)
	}

	return requireRowsAffected(result, storage.ErrEntryNotFound)
}

// nullString преобразует пустую строку в NULL для nullable foreign keys
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
