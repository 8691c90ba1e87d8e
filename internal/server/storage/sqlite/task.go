package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/solos-dev/solos/internal/models"
	"github.com/solos-dev/solos/internal/server/storage"
)

const taskColumns = `id, user_id, title, description, status, priority, category,
	completion_percentage, scheduled_start, scheduled_end, completed_at, created_at, updated_at`

// CreateTask creates a new task
func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Category,
		task.CompletionPercentage,
		task.ScheduledStart,
		task.ScheduledEnd,
		task.CompletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

func scanTask(scan func(dest ...any) error) (*models.Task, error) {
	task := &models.Task{}
	var scheduledStart, scheduledEnd, completedAt sql.NullTime

	err := scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Category,
		&task.CompletionPercentage,
		&scheduledStart,
		&scheduledEnd,
		&completedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if scheduledStart.Valid {
		task.ScheduledStart = &scheduledStart.Time
	}
	if scheduledEnd.Valid {
		task.ScheduledEnd = &scheduledEnd.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return task, nil
}

// GetTask retrieves a task by id scoped to a user
func (s *Storage) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`

	row := s.db.QueryRowContext(ctx, query, taskID, userID)
	task, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// GetUserTasks retrieves all tasks for a user, optionally filtered by status
func (s *Storage) GetUserTasks(ctx context.Context, userID, status string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask updates a task
func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, category = ?,
			completion_percentage = ?, scheduled_start = ?, scheduled_end = ?,
			completed_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Category,
		task.CompletionPercentage,
		task.ScheduledStart,
		task.ScheduledEnd,
		task.CompletedAt,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)

	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return requireRowsAffected(result, storage.ErrEntryNotFound)
}

// DeleteTask deletes a task
func (s *Storage) DeleteTask(ctx context.Context, userID, taskID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return requireRowsAffected(result, storage.ErrEntryNotFound)
}
