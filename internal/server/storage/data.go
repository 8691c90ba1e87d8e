package storage

import (
	"context"
	"time"

	"github.com/solos-dev/solos/internal/models"
)

// TaskStorage defines interface for task persistence
type TaskStorage interface {
	// CreateTask creates a new task
	CreateTask(ctx context.Context, task *models.Task) error

	// GetTask retrieves a task by id scoped to a user.
	// Returns ErrEntryNotFound if task doesn't exist or belongs to another user.
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)

	// GetUserTasks retrieves all tasks for a user, optionally filtered by status.
	// Empty status means no filter. Returns empty slice if none found.
	GetUserTasks(ctx context.Context, userID, status string) ([]*models.Task, error)

	// UpdateTask updates a task.
	// Returns ErrEntryNotFound if task doesn't exist or belongs to another user.
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask deletes a task.
	// Returns ErrEntryNotFound if task doesn't exist or belongs to another user.
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// MoodStorage defines interface for mood/energy log persistence
type MoodStorage interface {
	// CreateMoodLog creates a new mood/energy log entry
	CreateMoodLog(ctx context.Context, log *models.MoodEnergyLog) error

	// GetUserMoodLogs retrieves mood logs for a user logged after since,
	// newest first. Zero since means no lower bound.
	GetUserMoodLogs(ctx context.Context, userID string, since time.Time) ([]*models.MoodEnergyLog, error)

	// DeleteMoodLog deletes a mood log entry.
	// Returns ErrEntryNotFound if entry doesn't exist or belongs to another user.
	DeleteMoodLog(ctx context.Context, userID, logID string) error
}

// JournalStorage defines interface for journal entry persistence
type JournalStorage interface {
	// CreateJournalEntry creates a new journal entry
	CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error

	// GetJournalEntry retrieves a journal entry by id scoped to a user.
	// Returns ErrEntryNotFound if entry doesn't exist or belongs to another user.
	GetJournalEntry(ctx context.Context, userID, entryID string) (*models.JournalEntry, error)

	// GetUserJournalEntries retrieves all journal entries for a user, newest first
	GetUserJournalEntries(ctx context.Context, userID string) ([]*models.JournalEntry, error)

	// DeleteJournalEntry deletes a journal entry.
	// Returns ErrEntryNotFound if entry doesn't exist or belongs to another user.
	DeleteJournalEntry(ctx context.Context, userID, entryID string) error
}

// TimeBlockStorage defines interface for time block persistence
type TimeBlockStorage interface {
	// CreateTimeBlock creates a new time block
	CreateTimeBlock(ctx context.Context, block *models.TimeBlock) error

	// GetTimeBlock retrieves a time block by id scoped to a user.
	// Returns ErrEntryNotFound if block doesn't exist or belongs to another user.
	GetTimeBlock(ctx context.Context, userID, blockID string) (*models.TimeBlock, error)

	// GetUserTimeBlocks retrieves time blocks overlapping [from, to), ordered
	// by start time. Zero bounds mean no filter on that side.
	GetUserTimeBlocks(ctx context.Context, userID string, from, to time.Time) ([]*models.TimeBlock, error)

	// UpdateTimeBlock updates a time block.
	// Returns ErrEntryNotFound if block doesn't exist or belongs to another user.
	UpdateTimeBlock(ctx context.Context, block *models.TimeBlock) error

	// DeleteTimeBlock deletes a time block.
	// Returns ErrEntryNotFound if block doesn't exist or belongs to another user.
	DeleteTimeBlock(ctx context.Context, userID, blockID string) error
}

// FocusStorage defines interface for focus session persistence
type FocusStorage interface {
	// CreateFocusSession creates a new focus session
	CreateFocusSession(ctx context.Context, session *models.FocusSession) error

	// GetFocusSession retrieves a focus session by id scoped to a user.
	// Returns ErrEntryNotFound if session doesn't exist or belongs to another user.
	GetFocusSession(ctx context.Context, userID, sessionID string) (*models.FocusSession, error)

	// GetUserFocusSessions retrieves all focus sessions for a user, newest first
	GetUserFocusSessions(ctx context.Context, userID string) ([]*models.FocusSession, error)

	// UpdateFocusSession updates a focus session (typically to end it).
	// Returns ErrEntryNotFound if session doesn't exist or belongs to another user.
	UpdateFocusSession(ctx context.Context, session *models.FocusSession) error
}

// ConversationStorage defines interface for chat history persistence
type ConversationStorage interface {
	// CreateConversation stores one encrypted message/response pair
	CreateConversation(ctx context.Context, conv *models.Conversation) error

	// GetSessionConversations retrieves all pairs of a chat session,
	// oldest first
	GetSessionConversations(ctx context.Context, userID, sessionID string) ([]*models.Conversation, error)

	// GetUserConversations retrieves all pairs for a user, oldest first.
	// Used by the GDPR export.
	GetUserConversations(ctx context.Context, userID string) ([]*models.Conversation, error)
}
