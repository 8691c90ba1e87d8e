package sqlite

import (
	"context"
	"fmt"

	"github.com/solos-dev/solos/internal/models"
)

const conversationColumns = `id, user_id, session_id, message_ciphertext,
	response_ciphertext, key_version, created_at`

// CreateConversation stores one encrypted message/response pair
func (s *Storage) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	query := `
		INSERT INTO conversations (` + conversationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		conv.ID,
		conv.UserID,
		conv.SessionID,
		conv.MessageCiphertext,
		conv.ResponseCiphertext,
		conv.KeyVersion,
		conv.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}

	return nil
}

func (s *Storage) queryConversations(ctx context.Context, query string, args ...any) ([]*models.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	convs := []*models.Conversation{}
	for rows.Next() {
		conv := &models.Conversation{}
		err := rows.Scan(
			&conv.ID,
			&conv.UserID,
			&conv.SessionID,
			&conv.MessageCiphertext,
			&conv.ResponseCiphertext,
			&conv.KeyVersion,
			&conv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}

	return convs, nil
}

// GetSessionConversations retrieves all pairs of a chat session, oldest first
func (s *Storage) GetSessionConversations(ctx context.Context, userID, sessionID string) ([]*models.Conversation, error) {
	query := `SELECT ` + conversationColumns + `
		FROM conversations
		WHERE user_id = ? AND session_id = ?
		ORDER BY created_at ASC`
	return s.queryConversations(ctx, query, userID, sessionID)
}

// GetUserConversations retrieves all pairs for a user, oldest first
func (s *Storage) GetUserConversations(ctx context.Context, userID string) ([]*models.Conversation, error) {
	query := `SELECT ` + conversationColumns + `
		FROM conversations
		WHERE user_id = ?
		ORDER BY created_at ASC`
	return s.queryConversations(ctx, query, userID)
}
