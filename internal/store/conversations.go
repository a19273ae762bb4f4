package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	errx "github.com/taskative-core/server/internal/core/error"
	logx "github.com/taskative-core/server/pkg/logger"
)

// CreateConversation starts an empty conversation owned by the user.
func (s *Store) CreateConversation(ctx context.Context, userID string) (*Conversation, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO conversations (user_id, created_at, updated_at) VALUES (?, ?, ?)",
		userID, now, now,
	)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to insert conversation")
		return nil, errx.WrapStorage(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert conversation id: %w", err)
	}

	logx.Debug().Int64("conversation_id", id).Str("user_id", userID).Msg("conversation created")
	return &Conversation{ID: id, UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
}

// GetConversation fetches a conversation by id. Ownership is not checked
// here: the chat endpoint must distinguish a missing conversation (404)
// from a foreign one (403), so it needs the owner back.
func (s *Store) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	var c Conversation
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_at, updated_at FROM conversations WHERE id = ?",
		id,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		logx.Error().Err(err).Int64("conversation_id", id).Msg("failed to get conversation")
		return nil, errx.WrapStorage(err)
	}
	return &c, nil
}

// TouchConversation bumps the conversation's updated_at.
func (s *Store) TouchConversation(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET updated_at = ? WHERE id = ?",
		time.Now().UTC(), id,
	)
	if err != nil {
		logx.Error().Err(err).Int64("conversation_id", id).Msg("failed to touch conversation")
		return errx.WrapStorage(err)
	}
	return nil
}

// AppendMessage adds one turn to the conversation. Within a conversation
// every message carries the owner's user id, mirroring the conversation row.
func (s *Store) AppendMessage(ctx context.Context, conversationID int64, userID string, role MessageRole, content string) (*Message, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, user_id, role, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		conversationID, userID, string(role), content, now,
	)
	if err != nil {
		logx.Error().Err(err).Int64("conversation_id", conversationID).Msg("failed to insert message")
		return nil, errx.WrapStorage(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert message id: %w", err)
	}

	return &Message{
		ID:             id,
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}, nil
}

// ListMessages returns the conversation's messages in conversation order:
// creation time ascending, id as tiebreak for same-instant inserts.
func (s *Store) ListMessages(ctx context.Context, conversationID int64) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, user_id, role, content, created_at
		 FROM messages WHERE conversation_id = ?
		 ORDER BY created_at ASC, id ASC`,
		conversationID,
	)
	if err != nil {
		logx.Error().Err(err).Int64("conversation_id", conversationID).Msg("failed to list messages")
		return nil, errx.WrapStorage(err)
	}
	defer rows.Close()

	msgs := make([]Message, 0)
	for rows.Next() {
		var m Message
		var role string
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.UserID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = MessageRole(role)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
