package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/db"
	"github.com/yigit/joblink/internal/pkg/apperrors"
	"github.com/yigit/joblink/internal/pkg/dberrors"
)

// IMessageRepository defines the interface for message storage
type IMessageRepository interface {
	Append(ctx context.Context, msg *models.Message) error
	Count(ctx context.Context, conversationID int64) (int, error)
	ListAfter(ctx context.Context, conversationID int64, afterSeq int, limit int) ([]models.Message, error)
}

// MessageRepository handles database operations for messages.
// Messages are never updated or deleted.
type MessageRepository struct {
	db *db.PostgresDB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(database *db.PostgresDB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Append inserts msg as the next message of its conversation and fills in ID, Seq and CreatedAt.
// Callers hold the conversation row lock so the computed seq is free.
func (r *MessageRepository) Append(ctx context.Context, msg *models.Message) error {
	err := r.db.Conn(ctx).QueryRow(ctx, `
		INSERT INTO messages (conversation_id, seq, sender_id, sender_role, body)
		SELECT $1, COALESCE(MAX(seq), 0) + 1, $2, $3, $4
		FROM messages WHERE conversation_id = $1
		RETURNING id, seq, created_at`,
		msg.ConversationID, msg.SenderID, msg.SenderRole, msg.Body,
	).Scan(&msg.ID, &msg.Seq, &msg.CreatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintMessagesSeq) {
			return apperrors.ErrConflictRace
		}
		return fmt.Errorf("error appending message: %w", err)
	}
	return nil
}

// Count returns the number of messages in a conversation
func (r *MessageRepository) Count(ctx context.Context, conversationID int64) (int, error) {
	var n int
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE conversation_id = $1`, conversationID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting messages: %w", err)
	}
	return n, nil
}

// ListAfter returns messages with seq greater than afterSeq in sequence order.
// A limit of zero returns all of them.
func (r *MessageRepository) ListAfter(ctx context.Context, conversationID int64, afterSeq int, limit int) ([]models.Message, error) {
	q := psql.Select("id", "conversation_id", "seq", "sender_id", "sender_role", "body", "created_at").
		From("messages").
		Where(squirrel.Eq{"conversation_id": conversationID}).
		Where(squirrel.Gt{"seq": afterSeq}).
		OrderBy("seq ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	msgs := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Seq, &m.SenderID, &m.SenderRole, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return msgs, nil
}
