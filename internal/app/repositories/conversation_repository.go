package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/db"
	"github.com/yigit/joblink/internal/pkg/apperrors"
	"github.com/yigit/joblink/internal/pkg/dberrors"
)

// IConversationRepository defines the interface for conversation storage
type IConversationRepository interface {
	Insert(ctx context.Context, conv *models.Conversation) error
	GetByID(ctx context.Context, id int64) (*models.Conversation, error)
	GetByStudentAndJob(ctx context.Context, studentID, jobID int64) (*models.Conversation, error)
	LockForAppend(ctx context.Context, id int64) (*models.Conversation, error)
	Touch(ctx context.Context, id int64) error
	ListForParticipant(ctx context.Context, userID int64, role models.SenderRole) ([]*models.ConversationSummary, error)
}

// ConversationRepository handles database operations for conversations
type ConversationRepository struct {
	db *db.PostgresDB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(database *db.PostgresDB) *ConversationRepository {
	return &ConversationRepository{db: database}
}

const conversationColumns = `id, student_id, recruiter_id, job_id, created_at, updated_at`

func scanConversation(row interface{ Scan(dest ...any) error }) (*models.Conversation, error) {
	c := &models.Conversation{}
	if err := row.Scan(&c.ID, &c.StudentID, &c.RecruiterID, &c.JobID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// Insert creates a conversation unless one already exists for (student, job).
// When another writer holds the key it returns apperrors.ErrConflictRace without
// aborting the surrounding transaction; the caller is expected to re-read.
func (r *ConversationRepository) Insert(ctx context.Context, conv *models.Conversation) error {
	err := r.db.Conn(ctx).QueryRow(ctx, `
		INSERT INTO conversations (student_id, recruiter_id, job_id)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT `+dberrors.ConstraintConversationsKey+` DO NOTHING
		RETURNING id, created_at, updated_at`,
		conv.StudentID, conv.RecruiterID, conv.JobID,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrConflictRace
	case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintConversationsKey):
		return apperrors.ErrConflictRace
	default:
		return fmt.Errorf("error creating conversation: %w", err)
	}
}

// GetByID retrieves a conversation without its messages
func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*models.Conversation, error) {
	c, err := scanConversation(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// GetByStudentAndJob retrieves the conversation for a (student, job) pair
func (r *ConversationRepository) GetByStudentAndJob(ctx context.Context, studentID, jobID int64) (*models.Conversation, error) {
	c, err := scanConversation(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE student_id = $1 AND job_id = $2`,
		studentID, jobID))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// LockForAppend reads a conversation and locks its row for the rest of the transaction,
// serialising appends to it.
func (r *ConversationRepository) LockForAppend(ctx context.Context, id int64) (*models.Conversation, error) {
	c, err := scanConversation(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// Touch bumps updated_at so listings surface recently active conversations first
func (r *ConversationRepository) Touch(ctx context.Context, id int64) error {
	_, err := r.db.Conn(ctx).Exec(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error touching conversation: %w", err)
	}
	return nil
}

// ListForParticipant lists the conversations a user takes part in on the given side
func (r *ConversationRepository) ListForParticipant(ctx context.Context, userID int64, role models.SenderRole) ([]*models.ConversationSummary, error) {
	column := "c.student_id"
	if role == models.SenderRecruiter {
		column = "c.recruiter_id"
	}

	sql, args, err := psql.Select(
		"c.id", "c.student_id", "c.recruiter_id", "c.job_id", "c.created_at", "c.updated_at",
		"j.title", "j.company",
		"s.first_name || ' ' || s.last_name", "r.first_name || ' ' || r.last_name",
		"(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)",
		"lm.body", "lm.created_at",
	).
		From("conversations c").
		Join("job_postings j ON j.id = c.job_id").
		Join("users s ON s.id = c.student_id").
		Join("users r ON r.id = c.recruiter_id").
		LeftJoin("LATERAL (SELECT body, created_at FROM messages m WHERE m.conversation_id = c.id ORDER BY m.seq DESC LIMIT 1) lm ON TRUE").
		Where(squirrel.Eq{column: userID}).
		OrderBy("c.updated_at DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	list := make([]*models.ConversationSummary, 0)
	for rows.Next() {
		var s models.ConversationSummary
		if err := rows.Scan(
			&s.ID, &s.StudentID, &s.RecruiterID, &s.JobID, &s.CreatedAt, &s.UpdatedAt,
			&s.JobTitle, &s.Company, &s.StudentName, &s.RecruiterName,
			&s.MessageCount, &s.LastMessage, &s.LastMessageAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}
	return list, nil
}
