package repositories

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/joblink/internal/db"
	"github.com/yigit/joblink/internal/pkg/apperrors"
)

// psql builds Postgres-flavoured ($1, $2, ...) statements
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	JobRepository          *JobRepository
	ApplicationRepository  *ApplicationRepository
	ConversationRepository *ConversationRepository
	MessageRepository      *MessageRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(database),
		JobRepository:          NewJobRepository(database),
		ApplicationRepository:  NewApplicationRepository(database),
		ConversationRepository: NewConversationRepository(database),
		MessageRepository:      NewMessageRepository(database),
	}
}

// notFound maps pgx.ErrNoRows onto the shared sentinel and passes other errors through
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrResourceNotFound
	}
	return err
}
