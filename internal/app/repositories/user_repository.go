package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/db"
	"github.com/yigit/joblink/internal/pkg/apperrors"
	"github.com/yigit/joblink/internal/pkg/dberrors"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateResumeURL(ctx context.Context, userID int64, url string) error
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *db.PostgresDB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{db: database}
}

const userColumns = `id, email, password, first_name, last_name, role_type, company,
	resume_text, resume_url, cgpa, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.RoleType, &u.Company,
		&u.ResumeText, &u.ResumeURL, &u.CGPA, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user; a taken email yields apperrors.ErrEmailAlreadyExists
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.Conn(ctx).QueryRow(ctx, `
		INSERT INTO users (email, password, first_name, last_name, role_type, company, resume_text, cgpa)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		user.Email, user.Password, user.FirstName, user.LastName, user.RoleType, user.Company,
		user.ResumeText, user.CGPA,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintUsersEmail) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetByEmail retrieves a user by email; emails are stored lower-cased
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// UpdateProfile persists the editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	err := r.db.Conn(ctx).QueryRow(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, company = $4, resume_text = $5, cgpa = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		user.ID, user.FirstName, user.LastName, user.Company, user.ResumeText, user.CGPA,
	).Scan(&user.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return nil
}

// UpdateResumeURL stores the opaque storage URL of the user's resume
func (r *UserRepository) UpdateResumeURL(ctx context.Context, userID int64, url string) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE users SET resume_url = $2, updated_at = NOW() WHERE id = $1`, userID, url)
	if err != nil {
		return fmt.Errorf("error updating resume url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
