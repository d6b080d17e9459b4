package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/db"
	"github.com/yigit/joblink/internal/pkg/apperrors"
	"github.com/yigit/joblink/internal/pkg/dberrors"
)

// IApplicationRepository defines the interface for application storage
type IApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, jobID, studentID int64) (*models.Application, error)
	GetForUpdate(ctx context.Context, jobID, studentID int64) (*models.Application, error)
	UpdateStatus(ctx context.Context, jobID, studentID int64, status models.ApplicationStatus) error
	ListApplicants(ctx context.Context, jobID int64) ([]*models.Applicant, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentApplication, error)
}

// ApplicationRepository handles database operations for applications
type ApplicationRepository struct {
	db *db.PostgresDB
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(database *db.PostgresDB) *ApplicationRepository {
	return &ApplicationRepository{db: database}
}

const applicationColumns = `id, job_id, student_id, status, score, applied_at, updated_at`

func scanApplication(row interface{ Scan(dest ...any) error }) (*models.Application, error) {
	a := &models.Application{}
	if err := row.Scan(&a.ID, &a.JobID, &a.StudentID, &a.Status, &a.Score, &a.AppliedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new application. The (job_id, student_id) unique key turns a duplicate
// into apperrors.ErrAlreadyApplied, including when two requests race.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	err := r.db.Conn(ctx).QueryRow(ctx, `
		INSERT INTO applications (job_id, student_id, status, score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, applied_at, updated_at`,
		app.JobID, app.StudentID, app.Status, app.Score,
	).Scan(&app.ID, &app.AppliedAt, &app.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintApplicationsJobUser) {
			return apperrors.ErrAlreadyApplied
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error creating application: %w", err)
	}
	return nil
}

// Get retrieves the application of a student for a job
func (r *ApplicationRepository) Get(ctx context.Context, jobID, studentID int64) (*models.Application, error) {
	a, err := scanApplication(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND student_id = $2`,
		jobID, studentID))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// GetForUpdate is Get with a row lock held until the surrounding transaction ends
func (r *ApplicationRepository) GetForUpdate(ctx context.Context, jobID, studentID int64) (*models.Application, error) {
	a, err := scanApplication(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND student_id = $2 FOR UPDATE`,
		jobID, studentID))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// UpdateStatus sets the status of an application
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, jobID, studentID int64, status models.ApplicationStatus) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `
		UPDATE applications SET status = $3, updated_at = $4
		WHERE job_id = $1 AND student_id = $2`,
		jobID, studentID, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error updating application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// ListApplicants returns every application of a job joined with its student.
// Ordering is left to the caller.
func (r *ApplicationRepository) ListApplicants(ctx context.Context, jobID int64) ([]*models.Applicant, error) {
	sql, args, err := psql.Select(
		"a.id", "a.job_id", "a.student_id", "a.status", "a.score", "a.applied_at", "a.updated_at",
		"u.first_name", "u.last_name", "u.email", "u.cgpa", "u.resume_url",
	).
		From("applications a").
		Join("users u ON u.id = a.student_id").
		Where(squirrel.Eq{"a.job_id": jobID}).
		OrderBy("a.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	applicants := make([]*models.Applicant, 0)
	for rows.Next() {
		var a models.Applicant
		var firstName, lastName string
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.StudentID, &a.Status, &a.Score, &a.AppliedAt, &a.UpdatedAt,
			&firstName, &lastName, &a.StudentEmail, &a.CGPA, &a.ResumeURL,
		); err != nil {
			return nil, fmt.Errorf("error scanning applicant row: %w", err)
		}
		a.StudentName = (&models.User{FirstName: firstName, LastName: lastName}).FullName()
		applicants = append(applicants, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applicant rows: %w", err)
	}
	return applicants, nil
}

// ListByStudent returns a student's applications with their jobs, most recent first
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentApplication, error) {
	cols := append([]string{
		"a.id", "a.job_id", "a.student_id", "a.status", "a.score", "a.applied_at", "a.updated_at",
	}, jobColumns...)

	sql, args, err := psql.Select(cols...).
		From("applications a").
		Join("job_postings j ON j.id = a.job_id").
		Where(squirrel.Eq{"a.student_id": studentID}).
		OrderBy("a.applied_at DESC", "a.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	list := make([]*models.StudentApplication, 0)
	for rows.Next() {
		var sa models.StudentApplication
		j := &sa.Job
		if err := rows.Scan(
			&sa.ID, &sa.JobID, &sa.StudentID, &sa.Status, &sa.Score, &sa.AppliedAt, &sa.UpdatedAt,
			&j.ID, &j.RecruiterID, &j.Title, &j.Company, &j.Industry, &j.Location,
			&j.EmploymentType, &j.SalaryMin, &j.SalaryMax, &j.Description, &j.Requirements, &j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning application row: %w", err)
		}
		list = append(list, &sa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	return list, nil
}
