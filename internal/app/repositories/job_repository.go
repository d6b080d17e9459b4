package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/db"
)

// JobFilter narrows a job listing
type JobFilter struct {
	Industry       string
	Location       string
	EmploymentType string
	Search         string
	RecruiterID    *int64
	Offset         uint64
	Limit          uint64
}

// IJobRepository defines the interface for job posting storage
type IJobRepository interface {
	Create(ctx context.Context, job *models.JobPosting) error
	GetByID(ctx context.Context, id int64) (*models.JobPosting, error)
	List(ctx context.Context, filter JobFilter) ([]*models.JobPosting, int64, error)
}

// JobRepository handles database operations for job postings
type JobRepository struct {
	db *db.PostgresDB
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(database *db.PostgresDB) *JobRepository {
	return &JobRepository{db: database}
}

var jobColumns = []string{
	"j.id", "j.recruiter_id", "j.title", "j.company", "j.industry", "j.location",
	"j.employment_type", "j.salary_min", "j.salary_max", "j.description", "j.requirements", "j.created_at",
}

func scanJob(row interface{ Scan(dest ...any) error }) (*models.JobPosting, error) {
	j := &models.JobPosting{}
	err := row.Scan(
		&j.ID, &j.RecruiterID, &j.Title, &j.Company, &j.Industry, &j.Location,
		&j.EmploymentType, &j.SalaryMin, &j.SalaryMax, &j.Description, &j.Requirements, &j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Create inserts a new job posting
func (r *JobRepository) Create(ctx context.Context, job *models.JobPosting) error {
	reqs := job.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	err := r.db.Conn(ctx).QueryRow(ctx, `
		INSERT INTO job_postings (
			recruiter_id, title, company, industry, location, employment_type,
			salary_min, salary_max, description, requirements
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		job.RecruiterID, job.Title, job.Company, job.Industry, job.Location, job.EmploymentType,
		job.SalaryMin, job.SalaryMax, job.Description, reqs,
	).Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating job posting: %w", err)
	}
	return nil
}

// GetByID retrieves a job posting by ID
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*models.JobPosting, error) {
	sql, args, err := psql.Select(jobColumns...).
		From("job_postings j").
		Where(squirrel.Eq{"j.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	j, err := scanJob(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return j, nil
}

// List returns one page of postings matching filter, newest first, plus the total match count
func (r *JobRepository) List(ctx context.Context, filter JobFilter) ([]*models.JobPosting, int64, error) {
	where := squirrel.And{}
	if filter.Industry != "" {
		where = append(where, squirrel.ILike{"j.industry": filter.Industry})
	}
	if filter.Location != "" {
		where = append(where, squirrel.ILike{"j.location": "%" + filter.Location + "%"})
	}
	if filter.EmploymentType != "" {
		where = append(where, squirrel.Eq{"j.employment_type": filter.EmploymentType})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"j.title": pattern},
			squirrel.ILike{"j.company": pattern},
			squirrel.ILike{"j.description": pattern},
		})
	}
	if filter.RecruiterID != nil {
		where = append(where, squirrel.Eq{"j.recruiter_id": *filter.RecruiterID})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("job_postings j").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count SQL: %w", err)
	}
	var total int64
	if err := r.db.Conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting job postings: %w", err)
	}

	q := psql.Select(jobColumns...).
		From("job_postings j").
		Where(where).
		OrderBy("j.created_at DESC", "j.id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	jobs := make([]*models.JobPosting, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning job posting row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating job posting rows: %w", err)
	}
	return jobs, total, nil
}
