package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/app/models/dto"
	"github.com/yigit/joblink/internal/app/repositories"
	"github.com/yigit/joblink/internal/pkg/apperrors"
	"github.com/yigit/joblink/internal/pkg/helpers"
	"github.com/yigit/joblink/internal/pkg/validation"
)

// JobService manages job postings
type JobService interface {
	CreateJob(ctx context.Context, recruiterID int64, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJob(ctx context.Context, jobID int64) (*dto.JobResponse, error)
	ListJobs(ctx context.Context, req *dto.JobFilterRequest) ([]dto.JobResponse, dto.PaginationInfo, error)
	ListMyJobs(ctx context.Context, recruiterID int64, page, size int) ([]dto.JobResponse, dto.PaginationInfo, error)
}

type jobServiceImpl struct {
	jobRepo repositories.IJobRepository
	logger  zerolog.Logger
}

// NewJobService creates a new JobService
func NewJobService(jobRepo repositories.IJobRepository, logger zerolog.Logger) JobService {
	return &jobServiceImpl{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

func validEmploymentType(t models.EmploymentType) bool {
	switch t {
	case models.EmploymentFullTime, models.EmploymentPartTime, models.EmploymentInternship, models.EmploymentContract:
		return true
	}
	return false
}

// CreateJob stores a new posting owned by recruiterID
func (s *jobServiceImpl) CreateJob(ctx context.Context, recruiterID int64, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	title := strings.TrimSpace(req.Title)
	company := strings.TrimSpace(req.Company)
	if title == "" || company == "" {
		return nil, apperrors.NewInvalidInputError("title and company are required")
	}
	employmentType := models.EmploymentType(strings.ToUpper(strings.TrimSpace(string(req.EmploymentType))))
	if !validEmploymentType(employmentType) {
		return nil, apperrors.NewInvalidInputError("unknown employment type")
	}
	if !validation.ValidSalaryBand(req.SalaryMin, req.SalaryMax) {
		return nil, apperrors.NewInvalidInputError("salary band must be non-negative with min <= max")
	}

	job := &models.JobPosting{
		RecruiterID:    recruiterID,
		Title:          title,
		Company:        company,
		Industry:       strings.TrimSpace(req.Industry),
		Location:       strings.TrimSpace(req.Location),
		EmploymentType: employmentType,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Description:    strings.TrimSpace(req.Description),
		Requirements:   models.NormalizeRequirements(req.Requirements),
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		s.logger.Error().Err(err).Int64("recruiterID", recruiterID).Msg("Failed to create job")
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info().Int64("jobID", job.ID).Int64("recruiterID", recruiterID).Int("requirements", len(job.Requirements)).Msg("Job created")
	resp := dto.NewJobResponse(job)
	return &resp, nil
}

// GetJob returns one posting
func (s *jobServiceImpl) GetJob(ctx context.Context, jobID int64) (*dto.JobResponse, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("job %d not found", jobID))
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	resp := dto.NewJobResponse(job)
	return &resp, nil
}

// ListJobs returns one page of postings matching the filter, newest first
func (s *jobServiceImpl) ListJobs(ctx context.Context, req *dto.JobFilterRequest) ([]dto.JobResponse, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.Size)
	filter := repositories.JobFilter{
		Industry:       strings.TrimSpace(req.Industry),
		Location:       strings.TrimSpace(req.Location),
		EmploymentType: strings.ToUpper(strings.TrimSpace(req.EmploymentType)),
		Search:         strings.TrimSpace(req.Search),
		Offset:         offset,
		Limit:          uint64(limit),
	}
	return s.list(ctx, filter, req.Page, limit)
}

// ListMyJobs returns the postings owned by recruiterID
func (s *jobServiceImpl) ListMyJobs(ctx context.Context, recruiterID int64, page, size int) ([]dto.JobResponse, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	filter := repositories.JobFilter{
		RecruiterID: &recruiterID,
		Offset:      offset,
		Limit:       uint64(limit),
	}
	return s.list(ctx, filter, page, limit)
}

func (s *jobServiceImpl) list(ctx context.Context, filter repositories.JobFilter, page, size int) ([]dto.JobResponse, dto.PaginationInfo, error) {
	jobs, total, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list jobs")
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to list jobs: %w", err)
	}
	return dto.NewJobResponses(jobs), helpers.NewPaginationInfo(total, page, size), nil
}
