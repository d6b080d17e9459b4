package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/joblink/internal/app/auth"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/app/models/dto"
	"github.com/yigit/joblink/internal/app/repositories"
	"github.com/yigit/joblink/internal/app/scoring"
	"github.com/yigit/joblink/internal/pkg/apperrors"
	"github.com/yigit/joblink/internal/pkg/notification"
)

// ApplicationService covers the applicant lifecycle: applying, ranking and recruiter decisions
type ApplicationService interface {
	Apply(ctx context.Context, jobID, studentID int64) (*dto.ApplyResponse, error)
	ListApplicantsForJob(ctx context.Context, jobID, requesterID int64) ([]dto.ApplicantResponse, error)
	TransitionStatus(ctx context.Context, jobID, studentID int64, newStatus string, requesterID int64) (*dto.StatusResponse, error)
	ListMyApplications(ctx context.Context, studentID int64) ([]dto.MyApplicationResponse, error)
}

type applicationServiceImpl struct {
	tx            TxRunner
	appRepo       repositories.IApplicationRepository
	jobRepo       repositories.IJobRepository
	userRepo      repositories.IUserRepository
	authz         *appauth.AuthorizationService
	conversations ConversationService
	notifier      notification.Notifier
	logger        zerolog.Logger
	now           func() time.Time
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	tx TxRunner,
	appRepo repositories.IApplicationRepository,
	jobRepo repositories.IJobRepository,
	userRepo repositories.IUserRepository,
	authz *appauth.AuthorizationService,
	conversations ConversationService,
	notifier notification.Notifier,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationServiceImpl{
		tx:            tx,
		appRepo:       appRepo,
		jobRepo:       jobRepo,
		userRepo:      userRepo,
		authz:         authz,
		conversations: conversations,
		notifier:      notifier,
		logger:        logger,
		now:           time.Now,
	}
}

// Apply records a student's application with its relevance score
func (s *applicationServiceImpl) Apply(ctx context.Context, jobID, studentID int64) (*dto.ApplyResponse, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("student not found")
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student.RoleType != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("only students can apply to jobs")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("job %d not found", jobID))
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	app := &models.Application{
		JobID:     jobID,
		StudentID: studentID,
		Status:    models.StatusApplied,
		Score:     scoring.Score(student.Profile(), job.Requirements),
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyApplied):
			return nil, apperrors.NewAlreadyAppliedError("you have already applied to this job")
		case errors.Is(err, apperrors.ErrResourceNotFound):
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("job %d not found", jobID))
		}
		s.logger.Error().Err(err).Int64("jobID", jobID).Int64("studentID", studentID).Msg("Failed to create application")
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.logger.Info().Int64("jobID", jobID).Int64("studentID", studentID).Int("score", app.Score).Msg("Application submitted")
	resp := dto.NewApplyResponse(app)
	return &resp, nil
}

// rankApplicants orders by score, then academic figure, both descending.
// Equal keys keep the storage order.
func rankApplicants(applicants []*models.Applicant) {
	sort.SliceStable(applicants, func(i, j int) bool {
		if applicants[i].Score != applicants[j].Score {
			return applicants[i].Score > applicants[j].Score
		}
		return applicants[i].AcademicFigure() > applicants[j].AcademicFigure()
	})
}

// ListApplicantsForJob returns the ranked applicants of a job to its owner
func (s *applicationServiceImpl) ListApplicantsForJob(ctx context.Context, jobID, requesterID int64) ([]dto.ApplicantResponse, error) {
	if _, err := s.authz.LoadOwnedJob(ctx, jobID, requesterID); err != nil {
		return nil, err
	}

	applicants, err := s.appRepo.ListApplicants(ctx, jobID)
	if err != nil {
		s.logger.Error().Err(err).Int64("jobID", jobID).Msg("Failed to list applicants")
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}

	rankApplicants(applicants)
	return dto.NewApplicantResponses(applicants), nil
}

// TransitionStatus applies a recruiter decision.
//
// The status change and, for SHORTLISTED, the conversation are committed together.
// Decision outcomes are then handed to the notifier; delivery problems never reach the caller.
// Repeating the current status is accepted: it re-notifies but never duplicates the conversation.
func (s *applicationServiceImpl) TransitionStatus(ctx context.Context, jobID, studentID int64, newStatus string, requesterID int64) (*dto.StatusResponse, error) {
	job, err := s.authz.LoadOwnedJob(ctx, jobID, requesterID)
	if err != nil {
		return nil, err
	}

	target, ok := models.ParseApplicationStatus(newStatus)
	if !ok {
		return nil, apperrors.NewInvalidStatusError(fmt.Sprintf("unknown status %q", newStatus))
	}

	var conv *models.Conversation
	var previous models.ApplicationStatus

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		app, err := s.appRepo.GetForUpdate(ctx, jobID, studentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return apperrors.NewResourceNotFoundError("application not found")
			}
			return err
		}
		previous = app.Status

		if !app.Status.CanTransitionTo(target) {
			return apperrors.NewInvalidTransitionError(fmt.Sprintf("cannot move application from %s to %s", app.Status, target))
		}

		if app.Status != target {
			if err := s.appRepo.UpdateStatus(ctx, jobID, studentID, target); err != nil {
				return err
			}
		}

		if target == models.StatusShortlisted {
			conv, err = s.conversations.EnsureConversation(ctx, studentID, job.RecruiterID, jobID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrInvalidTransition) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("jobID", jobID).Int64("studentID", studentID).Str("target", string(target)).Msg("Failed to transition application")
		return nil, fmt.Errorf("failed to transition application: %w", err)
	}

	s.logger.Info().
		Int64("jobID", jobID).
		Int64("studentID", studentID).
		Str("from", string(previous)).
		Str("to", string(target)).
		Msg("Application status changed")

	resp := &dto.StatusResponse{JobID: jobID, StudentID: studentID, Status: target}
	if conv != nil {
		id := conv.ID
		resp.ConversationID = &id
	}

	s.notifyDecision(ctx, job, studentID, target, resp.ConversationID)
	return resp, nil
}

// notifyDecision queues the decision email. Failures are logged only.
func (s *applicationServiceImpl) notifyDecision(ctx context.Context, job *models.JobPosting, studentID int64, status models.ApplicationStatus, conversationID *int64) {
	outcome, ok := notification.OutcomeFor(status)
	if !ok || s.notifier == nil {
		return
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to load student for notification, skipping")
		return
	}

	s.notifier.Notify(notification.Event{
		RecipientEmail: student.Email,
		RecipientName:  student.FullName(),
		JobID:          job.ID,
		JobTitle:       job.Title,
		Company:        job.Company,
		StudentID:      studentID,
		ConversationID: conversationID,
		Outcome:        outcome,
		OccurredAt:     s.now(),
	})
}

// ListMyApplications returns the student's applications, newest first
func (s *applicationServiceImpl) ListMyApplications(ctx context.Context, studentID int64) ([]dto.MyApplicationResponse, error) {
	apps, err := s.appRepo.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to list applications")
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	out := make([]dto.MyApplicationResponse, 0, len(apps))
	for _, a := range apps {
		job := a.Job
		out = append(out, dto.MyApplicationResponse{
			Job:       dto.NewJobResponse(&job),
			Status:    a.Status,
			Score:     a.Score,
			AppliedAt: a.AppliedAt,
		})
	}
	return out, nil
}
