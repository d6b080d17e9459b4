package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/app/repositories"
	"github.com/yigit/joblink/internal/pkg/apperrors"
)

// AuthorizationService answers ownership and participation questions on top of the
// principal supplied by the JWT layer
type AuthorizationService struct {
	jobRepo repositories.IJobRepository
	logger  zerolog.Logger
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(jobRepo repositories.IJobRepository, logger zerolog.Logger) *AuthorizationService {
	return &AuthorizationService{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

// LoadOwnedJob returns the job when recruiterID owns it.
// A missing job is NotFound, someone else's job is Forbidden.
func (s *AuthorizationService) LoadOwnedJob(ctx context.Context, jobID, recruiterID int64) (*models.JobPosting, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("job %d not found", jobID))
		}
		s.logger.Error().Err(err).Int64("jobID", jobID).Msg("Error loading job for ownership check")
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	if !job.OwnedBy(recruiterID) {
		s.logger.Warn().Int64("jobID", jobID).Int64("recruiterID", recruiterID).Msg("Recruiter does not own job")
		return nil, apperrors.NewForbiddenError("you do not own this job posting")
	}
	return job, nil
}

// ValidateParticipant checks that the principal is the conversation's student or
// recruiter, matching the role it claims
func (s *AuthorizationService) ValidateParticipant(conv *models.Conversation, principal models.Principal) (models.SenderRole, error) {
	role, ok := models.SenderRoleFor(principal.Role)
	if !ok {
		return "", apperrors.NewForbiddenError("unknown role")
	}
	if !conv.HasParticipant(principal.UserID, role) {
		return "", apperrors.NewForbiddenError("you are not a participant of this conversation")
	}
	return role, nil
}
