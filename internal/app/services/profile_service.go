package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/app/models/dto"
	"github.com/yigit/joblink/internal/app/repositories"
	"github.com/yigit/joblink/internal/pkg/apperrors"
	"github.com/yigit/joblink/internal/pkg/filestorage"
	"github.com/yigit/joblink/internal/pkg/validation"
)

// ProfileService manages the caller's own profile
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, principal models.Principal, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UploadResume(ctx context.Context, principal models.Principal, filename string, content io.Reader) (*dto.ResumeUploadResponse, error)
}

type profileServiceImpl struct {
	userRepo repositories.IUserRepository
	storage  filestorage.FileStorage
	logger   zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo repositories.IUserRepository, storage filestorage.FileStorage, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{
		userRepo: userRepo,
		storage:  storage,
		logger:   logger,
	}
}

func (s *profileServiceImpl) loadUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// GetProfile returns the profile of userID
func (s *profileServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// UpdateProfile applies the non-nil fields of req.
// Resume text and academic figure belong to students, company to recruiters.
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, principal models.Principal, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.loadUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		if !validation.ValidName(*req.FirstName) {
			return nil, apperrors.NewInvalidInputError("first name cannot be empty")
		}
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if !validation.ValidName(*req.LastName) {
			return nil, apperrors.NewInvalidInputError("last name cannot be empty")
		}
		user.LastName = strings.TrimSpace(*req.LastName)
	}

	switch user.RoleType {
	case models.RoleStudent:
		if req.Company != nil {
			return nil, apperrors.NewInvalidInputError("students cannot set a company")
		}
		if req.CGPA != nil {
			if !validation.ValidAcademicFigure(*req.CGPA) {
				return nil, apperrors.NewInvalidInputError("cgpa must be between 0 and 10")
			}
			cgpa := *req.CGPA
			user.CGPA = &cgpa
		}
		if req.ResumeText != nil {
			text := strings.TrimSpace(*req.ResumeText)
			if text == "" {
				user.ResumeText = nil
			} else {
				user.ResumeText = &text
			}
		}
	case models.RoleRecruiter:
		if req.CGPA != nil || req.ResumeText != nil {
			return nil, apperrors.NewInvalidInputError("recruiters have no resume or cgpa")
		}
		if req.Company != nil {
			company := strings.TrimSpace(*req.Company)
			user.Company = &company
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to update profile")
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Profile updated")
	return dto.NewUserResponse(user), nil
}

// UploadResume stores a resume file and records its URL on the student.
// The previously stored resume, if any, is removed afterwards.
func (s *profileServiceImpl) UploadResume(ctx context.Context, principal models.Principal, filename string, content io.Reader) (*dto.ResumeUploadResponse, error) {
	if principal.Role != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("only students can upload a resume")
	}
	if !filestorage.AllowedExtension(filename, filestorage.ResumeExtensions) {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("resume must be one of %s", strings.Join(filestorage.ResumeExtensions, ", ")))
	}

	user, err := s.loadUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Save(ctx, filename, content, fmt.Sprintf("resumes/%d", user.ID))
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to store resume")
		return nil, fmt.Errorf("failed to store resume: %w", err)
	}

	if err := s.userRepo.UpdateResumeURL(ctx, user.ID, url); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to record resume URL")
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", url).Msg("Failed to clean up orphaned resume")
		}
		return nil, fmt.Errorf("failed to record resume: %w", err)
	}

	if user.ResumeURL != nil && *user.ResumeURL != "" && *user.ResumeURL != url {
		if err := s.storage.DeleteFile(*user.ResumeURL); err != nil {
			s.logger.Warn().Err(err).Str("url", *user.ResumeURL).Msg("Failed to delete previous resume")
		}
	}

	s.logger.Info().Int64("userID", user.ID).Str("url", url).Msg("Resume uploaded")
	return &dto.ResumeUploadResponse{ResumeURL: url}, nil
}
