package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/joblink/internal/app/models"
	appRepos "github.com/yigit/joblink/internal/app/repositories"
	"github.com/yigit/joblink/internal/pkg/apperrors"
	"github.com/yigit/joblink/internal/pkg/auth"
)

// Demo accounts created by CreateDefaultData
const (
	DemoRecruiterEmail = "recruiter@joblink.dev"
	DemoStudentEmail   = "student@joblink.dev"
	DemoPassword       = "Demo12345"
)

// CreateDefaultData creates a demo recruiter, a demo student and one job posting if they don't exist
func CreateDefaultData(ctx context.Context, userRepo appRepos.IUserRepository, jobRepo appRepos.IJobRepository, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (demo accounts and job)...")
	var finalErr error

	company := "Acme Corp"
	recruiter, created, err := ensureUser(ctx, userRepo, &appModels.User{
		Email:     DemoRecruiterEmail,
		FirstName: "Rita",
		LastName:  "Recruiter",
		RoleType:  appModels.RoleRecruiter,
		Company:   &company,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo recruiter")
		return err
	}

	resume := "Go developer familiar with PostgreSQL, Docker and REST APIs"
	cgpa := 8.2
	if _, _, err := ensureUser(ctx, userRepo, &appModels.User{
		Email:      DemoStudentEmail,
		FirstName:  "Sam",
		LastName:   "Student",
		RoleType:   appModels.RoleStudent,
		ResumeText: &resume,
		CGPA:       &cgpa,
	}); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo student")
		finalErr = errors.Join(finalErr, err)
	}

	// the job is only created alongside a fresh recruiter so restarts don't duplicate it
	if created {
		job := &appModels.JobPosting{
			RecruiterID:    recruiter.ID,
			Title:          "Backend Engineering Intern",
			Company:        company,
			Industry:       "Software",
			Location:       "Istanbul",
			EmploymentType: appModels.EmploymentInternship,
			Description:    "Build and operate HTTP services in Go.",
			Requirements:   []string{"go", "postgresql", "docker"},
		}
		if err := jobRepo.Create(ctx, job); err != nil {
			lgr.Error().Err(err).Msg("Error creating demo job")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Int64("jobID", job.ID).Msg("Demo job created")
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

// ensureUser returns the user with u.Email, creating it with DemoPassword when absent
func ensureUser(ctx context.Context, userRepo appRepos.IUserRepository, u *appModels.User) (*appModels.User, bool, error) {
	existing, err := userRepo.GetByEmail(ctx, u.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, false, fmt.Errorf("failed to look up %s: %w", u.Email, err)
	}

	hashed, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, false, err
	}
	u.Password = hashed
	if err := userRepo.Create(ctx, u); err != nil {
		return nil, false, fmt.Errorf("failed to create %s: %w", u.Email, err)
	}
	return u, true, nil
}
