package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/joblink/internal/app/models/dto"
	"github.com/yigit/joblink/internal/app/services"
	"github.com/yigit/joblink/internal/middleware"
)

// ApplicationController handles applications and the applicant pipeline
type ApplicationController struct {
	applicationService services.ApplicationService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		logger:             logger,
	}
}

// Apply submits the calling student's application to a job
// @Summary Apply to a job
// @Description Records the application with status APPLIED and its fit score
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 201 {object} dto.APIResponse{data=dto.ApplyResponse}
// @Failure 403 {object} dto.ErrorResponse "Students only"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied"
// @Router /jobs/{id}/apply [post]
func (c *ApplicationController) Apply(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	jobID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.applicationService.Apply(ctx.Request.Context(), jobID, p.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Application submitted successfully"))
}

// ListApplicants returns a job's applicants ranked by score
// @Summary List ranked applicants
// @Description Applicants ordered by score, then CGPA, then application time
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ApplicantResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the job owner"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /jobs/{id}/applicants [get]
func (c *ApplicationController) ListApplicants(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	jobID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	applicants, err := c.applicationService.ListApplicantsForJob(ctx.Request.Context(), jobID, p.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(applicants, "Applicants retrieved successfully"))
}

// UpdateStatus moves an application to a new status
// @Summary Change application status
// @Description Shortlisting opens a conversation with the student; decisions notify the student by email
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param studentId path int true "Student ID"
// @Param request body dto.UpdateStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.StatusResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 403 {object} dto.ErrorResponse "Not the job owner"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /jobs/{id}/applicants/{studentId}/status [patch]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	jobID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := pathID(ctx, "studentId")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.applicationService.TransitionStatus(ctx.Request.Context(), jobID, studentID, req.Status, p.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("jobId", jobID).
		Int64("studentId", studentID).
		Str("status", string(resp.Status)).
		Msg("Application status changed")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Status updated successfully"))
}

// ListMyApplications returns the calling student's applications
// @Summary List own applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.MyApplicationResponse}
// @Failure 403 {object} dto.ErrorResponse "Students only"
// @Router /applications/mine [get]
func (c *ApplicationController) ListMyApplications(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	apps, err := c.applicationService.ListMyApplications(ctx.Request.Context(), p.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(apps, "Applications retrieved successfully"))
}
