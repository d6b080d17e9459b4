package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/joblink/internal/app/models/dto"
	"github.com/yigit/joblink/internal/app/services"
	"github.com/yigit/joblink/internal/middleware"
	"github.com/yigit/joblink/internal/pkg/helpers"
)

// JobController handles job postings
type JobController struct {
	jobService services.JobService
	logger     zerolog.Logger
}

// NewJobController creates a new JobController
func NewJobController(jobService services.JobService, logger zerolog.Logger) *JobController {
	return &JobController{
		jobService: jobService,
		logger:     logger,
	}
}

// CreateJob creates a posting owned by the calling recruiter
// @Summary Create job posting
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Job posting"
// @Success 201 {object} dto.APIResponse{data=dto.JobResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Recruiters only"
// @Router /jobs [post]
func (c *JobController) CreateJob(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.jobService.CreateJob(ctx.Request.Context(), p.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Job created successfully"))
}

// ListJobs lists postings
// @Summary List job postings
// @Tags jobs
// @Produce json
// @Param industry query string false "Industry"
// @Param location query string false "Location"
// @Param employmentType query string false "FULL_TIME, PART_TIME, INTERNSHIP or CONTRACT"
// @Param q query string false "Search in title, company and description"
// @Param page query int false "Page (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=[]dto.JobResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /jobs [get]
func (c *JobController) ListJobs(ctx *gin.Context) {
	var req dto.JobFilterRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	jobs, pagination, err := c.jobService.ListJobs(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(jobs, pagination, "Jobs retrieved successfully"))
}

// ListMyJobs lists the calling recruiter's postings
// @Summary List own job postings
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=[]dto.JobResponse}
// @Failure 403 {object} dto.ErrorResponse "Recruiters only"
// @Router /jobs/mine [get]
func (c *JobController) ListMyJobs(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	jobs, pagination, err := c.jobService.ListMyJobs(ctx.Request.Context(), p.UserID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(jobs, pagination, "Jobs retrieved successfully"))
}

// GetJob returns one posting
// @Summary Get job posting
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=dto.JobResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /jobs/{id} [get]
func (c *JobController) GetJob(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.jobService.GetJob(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Job retrieved successfully"))
}
