package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/joblink/internal/app/models/dto"
	"github.com/yigit/joblink/internal/app/services"
	"github.com/yigit/joblink/internal/middleware"
)

// MaxResumeSize bounds an uploaded resume file
const MaxResumeSize = 5 << 20

// ProfileController handles the caller's profile
type ProfileController struct {
	profileService services.ProfileService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		logger:         logger,
	}
}

// GetProfile returns the caller's profile
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	resp, err := c.profileService.GetProfile(ctx.Request.Context(), p.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Profile retrieved successfully"))
}

// UpdateProfile updates the caller's profile
// @Summary Update own profile
// @Description Students set resume text and CGPA (0-10); recruiters set their company
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.profileService.UpdateProfile(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Profile updated successfully"))
}

// UploadResume stores a resume file for the calling student
// @Summary Upload resume
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param resume formData file true "Resume file (pdf, doc, docx, txt, rtf, odt; max 5MB)"
// @Success 200 {object} dto.APIResponse{data=dto.ResumeUploadResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /profile/resume [post]
func (c *ProfileController) UploadResume(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("resume")
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Resume file is required").WithField("resume")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	if fileHeader.Size > MaxResumeSize {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Resume file is too large").WithField("resume")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to open uploaded resume")
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	resp, err := c.profileService.UploadResume(ctx.Request.Context(), p, fileHeader.Filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Resume uploaded successfully"))
}
