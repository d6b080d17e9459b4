package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/app/models/dto"
	"github.com/yigit/joblink/internal/middleware"
	"github.com/yigit/joblink/internal/pkg/apperrors"
)

// pathID parses a positive int64 path parameter, writing a 400 when it is not one
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(name, "Invalid "+name))
		return 0, false
	}
	return id, true
}

// principal returns the authenticated caller, writing a 401 when JWTAuth did not run
func principal(ctx *gin.Context) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
	}
	return p, ok
}
