package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ljcourses/backend/internal/app/models/dto"
	"github.com/ljcourses/backend/internal/app/services"
	"github.com/ljcourses/backend/internal/middleware"
)

// ProgressController handles lesson progress endpoints
type ProgressController struct {
	progressService *services.ProgressService
}

// NewProgressController creates a new ProgressController
func NewProgressController(progressService *services.ProgressService) *ProgressController {
	return &ProgressController{progressService: progressService}
}

// Start godoc
// @Summary Start or resume a lesson
// @Description Creates the progress row if absent, otherwise returns the existing one
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StartProgressRequest true "Enrollment and lesson"
// @Success 200 {object} dto.APIResponse{data=dto.ProgressResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /lesson-progress [post]
func (c *ProgressController) Start(ctx *gin.Context) {
	userID, role, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req dto.StartProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.progressService.StartLesson(ctx, userID, role, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Update godoc
// @Summary Update lesson progress
// @Description Records watch time and completion. Completion is terminal.
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Progress ID"
// @Param request body dto.UpdateProgressRequest true "Progress update"
// @Success 200 {object} dto.APIResponse{data=dto.ProgressResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /lesson-progress/{id} [put]
func (c *ProgressController) Update(ctx *gin.Context) {
	userID, role, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid progress id")))
		return
	}

	var req dto.UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.progressService.UpdateProgress(ctx, userID, role, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetSummary godoc
// @Summary Get the progress summary of an enrollment
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.ProgressSummary}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /enrollments/{id}/progress [get]
func (c *ProgressController) GetSummary(ctx *gin.Context) {
	userID, role, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment id")))
		return
	}

	summary, err := c.progressService.GetProgress(ctx, userID, role, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}
