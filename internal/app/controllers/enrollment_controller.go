package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ljcourses/backend/internal/app/models/dto"
	"github.com/ljcourses/backend/internal/app/services"
	"github.com/ljcourses/backend/internal/middleware"
)

// EnrollmentController handles enrollment endpoints
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Enrolling twice in the same course is a conflict
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Course to enroll in"
// @Success 201 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	userID, _, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx, userID, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(enrollment))
}

// ListMine godoc
// @Summary List the caller's enrollments
// @Description Each enrollment carries its course and a progress summary
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param completed query bool false "Filter on completion state"
// @Success 200 {object} dto.APIResponse
// @Router /enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	userID, _, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var completed *bool
	if v := ctx.Query("completed"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid completed flag").WithField("completed")))
			return
		}
		completed = &parsed
	}

	enrollments, err := c.enrollmentService.ListMyEnrollments(ctx, userID, completed)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollments))
}

// Get godoc
// @Summary Get one enrollment with its progress
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /enrollments/{id} [get]
func (c *EnrollmentController) Get(ctx *gin.Context) {
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

	resp, err := c.enrollmentService.GetEnrollment(ctx, userID, role, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Unenroll godoc
// @Summary Remove an enrollment
// @Description Owner student or admin. Progress rows are removed with it.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
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

	if err := c.enrollmentService.Unenroll(ctx, userID, role, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"message": "Enrollment removed"}))
}
