package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ljcourses/backend/internal/app/models/dto"
	"github.com/ljcourses/backend/internal/app/services"
	"github.com/ljcourses/backend/internal/middleware"
)

// LessonController handles lesson endpoints
type LessonController struct {
	lessonService *services.LessonService
}

// NewLessonController creates a new LessonController
func NewLessonController(lessonService *services.LessonService) *LessonController {
	return &LessonController{lessonService: lessonService}
}

// ListByCourse godoc
// @Summary List a course's lessons
// @Description Lessons are always returned in position order
// @Tags lessons
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/lessons [get]
func (c *LessonController) ListByCourse(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course id")))
		return
	}

	lessons, err := c.lessonService.ListLessons(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lessons))
}

// Get godoc
// @Summary Get a lesson
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lesson id")))
		return
	}

	lesson, err := c.lessonService.GetLesson(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lesson))
}

// GetNext godoc
// @Summary Get the next lesson in the course
// @Description Returns the lesson with the smallest position after this one
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /lessons/{id}/next [get]
func (c *LessonController) GetNext(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lesson id")))
		return
	}

	lesson, err := c.lessonService.GetNextLesson(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lesson))
}

// Create godoc
// @Summary Add a lesson to a course
// @Description Owner instructor or admin
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CreateLessonRequest true "Lesson data"
// @Success 201 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	callerID, callerRole, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	courseID, ok := pathID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course id")))
		return
	}

	var req dto.CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	lesson, err := c.lessonService.CreateLesson(ctx, callerID, callerRole, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(lesson))
}

// Update godoc
// @Summary Update a lesson
// @Description Owner instructor or admin, merge-patch semantics
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body dto.UpdateLessonRequest true "Lesson fields"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /lessons/{id} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	callerID, callerRole, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lesson id")))
		return
	}

	var req dto.UpdateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	lesson, err := c.lessonService.UpdateLesson(ctx, callerID, callerRole, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lesson))
}

// Delete godoc
// @Summary Delete a lesson
// @Description Owner instructor or admin
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	callerID, callerRole, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lesson id")))
		return
	}

	if err := c.lessonService.DeleteLesson(ctx, callerID, callerRole, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"message": "Lesson deleted"}))
}
