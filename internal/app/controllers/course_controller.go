package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ljcourses/backend/internal/app/models/dto"
	"github.com/ljcourses/backend/internal/app/services"
	"github.com/ljcourses/backend/internal/middleware"
	"github.com/ljcourses/backend/internal/pkg/helpers"
)

// CourseController handles course catalog endpoints
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// List godoc
// @Summary List courses
// @Description Filters are conjunctive; search matches title, descriptions and instructor name
// @Tags courses
// @Produce json
// @Param categoryId query int false "Filter by category"
// @Param instructorId query int false "Filter by instructor"
// @Param difficulty query string false "Filter by difficulty" Enums(BEGINNER, INTERMEDIATE, ADVANCED)
// @Param search query string false "Case-insensitive substring search"
// @Param page query int false "1-based page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	filter := &dto.CourseFilter{}
	filter.Page, filter.Size = helpers.ParsePaginationParams(ctx)

	if v := ctx.Query("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid categoryId").WithField("categoryId")))
			return
		}
		filter.CategoryID = &id
	}
	if v := ctx.Query("instructorId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid instructorId").WithField("instructorId")))
			return
		}
		filter.InstructorID = &id
	}
	if v := ctx.Query("difficulty"); v != "" {
		filter.Difficulty = &v
	}
	if v := ctx.Query("search"); v != "" {
		filter.Search = &v
	}

	courses, pagination, err := c.courseService.ListCourses(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      courses,
		Pagination: pagination,
	}))
}

// Get godoc
// @Summary Get a course by id
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course id")))
		return
	}

	course, err := c.courseService.GetCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// GetBySlug godoc
// @Summary Get a course by slug
// @Tags courses
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/slug/{slug} [get]
func (c *CourseController) GetBySlug(ctx *gin.Context) {
	slug := ctx.Param("slug")
	course, err := c.courseService.GetCourseBySlug(ctx, slug)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// Create godoc
// @Summary Create a course
// @Description Instructor or admin
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course data"
// @Success 201 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	callerID, callerRole, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	course, err := c.courseService.CreateCourse(ctx, callerID, callerRole, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course))
}

// Update godoc
// @Summary Update a course
// @Description Owner instructor or admin, merge-patch semantics
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Course fields"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	callerID, callerRole, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course id")))
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	course, err := c.courseService.UpdateCourse(ctx, callerID, callerRole, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// Delete godoc
// @Summary Delete a course
// @Description Owner instructor or admin. Lessons and enrollments cascade.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	callerID, callerRole, ok := currentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course id")))
		return
	}

	if err := c.courseService.DeleteCourse(ctx, callerID, callerRole, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"message": "Course deleted"}))
}
