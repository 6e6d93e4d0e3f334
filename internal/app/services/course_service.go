package services

import (
	"context"
	"regexp"
	"time"

	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/app/models/dto"
	"github.com/ljcourses/backend/internal/app/repositories"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
	"github.com/ljcourses/backend/internal/pkg/helpers"
	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/rs/zerolog"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// validateSlug enforces lowercase kebab-case slugs
func validateSlug(slug string) error {
	if !slugRegex.MatchString(slug) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"Slug must contain only lowercase letters, digits and hyphens")
	}
	return nil
}

// ensureCourseOwner checks that the caller may mutate the course.
// Admins are exempt; instructors must own the course.
func ensureCourseOwner(course *models.Course, callerID int64, callerRole models.RoleType) error {
	if callerRole == models.RoleAdmin {
		return nil
	}
	if course.InstructorID == nil || *course.InstructorID != callerID {
		return apperrors.NewForbiddenError("You can only modify your own courses")
	}
	return nil
}

// CourseService handles the course catalog
type CourseService struct {
	courseRepo   repositories.ICourseRepository
	categoryRepo repositories.ICategoryRepository
	logger       zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo repositories.ICourseRepository, categoryRepo repositories.ICategoryRepository) *CourseService {
	return &CourseService{
		courseRepo:   courseRepo,
		categoryRepo: categoryRepo,
		logger:       logger.WithField("service", "course"),
	}
}

// CreateCourse creates a course. Non-admin callers always become the
// instructor; admins may assign another instructor explicitly.
func (s *CourseService) CreateCourse(ctx context.Context, callerID int64, callerRole models.RoleType, req *dto.CreateCourseRequest) (*models.Course, error) {
	if err := validateSlug(req.Slug); err != nil {
		return nil, err
	}

	instructorID := callerID
	if callerRole == models.RoleAdmin && req.InstructorID != nil {
		instructorID = *req.InstructorID
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	course := &models.Course{
		Title:            req.Title,
		Slug:             req.Slug,
		SmallDescription: req.SmallDescription,
		Description:      req.Description,
		Thumbnail:        req.Thumbnail,
		DurationHours:    req.DurationHours,
		InstructorID:     &instructorID,
		CategoryID:       req.CategoryID,
	}
	if req.DifficultyLevel != nil {
		level := models.DifficultyLevel(*req.DifficultyLevel)
		course.DifficultyLevel = &level
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}
	if req.IsFeatured != nil {
		course.IsFeatured = *req.IsFeatured
	}
	if course.IsPublished {
		now := time.Now()
		course.PublishedAt = &now
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseId", course.ID).Str("slug", course.Slug).Msg("Course created")
	return course, nil
}

// GetCourse returns a course with its relations
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// GetCourseBySlug returns a course with its relations
func (s *CourseService) GetCourseBySlug(ctx context.Context, slug string) (*models.Course, error) {
	return s.courseRepo.GetBySlug(ctx, slug)
}

// ListCourses returns a filtered, paginated course page with pagination metadata
func (s *CourseService) ListCourses(ctx context.Context, filter *dto.CourseFilter) ([]*models.Course, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)

	courses, total, err := s.courseRepo.List(ctx, repositories.CourseFilter{
		CategoryID:   filter.CategoryID,
		InstructorID: filter.InstructorID,
		Difficulty:   filter.Difficulty,
		Search:       filter.Search,
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return courses, helpers.NewPaginationInfo(total, filter.Page, limit), nil
}

// UpdateCourse applies a merge-patch to a course, enforcing ownership
func (s *CourseService) UpdateCourse(ctx context.Context, callerID int64, callerRole models.RoleType, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureCourseOwner(course, callerID, callerRole); err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Slug != nil {
		if err := validateSlug(*req.Slug); err != nil {
			return nil, err
		}
		course.Slug = *req.Slug
	}
	if req.SmallDescription != nil {
		course.SmallDescription = req.SmallDescription
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Thumbnail != nil {
		course.Thumbnail = req.Thumbnail
	}
	if req.DurationHours != nil {
		course.DurationHours = req.DurationHours
	}
	if req.DifficultyLevel != nil {
		level := models.DifficultyLevel(*req.DifficultyLevel)
		course.DifficultyLevel = &level
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		course.CategoryID = req.CategoryID
	}
	if req.IsFeatured != nil {
		course.IsFeatured = *req.IsFeatured
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
		if course.IsPublished && course.PublishedAt == nil {
			now := time.Now()
			course.PublishedAt = &now
		}
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes a course, enforcing ownership. Lessons and
// enrollments cascade.
func (s *CourseService) DeleteCourse(ctx context.Context, callerID int64, callerRole models.RoleType, id int64) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureCourseOwner(course, callerID, callerRole); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("courseId", id).Msg("Course deleted")
	return nil
}
