package services

import (
	"context"

	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/app/models/dto"
	"github.com/ljcourses/backend/internal/app/repositories"
	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// LessonService handles course lessons
type LessonService struct {
	lessonRepo repositories.ILessonRepository
	courseRepo repositories.ICourseRepository
	logger     zerolog.Logger
}

// NewLessonService creates a new LessonService
func NewLessonService(lessonRepo repositories.ILessonRepository, courseRepo repositories.ICourseRepository) *LessonService {
	return &LessonService{
		lessonRepo: lessonRepo,
		courseRepo: courseRepo,
		logger:     logger.WithField("service", "lesson"),
	}
}

// CreateLesson adds a lesson to a course, enforcing course ownership
func (s *LessonService) CreateLesson(ctx context.Context, callerID int64, callerRole models.RoleType, courseID int64, req *dto.CreateLessonRequest) (*models.Lesson, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := ensureCourseOwner(course, callerID, callerRole); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		CourseID:      courseID,
		Title:         req.Title,
		Description:   req.Description,
		Content:       req.Content,
		VideoURL:      req.VideoURL,
		VideoDuration: req.VideoDuration,
		ResourcesURL:  req.ResourcesURL,
		Position:      req.Position,
		IsPublished:   true,
	}
	if req.IsFree != nil {
		lesson.IsFree = *req.IsFree
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("lessonId", lesson.ID).Int64("courseId", courseID).Msg("Lesson created")
	return lesson, nil
}

// GetLesson returns a lesson by id
func (s *LessonService) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	return s.lessonRepo.GetByID(ctx, id)
}

// ListLessons returns a course's lessons in position order
func (s *LessonService) ListLessons(ctx context.Context, courseID int64) ([]*models.Lesson, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.lessonRepo.ListByCourse(ctx, courseID)
}

// GetNextLesson returns the lesson following the given one within its course
func (s *LessonService) GetNextLesson(ctx context.Context, lessonID int64) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return s.lessonRepo.GetNextLesson(ctx, lesson.CourseID, lesson.Position)
}

// UpdateLesson applies a merge-patch to a lesson, enforcing course ownership
func (s *LessonService) UpdateLesson(ctx context.Context, callerID int64, callerRole models.RoleType, id int64, req *dto.UpdateLessonRequest) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	if err := ensureCourseOwner(course, callerID, callerRole); err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = req.Description
	}
	if req.Content != nil {
		lesson.Content = req.Content
	}
	if req.VideoURL != nil {
		lesson.VideoURL = req.VideoURL
	}
	if req.VideoDuration != nil {
		lesson.VideoDuration = req.VideoDuration
	}
	if req.ResourcesURL != nil {
		lesson.ResourcesURL = req.ResourcesURL
	}
	if req.Position != nil {
		lesson.Position = *req.Position
	}
	if req.IsFree != nil {
		lesson.IsFree = *req.IsFree
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}

	if err := s.lessonRepo.Update(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// DeleteLesson removes a lesson, enforcing course ownership
func (s *LessonService) DeleteLesson(ctx context.Context, callerID int64, callerRole models.RoleType, id int64) error {
	lesson, err := s.lessonRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	course, err := s.courseRepo.GetByID(ctx, lesson.CourseID)
	if err != nil {
		return err
	}
	if err := ensureCourseOwner(course, callerID, callerRole); err != nil {
		return err
	}

	if err := s.lessonRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("lessonId", id).Msg("Lesson deleted")
	return nil
}
