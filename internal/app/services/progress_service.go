package services

import (
	"context"

	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/app/models/dto"
	"github.com/ljcourses/backend/internal/app/repositories"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// computeProgress derives the progress summary from completed and total
// lesson counts. Percent is floored. A course with no lessons is never
// complete.
func computeProgress(completed, total int) models.ProgressSummary {
	summary := models.ProgressSummary{
		CompletedCount: completed,
		TotalLessons:   total,
	}
	if total <= 0 {
		return summary
	}
	summary.Percent = (100 * completed) / total
	summary.IsCourseComplete = completed >= total
	return summary
}

// ProgressService tracks per-lesson progress within enrollments
type ProgressService struct {
	progressRepo   repositories.IProgressRepository
	enrollmentRepo repositories.IEnrollmentRepository
	lessonRepo     repositories.ILessonRepository
	logger         zerolog.Logger
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	progressRepo repositories.IProgressRepository,
	enrollmentRepo repositories.IEnrollmentRepository,
	lessonRepo repositories.ILessonRepository,
) *ProgressService {
	return &ProgressService{
		progressRepo:   progressRepo,
		enrollmentRepo: enrollmentRepo,
		lessonRepo:     lessonRepo,
		logger:         logger.WithField("service", "progress"),
	}
}

// StartLesson begins (or resumes) tracking a lesson within an enrollment.
// When a progress row already exists it is returned unchanged apart from its
// access timestamp. The lesson must belong to the enrollment's course.
func (s *ProgressService) StartLesson(ctx context.Context, callerID int64, callerRole models.RoleType, req *dto.StartProgressRequest) (*dto.ProgressResponse, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, req.EnrollmentID)
	if err != nil {
		return nil, err
	}
	if err := ensureEnrollmentOwner(enrollment, callerID, callerRole); err != nil {
		return nil, err
	}

	lesson, err := s.lessonRepo.GetByID(ctx, req.LessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != enrollment.CourseID {
		return nil, apperrors.ErrLessonNotFound
	}

	progress, created, err := s.progressRepo.GetOrCreate(ctx, req.EnrollmentID, req.LessonID)
	if err != nil {
		return nil, err
	}
	if !created {
		if err := s.progressRepo.TouchAccess(ctx, progress.ID); err != nil {
			s.logger.Warn().Err(err).Int64("progressId", progress.ID).Msg("Failed to touch progress access")
		}
	}

	if err := s.enrollmentRepo.TouchAccess(ctx, enrollment.ID); err != nil {
		s.logger.Warn().Err(err).Int64("enrollmentId", enrollment.ID).Msg("Failed to touch enrollment access")
	}

	summary, err := s.summarize(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	return &dto.ProgressResponse{Progress: progress, Summary: summary}, nil
}

// UpdateProgress records watch time and completion for a lesson progress row.
// Completion is terminal: isCompleted=false on a completed row is rejected.
// Completing the final lesson marks the enrollment complete, exactly once.
func (s *ProgressService) UpdateProgress(ctx context.Context, callerID int64, callerRole models.RoleType, progressID int64, req *dto.UpdateProgressRequest) (*dto.ProgressResponse, error) {
	progress, err := s.progressRepo.GetByID(ctx, progressID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.GetByID(ctx, progress.EnrollmentID)
	if err != nil {
		return nil, err
	}
	if err := ensureEnrollmentOwner(enrollment, callerID, callerRole); err != nil {
		return nil, err
	}

	if req.WatchTime != nil {
		if err := s.progressRepo.UpdateWatchTime(ctx, progressID, *req.WatchTime); err != nil {
			return nil, err
		}
		progress.WatchTime = *req.WatchTime
	}

	if req.IsCompleted {
		progress, err = s.progressRepo.Complete(ctx, progressID)
		if err != nil {
			return nil, err
		}
	} else {
		if progress.IsCompleted {
			return nil, apperrors.ErrProgressAlreadyComplete
		}
		if err := s.progressRepo.TouchAccess(ctx, progressID); err != nil {
			s.logger.Warn().Err(err).Int64("progressId", progressID).Msg("Failed to touch progress access")
		}
	}

	if err := s.enrollmentRepo.TouchAccess(ctx, enrollment.ID); err != nil {
		s.logger.Warn().Err(err).Int64("enrollmentId", enrollment.ID).Msg("Failed to touch enrollment access")
	}

	summary, err := s.summarize(ctx, enrollment)
	if err != nil {
		return nil, err
	}

	if summary.IsCourseComplete {
		if err := s.enrollmentRepo.MarkComplete(ctx, enrollment.ID); err != nil {
			return nil, err
		}
	}

	return &dto.ProgressResponse{Progress: progress, Summary: summary}, nil
}

// GetProgress returns the computed progress summary for an enrollment
func (s *ProgressService) GetProgress(ctx context.Context, callerID int64, callerRole models.RoleType, enrollmentID int64) (*models.ProgressSummary, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if err := ensureEnrollmentOwner(enrollment, callerID, callerRole); err != nil {
		return nil, err
	}
	return s.summarize(ctx, enrollment)
}

func (s *ProgressService) summarize(ctx context.Context, enrollment *models.Enrollment) (*models.ProgressSummary, error) {
	total, err := s.lessonRepo.CountByCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.progressRepo.CountCompleted(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}
	summary := computeProgress(completed, total)
	return &summary, nil
}
