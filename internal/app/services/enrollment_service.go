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

// ensureEnrollmentOwner checks that the caller may act on the enrollment.
// Admins are exempt; students may only touch their own enrollments.
func ensureEnrollmentOwner(enrollment *models.Enrollment, callerID int64, callerRole models.RoleType) error {
	if callerRole == models.RoleAdmin {
		return nil
	}
	if enrollment.StudentID != callerID {
		return apperrors.NewForbiddenError("You can only access your own enrollments")
	}
	return nil
}

// EnrollmentService handles the enrollment ledger
type EnrollmentService struct {
	enrollmentRepo repositories.IEnrollmentRepository
	courseRepo     repositories.ICourseRepository
	lessonRepo     repositories.ILessonRepository
	progressRepo   repositories.IProgressRepository
	logger         zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	enrollmentRepo repositories.IEnrollmentRepository,
	courseRepo repositories.ICourseRepository,
	lessonRepo repositories.ILessonRepository,
	progressRepo repositories.IProgressRepository,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		progressRepo:   progressRepo,
		logger:         logger.WithField("service", "enrollment"),
	}
}

// Enroll adds the student to a course. A duplicate enrollment is always a
// hard conflict; the database constraint is the authoritative guard.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentId", studentID).Int64("courseId", courseID).Msg("Student enrolled")
	return enrollment, nil
}

// GetEnrollment returns one enrollment with its computed progress summary
func (s *EnrollmentService) GetEnrollment(ctx context.Context, callerID int64, callerRole models.RoleType, id int64) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureEnrollmentOwner(enrollment, callerID, callerRole); err != nil {
		return nil, err
	}

	summary, err := s.summarize(ctx, enrollment)
	if err != nil {
		return nil, err
	}

	return &dto.EnrollmentResponse{Enrollment: enrollment, Progress: summary}, nil
}

// ListMyEnrollments returns the caller's enrollments, each with its course
// and progress summary. completed optionally filters finished enrollments.
func (s *EnrollmentService) ListMyEnrollments(ctx context.Context, studentID int64, completed *bool) ([]*dto.EnrollmentResponse, error) {
	enrollments, err := s.enrollmentRepo.ListByStudent(ctx, studentID, completed)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		course, err := s.courseRepo.GetByID(ctx, enrollment.CourseID)
		if err != nil && !apperrors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, err
		}
		enrollment.Course = course

		summary, err := s.summarize(ctx, enrollment)
		if err != nil {
			return nil, err
		}
		responses = append(responses, &dto.EnrollmentResponse{Enrollment: enrollment, Progress: summary})
	}
	return responses, nil
}

// Unenroll removes an enrollment. Only the owning student or an admin may
// do this; progress rows cascade.
func (s *EnrollmentService) Unenroll(ctx context.Context, callerID int64, callerRole models.RoleType, id int64) error {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureEnrollmentOwner(enrollment, callerID, callerRole); err != nil {
		return err
	}

	if err := s.enrollmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("enrollmentId", id).Msg("Enrollment removed")
	return nil
}

// summarize computes the progress summary for an enrollment
func (s *EnrollmentService) summarize(ctx context.Context, enrollment *models.Enrollment) (*models.ProgressSummary, error) {
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
