package dto

import "github.com/ljcourses/backend/internal/app/models"

// EnrollRequest enrolls the calling student in a course
type EnrollRequest struct {
	CourseID int64 `json:"courseId" binding:"required,gt=0"`
}

// EnrollmentResponse pairs an enrollment with its computed progress
type EnrollmentResponse struct {
	Enrollment *models.Enrollment      `json:"enrollment"`
	Progress   *models.ProgressSummary `json:"progress,omitempty"`
}

// StartProgressRequest begins (or resumes) tracking a lesson
type StartProgressRequest struct {
	EnrollmentID int64 `json:"enrollmentId" binding:"required,gt=0"`
	LessonID     int64 `json:"lessonId" binding:"required,gt=0"`
}

// UpdateProgressRequest marks a lesson progress row complete or records watch time.
// Completion is terminal; isCompleted=false on a completed row is rejected.
type UpdateProgressRequest struct {
	IsCompleted bool `json:"isCompleted"`
	WatchTime   *int `json:"watchTime,omitempty" binding:"omitempty,gte=0"`
}

// ProgressResponse pairs a progress row with the enrollment summary
type ProgressResponse struct {
	Progress *models.LessonProgress  `json:"progress"`
	Summary  *models.ProgressSummary `json:"summary"`
}
