package models

import "time"

// Enrollment links a student to a course. CompletedAt is set exactly once,
// when every lesson of the course has been completed.
type Enrollment struct {
	ID           int64      `json:"id"`
	StudentID    int64      `json:"studentId"`
	CourseID     int64      `json:"courseId"`
	EnrolledAt   time.Time  `json:"enrolledAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	LastAccessed time.Time  `json:"lastAccessed"`

	Course *Course `json:"course,omitempty"`
}
