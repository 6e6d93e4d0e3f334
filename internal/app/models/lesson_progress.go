package models

import "time"

// LessonProgress tracks one student's progress on one lesson within an enrollment.
// Completion is terminal: once IsCompleted is set it is never cleared.
type LessonProgress struct {
	ID           int64      `json:"id"`
	EnrollmentID int64      `json:"enrollmentId"`
	LessonID     int64      `json:"lessonId"`
	IsCompleted  bool       `json:"isCompleted"`
	WatchTime    int        `json:"watchTime"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	LastAccessed time.Time  `json:"lastAccessed"`
}

// ProgressSummary is the computed progress of an enrollment
type ProgressSummary struct {
	CompletedCount   int  `json:"completedCount"`
	TotalLessons     int  `json:"totalLessons"`
	Percent          int  `json:"percent"`
	IsCourseComplete bool `json:"isCourseComplete"`
}
