package models

import "time"

// Lesson is a single unit of course content, ordered by Position within its course
type Lesson struct {
	ID            int64     `json:"id"`
	CourseID      int64     `json:"courseId"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	Content       *string   `json:"content,omitempty"`
	VideoURL      *string   `json:"videoUrl,omitempty"`
	VideoDuration *int      `json:"videoDuration,omitempty"`
	ResourcesURL  *string   `json:"resourcesUrl,omitempty"`
	Position      int       `json:"position"`
	IsFree        bool      `json:"isFree"`
	IsPublished   bool      `json:"isPublished"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
