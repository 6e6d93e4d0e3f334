package models

import "time"

// Course is a published or draft course in the catalog
type Course struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	Slug             string           `json:"slug"`
	SmallDescription *string          `json:"smallDescription,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Thumbnail        *string          `json:"thumbnail,omitempty"`
	DurationHours    *float64         `json:"durationHours,omitempty"`
	DifficultyLevel  *DifficultyLevel `json:"difficultyLevel,omitempty"`
	Rating           float64          `json:"rating"`
	TotalRatings     int              `json:"totalRatings"`
	IsPublished      bool             `json:"isPublished"`
	IsFeatured       bool             `json:"isFeatured"`
	InstructorID     *int64           `json:"instructorId,omitempty"`
	CategoryID       *int64           `json:"categoryId,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
	PublishedAt      *time.Time       `json:"publishedAt,omitempty"`

	// Eager-loaded relations, populated on detail reads
	Instructor *User     `json:"instructor,omitempty"`
	Category   *Category `json:"category,omitempty"`
	Lessons    []*Lesson `json:"lessons,omitempty"`
}
