package dto

// CreateCourseRequest creates a course. Non-admin callers always become
// the instructor of the course they create.
type CreateCourseRequest struct {
	Title            string   `json:"title" binding:"required,min=2,max=200"`
	Slug             string   `json:"slug" binding:"required,min=2,max=200"`
	SmallDescription *string  `json:"smallDescription,omitempty" binding:"omitempty,max=500"`
	Description      *string  `json:"description,omitempty"`
	Thumbnail        *string  `json:"thumbnail,omitempty"`
	DurationHours    *float64 `json:"durationHours,omitempty" binding:"omitempty,gte=0"`
	DifficultyLevel  *string  `json:"difficultyLevel,omitempty" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	CategoryID       *int64   `json:"categoryId,omitempty"`
	InstructorID     *int64   `json:"instructorId,omitempty"`
	IsPublished      *bool    `json:"isPublished,omitempty"`
	IsFeatured       *bool    `json:"isFeatured,omitempty"`
}

// UpdateCourseRequest is a merge-patch for a course
type UpdateCourseRequest struct {
	Title            *string  `json:"title,omitempty" binding:"omitempty,min=2,max=200"`
	Slug             *string  `json:"slug,omitempty" binding:"omitempty,min=2,max=200"`
	SmallDescription *string  `json:"smallDescription,omitempty" binding:"omitempty,max=500"`
	Description      *string  `json:"description,omitempty"`
	Thumbnail        *string  `json:"thumbnail,omitempty"`
	DurationHours    *float64 `json:"durationHours,omitempty" binding:"omitempty,gte=0"`
	DifficultyLevel  *string  `json:"difficultyLevel,omitempty" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	CategoryID       *int64   `json:"categoryId,omitempty"`
	IsPublished      *bool    `json:"isPublished,omitempty"`
	IsFeatured       *bool    `json:"isFeatured,omitempty"`
}

// CourseFilter collects the conjunctive list filters for courses
type CourseFilter struct {
	CategoryID   *int64
	InstructorID *int64
	Difficulty   *string
	Search       *string
	Page         int
	Size         int
}
