package dto

// CreateLessonRequest creates a lesson under a course
type CreateLessonRequest struct {
	Title         string  `json:"title" binding:"required,min=2,max=200"`
	Description   *string `json:"description,omitempty"`
	Content       *string `json:"content,omitempty"`
	VideoURL      *string `json:"videoUrl,omitempty"`
	VideoDuration *int    `json:"videoDuration,omitempty" binding:"omitempty,gte=0"`
	ResourcesURL  *string `json:"resourcesUrl,omitempty"`
	Position      int     `json:"position" binding:"gte=0"`
	IsFree        *bool   `json:"isFree,omitempty"`
	IsPublished   *bool   `json:"isPublished,omitempty"`
}

// UpdateLessonRequest is a merge-patch for a lesson
type UpdateLessonRequest struct {
	Title         *string `json:"title,omitempty" binding:"omitempty,min=2,max=200"`
	Description   *string `json:"description,omitempty"`
	Content       *string `json:"content,omitempty"`
	VideoURL      *string `json:"videoUrl,omitempty"`
	VideoDuration *int    `json:"videoDuration,omitempty" binding:"omitempty,gte=0"`
	ResourcesURL  *string `json:"resourcesUrl,omitempty"`
	Position      *int    `json:"position,omitempty" binding:"omitempty,gte=0"`
	IsFree        *bool   `json:"isFree,omitempty"`
	IsPublished   *bool   `json:"isPublished,omitempty"`
}
