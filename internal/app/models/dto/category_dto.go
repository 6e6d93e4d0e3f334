package dto

// CreateCategoryRequest creates a catalog category
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100" example:"Web Development"`
	Slug        string  `json:"slug" binding:"required,min=2,max=100" example:"web-development"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty" example:"code"`
	Color       *string `json:"color,omitempty" example:"#3498db"`
}

// UpdateCategoryRequest is a merge-patch for a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Slug        *string `json:"slug,omitempty" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
}
