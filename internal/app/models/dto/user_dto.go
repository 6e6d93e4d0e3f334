package dto

// UpdateProfileRequest is a merge-patch for the caller's profile.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty" binding:"omitempty,min=2,max=100"`
	Bio      *string `json:"bio,omitempty" binding:"omitempty,max=1000"`
	Major    *string `json:"major,omitempty" binding:"omitempty,max=100"`
}

// ProfilePhotoResponse returns the stored photo path after upload
type ProfilePhotoResponse struct {
	ProfileImage string `json:"profileImage"`
}
