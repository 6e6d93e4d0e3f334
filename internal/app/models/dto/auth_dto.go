package dto

import "github.com/ljcourses/backend/internal/app/models"

// RegisterRequest is the signup payload. New accounts are always students.
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password        string `json:"password" binding:"required,min=8" example:"Passw0rd1"`
	ConfirmPassword string `json:"confirmPassword" binding:"required" example:"Passw0rd1"`
	FullName        string `json:"fullName" binding:"required,min=2,max=100" example:"Jane Doe"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"Passw0rd1"`
}

// RefreshTokenRequest carries the opaque refresh token to rotate
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ResetPasswordRequest sets a new password for an existing account
type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// TokenResponse is returned by register, login and refresh
type TokenResponse struct {
	AccessToken      string        `json:"accessToken"`
	RefreshToken     string        `json:"refreshToken"`
	TokenType        string        `json:"tokenType" example:"Bearer"`
	ExpiresIn        int           `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int           `json:"refreshExpiresIn" example:"604800"`
	User             *UserResponse `json:"user"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID           int64           `json:"id"`
	Email        string          `json:"email"`
	FullName     string          `json:"fullName"`
	RoleType     models.RoleType `json:"roleType"`
	Bio          *string         `json:"bio,omitempty"`
	Major        *string         `json:"major,omitempty"`
	ProfileImage *string         `json:"profileImage,omitempty"`
	IsActive     bool            `json:"isActive"`
}

// NewUserResponse maps a user model to its public view
func NewUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		RoleType:     user.RoleType,
		Bio:          user.Bio,
		Major:        user.Major,
		ProfileImage: user.ProfileImage,
		IsActive:     user.IsActive,
	}
}
