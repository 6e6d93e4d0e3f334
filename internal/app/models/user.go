package models

import "time"

// User represents a platform account (student, instructor or admin)
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	FullName     string     `json:"fullName"`
	RoleType     RoleType   `json:"roleType"`
	Bio          *string    `json:"bio,omitempty"`
	Major        *string    `json:"major,omitempty"`
	ProfileImage *string    `json:"profileImage,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// RefreshToken represents a persisted refresh token
type RefreshToken struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Token      string    `json:"token"`
	ExpiryDate time.Time `json:"expiryDate"`
	IsRevoked  bool      `json:"isRevoked"`
	CreatedAt  time.Time `json:"createdAt"`
}
