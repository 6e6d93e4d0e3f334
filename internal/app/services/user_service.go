package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/app/models/dto"
	"github.com/ljcourses/backend/internal/app/repositories"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
	"github.com/ljcourses/backend/internal/pkg/filestorage"
	"github.com/ljcourses/backend/internal/pkg/helpers"
	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// UserService handles profile management
type UserService struct {
	userRepo repositories.IUserRepository
	storage  *filestorage.LocalStorage
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, storage *filestorage.LocalStorage) *UserService {
	return &UserService{
		userRepo: userRepo,
		storage:  storage,
		logger:   logger.WithField("service", "user"),
	}
}

// GetUserByID returns a user by id
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}

// ListUsers returns a page of users, optionally narrowed to one role
func (s *UserService) ListUsers(ctx context.Context, role *models.RoleType, page, size int) ([]*models.User, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	users, total, err := s.userRepo.ListUsers(ctx, repositories.UserFilter{
		Role:   role,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return users, helpers.NewPaginationInfo(total, page, limit), nil
}

// UpdateProfile applies a merge-patch to a user's profile. Only the owner or
// an admin may update a profile.
func (s *UserService) UpdateProfile(ctx context.Context, callerID int64, callerRole models.RoleType, targetID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	if callerID != targetID && callerRole != models.RoleAdmin {
		return nil, apperrors.ErrPermissionDenied
	}

	user, err := s.userRepo.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Major != nil {
		user.Major = req.Major
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfilePhoto validates and stores a new profile photo, replacing any
// previous one. Validation happens before anything touches the disk.
func (s *UserService) UpdateProfilePhoto(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (string, error) {
	if err := filestorage.ValidateImage(fileHeader); err != nil {
		return "", apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}

	subPath := fmt.Sprintf("profile_photos/user_%d", userID)
	storedPath, err := s.storage.SaveFileWithPath(fileHeader, subPath)
	if err != nil {
		return "", fmt.Errorf("failed to store profile photo: %w", err)
	}

	oldPhoto := user.ProfileImage

	if err := s.userRepo.UpdateProfileImage(ctx, userID, &storedPath); err != nil {
		// Roll back the freshly written file if the DB update failed
		_ = s.storage.DeleteFile(storedPath)
		return "", err
	}

	// Old photo cleanup is best effort; the new photo is already live
	if oldPhoto != nil && *oldPhoto != "" {
		if err := s.storage.DeleteFile(*oldPhoto); err != nil {
			s.logger.Warn().Err(err).Str("path", *oldPhoto).Msg("Failed to remove old profile photo")
		}
	}

	return storedPath, nil
}

// DeleteProfilePhoto clears the stored photo path, then removes the file
// best effort.
func (s *UserService) DeleteProfilePhoto(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.ProfileImage == nil || *user.ProfileImage == "" {
		return nil
	}

	oldPhoto := *user.ProfileImage
	if err := s.userRepo.UpdateProfileImage(ctx, userID, nil); err != nil {
		return err
	}

	if err := s.storage.DeleteFile(oldPhoto); err != nil {
		s.logger.Warn().Err(err).Str("path", oldPhoto).Msg("Failed to remove profile photo file")
	}
	return nil
}

// DeleteAccount removes a user and everything hanging off it. Only the owner
// or an admin may delete an account. The photo file cleanup is best effort.
func (s *UserService) DeleteAccount(ctx context.Context, callerID int64, callerRole models.RoleType, targetID int64) error {
	if callerID != targetID && callerRole != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}

	user, err := s.userRepo.GetUserByID(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.userRepo.DeleteUser(ctx, targetID); err != nil {
		return err
	}

	if user.ProfileImage != nil && *user.ProfileImage != "" {
		if err := s.storage.DeleteFile(*user.ProfileImage); err != nil {
			s.logger.Warn().Err(err).Str("path", *user.ProfileImage).Msg("Failed to remove profile photo file")
		}
	}

	s.logger.Info().Int64("userId", targetID).Msg("Account deleted")
	return nil
}
