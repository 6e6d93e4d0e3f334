package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
	"github.com/ljcourses/backend/internal/pkg/filestorage"
)

type userFixture struct {
	service  *UserService
	userRepo *memUserRepo
	basePath string
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	basePath := t.TempDir()
	storage, err := filestorage.NewLocalStorage(basePath, "")
	require.NoError(t, err)

	userRepo := newMemUserRepo()
	return &userFixture{
		service:  NewUserService(userRepo, storage),
		userRepo: userRepo,
		basePath: basePath,
	}
}

func (f *userFixture) addUser(t *testing.T, email string, role models.RoleType) *models.User {
	t.Helper()
	user := &models.User{Email: email, FullName: "Test User", RoleType: role, IsActive: true}
	_, err := f.userRepo.CreateUser(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes own account", func(t *testing.T) {
		f := newUserFixture(t)
		user := f.addUser(t, "student@example.com", models.RoleStudent)

		err := f.service.DeleteAccount(ctx, user.ID, models.RoleStudent, user.ID)
		require.NoError(t, err)

		_, err = f.userRepo.GetUserByID(ctx, user.ID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("another student is denied", func(t *testing.T) {
		f := newUserFixture(t)
		target := f.addUser(t, "target@example.com", models.RoleStudent)
		other := f.addUser(t, "other@example.com", models.RoleStudent)

		err := f.service.DeleteAccount(ctx, other.ID, models.RoleStudent, target.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

		_, err = f.userRepo.GetUserByID(ctx, target.ID)
		assert.NoError(t, err)
	})

	t.Run("admin deletes any account", func(t *testing.T) {
		f := newUserFixture(t)
		target := f.addUser(t, "target@example.com", models.RoleStudent)
		admin := f.addUser(t, "admin@example.com", models.RoleAdmin)

		err := f.service.DeleteAccount(ctx, admin.ID, models.RoleAdmin, target.ID)
		require.NoError(t, err)

		_, err = f.userRepo.GetUserByID(ctx, target.ID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newUserFixture(t)
		admin := f.addUser(t, "admin@example.com", models.RoleAdmin)

		err := f.service.DeleteAccount(ctx, admin.ID, models.RoleAdmin, 999)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("removes the profile photo file", func(t *testing.T) {
		f := newUserFixture(t)
		user := f.addUser(t, "student@example.com", models.RoleStudent)

		photoDir := filepath.Join(f.basePath, "profile_photos", "user_1")
		require.NoError(t, os.MkdirAll(photoDir, 0o755))
		photoFile := filepath.Join(photoDir, "photo.jpg")
		require.NoError(t, os.WriteFile(photoFile, []byte("jpeg bytes"), 0o644))

		storedPath := "uploads/profile_photos/user_1/photo.jpg"
		require.NoError(t, f.userRepo.UpdateProfileImage(ctx, user.ID, &storedPath))

		require.NoError(t, f.service.DeleteAccount(ctx, user.ID, models.RoleStudent, user.ID))

		_, err := os.Stat(photoFile)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by role", func(t *testing.T) {
		f := newUserFixture(t)
		f.addUser(t, "student1@example.com", models.RoleStudent)
		f.addUser(t, "student2@example.com", models.RoleStudent)
		f.addUser(t, "teacher@example.com", models.RoleInstructor)

		role := models.RoleStudent
		users, pagination, err := f.service.ListUsers(ctx, &role, 1, 10)
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, int64(2), pagination.TotalItems)
		for _, u := range users {
			assert.Equal(t, models.RoleStudent, u.RoleType)
		}
	})

	t.Run("no filter returns everyone", func(t *testing.T) {
		f := newUserFixture(t)
		f.addUser(t, "student@example.com", models.RoleStudent)
		f.addUser(t, "teacher@example.com", models.RoleInstructor)

		users, pagination, err := f.service.ListUsers(ctx, nil, 1, 10)
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, int64(2), pagination.TotalItems)
	})

	t.Run("paginates", func(t *testing.T) {
		f := newUserFixture(t)
		f.addUser(t, "a@example.com", models.RoleStudent)
		f.addUser(t, "b@example.com", models.RoleStudent)
		f.addUser(t, "c@example.com", models.RoleStudent)

		users, pagination, err := f.service.ListUsers(ctx, nil, 2, 2)
		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, int64(3), pagination.TotalItems)
		assert.Equal(t, 2, pagination.TotalPages)
		assert.Equal(t, 2, pagination.CurrentPage)
	})
}
