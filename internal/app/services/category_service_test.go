package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/app/models/dto"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
)

func newCategoryService(t *testing.T) (*CategoryService, *memCategoryRepo, *memCourseRepo) {
	t.Helper()
	categoryRepo := newMemCategoryRepo()
	courseRepo := newMemCourseRepo()
	return NewCategoryService(categoryRepo, courseRepo), categoryRepo, courseRepo
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a category", func(t *testing.T) {
		service, _, _ := newCategoryService(t)

		category, err := service.CreateCategory(ctx, &dto.CreateCategoryRequest{
			Name: "Web Development",
			Slug: "web-development",
		})
		require.NoError(t, err)
		assert.NotZero(t, category.ID)
	})

	t.Run("duplicate name or slug conflicts", func(t *testing.T) {
		service, _, _ := newCategoryService(t)

		_, err := service.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Design", Slug: "design"})
		require.NoError(t, err)

		_, err = service.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Design", Slug: "design-2"})
		assert.ErrorIs(t, err, apperrors.ErrCategoryAlreadyExists)
	})

	t.Run("rejects invalid slug", func(t *testing.T) {
		service, _, _ := newCategoryService(t)

		_, err := service.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Design", Slug: "Design!"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newCategoryService(t)

	category, err := service.CreateCategory(ctx, &dto.CreateCategoryRequest{
		Name:        "Design",
		Slug:        "design",
		Description: strPtr("Visual design courses"),
	})
	require.NoError(t, err)

	updated, err := service.UpdateCategory(ctx, category.ID, &dto.UpdateCategoryRequest{
		Name: strPtr("Design & UX"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Design & UX", updated.Name)
	assert.Equal(t, "design", updated.Slug)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Visual design courses", *updated.Description)
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an unused category", func(t *testing.T) {
		service, categoryRepo, _ := newCategoryService(t)

		category, err := service.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Design", Slug: "design"})
		require.NoError(t, err)

		require.NoError(t, service.DeleteCategory(ctx, category.ID))

		_, err = categoryRepo.GetByID(ctx, category.ID)
		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})

	t.Run("rejected while courses reference it", func(t *testing.T) {
		service, _, courseRepo := newCategoryService(t)

		category, err := service.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Design", Slug: "design"})
		require.NoError(t, err)

		course := &models.Course{Title: "Figma", Slug: "figma", CategoryID: &category.ID}
		require.NoError(t, courseRepo.Create(ctx, course))

		err = service.DeleteCategory(ctx, category.ID)
		assert.ErrorIs(t, err, apperrors.ErrCategoryHasCourses)
	})

	t.Run("unknown category", func(t *testing.T) {
		service, _, _ := newCategoryService(t)

		err := service.DeleteCategory(ctx, 999)
		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})
}
