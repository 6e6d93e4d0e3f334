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

func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }
func boolPtr(b bool) *bool    { return &b }

type courseFixture struct {
	service      *CourseService
	courseRepo   *memCourseRepo
	categoryRepo *memCategoryRepo
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()
	courseRepo := newMemCourseRepo()
	categoryRepo := newMemCategoryRepo()
	return &courseFixture{
		service:      NewCourseService(courseRepo, categoryRepo),
		courseRepo:   courseRepo,
		categoryRepo: categoryRepo,
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"go", "go-basics", "advanced-sql-101", "a1-b2-c3"}
	for _, slug := range valid {
		assert.NoError(t, validateSlug(slug), slug)
	}

	invalid := []string{"", "Go-Basics", "go_basics", "go basics", "-go", "go-", "go--basics", "gö"}
	for _, slug := range invalid {
		assert.Error(t, validateSlug(slug), slug)
	}
}

func TestCreateCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("instructor becomes the owner", func(t *testing.T) {
		f := newCourseFixture(t)

		course, err := f.service.CreateCourse(ctx, 7, models.RoleInstructor, &dto.CreateCourseRequest{
			Title: "Go Basics",
			Slug:  "go-basics",
		})
		require.NoError(t, err)
		require.NotNil(t, course.InstructorID)
		assert.Equal(t, int64(7), *course.InstructorID)
		assert.False(t, course.IsPublished)
		assert.Nil(t, course.PublishedAt)
	})

	t.Run("instructor cannot assign another instructor", func(t *testing.T) {
		f := newCourseFixture(t)

		course, err := f.service.CreateCourse(ctx, 7, models.RoleInstructor, &dto.CreateCourseRequest{
			Title:        "Go Basics",
			Slug:         "go-basics",
			InstructorID: int64Ptr(99),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), *course.InstructorID)
	})

	t.Run("admin may assign the instructor", func(t *testing.T) {
		f := newCourseFixture(t)

		course, err := f.service.CreateCourse(ctx, 1, models.RoleAdmin, &dto.CreateCourseRequest{
			Title:        "Go Basics",
			Slug:         "go-basics",
			InstructorID: int64Ptr(99),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(99), *course.InstructorID)
	})

	t.Run("publishing sets the timestamp", func(t *testing.T) {
		f := newCourseFixture(t)

		course, err := f.service.CreateCourse(ctx, 7, models.RoleInstructor, &dto.CreateCourseRequest{
			Title:       "Go Basics",
			Slug:        "go-basics",
			IsPublished: boolPtr(true),
		})
		require.NoError(t, err)
		assert.True(t, course.IsPublished)
		assert.NotNil(t, course.PublishedAt)
	})

	t.Run("rejects invalid slug", func(t *testing.T) {
		f := newCourseFixture(t)

		_, err := f.service.CreateCourse(ctx, 7, models.RoleInstructor, &dto.CreateCourseRequest{
			Title: "Go Basics",
			Slug:  "Go Basics!",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		f := newCourseFixture(t)

		_, err := f.service.CreateCourse(ctx, 7, models.RoleInstructor, &dto.CreateCourseRequest{
			Title: "Go Basics", Slug: "go-basics",
		})
		require.NoError(t, err)

		_, err = f.service.CreateCourse(ctx, 8, models.RoleInstructor, &dto.CreateCourseRequest{
			Title: "Go Basics Again", Slug: "go-basics",
		})
		assert.ErrorIs(t, err, apperrors.ErrSlugAlreadyExists)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newCourseFixture(t)

		_, err := f.service.CreateCourse(ctx, 7, models.RoleInstructor, &dto.CreateCourseRequest{
			Title:      "Go Basics",
			Slug:       "go-basics",
			CategoryID: int64Ptr(999),
		})
		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})

	t.Run("difficulty level is carried over", func(t *testing.T) {
		f := newCourseFixture(t)

		course, err := f.service.CreateCourse(ctx, 7, models.RoleInstructor, &dto.CreateCourseRequest{
			Title:           "Go Basics",
			Slug:            "go-basics",
			DifficultyLevel: strPtr("BEGINNER"),
		})
		require.NoError(t, err)
		require.NotNil(t, course.DifficultyLevel)
		assert.Equal(t, models.DifficultyBeginner, *course.DifficultyLevel)
	})
}

func TestUpdateCourse(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *courseFixture, instructorID int64) *models.Course {
		t.Helper()
		course, err := f.service.CreateCourse(ctx, instructorID, models.RoleInstructor, &dto.CreateCourseRequest{
			Title:            "Go Basics",
			Slug:             "go-basics",
			SmallDescription: strPtr("Short intro"),
		})
		require.NoError(t, err)
		return course
	}

	t.Run("merge-patch keeps unset fields", func(t *testing.T) {
		f := newCourseFixture(t)
		course := create(t, f, 7)

		updated, err := f.service.UpdateCourse(ctx, 7, models.RoleInstructor, course.ID, &dto.UpdateCourseRequest{
			Title: strPtr("Go Fundamentals"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Go Fundamentals", updated.Title)
		assert.Equal(t, "go-basics", updated.Slug)
		require.NotNil(t, updated.SmallDescription)
		assert.Equal(t, "Short intro", *updated.SmallDescription)
	})

	t.Run("another instructor is forbidden", func(t *testing.T) {
		f := newCourseFixture(t)
		course := create(t, f, 7)

		_, err := f.service.UpdateCourse(ctx, 8, models.RoleInstructor, course.ID, &dto.UpdateCourseRequest{
			Title: strPtr("Hijacked"),
		})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("admin may update any course", func(t *testing.T) {
		f := newCourseFixture(t)
		course := create(t, f, 7)

		_, err := f.service.UpdateCourse(ctx, 1, models.RoleAdmin, course.ID, &dto.UpdateCourseRequest{
			Title: strPtr("Curated"),
		})
		assert.NoError(t, err)
	})

	t.Run("publish timestamp is set once", func(t *testing.T) {
		f := newCourseFixture(t)
		course := create(t, f, 7)

		published, err := f.service.UpdateCourse(ctx, 7, models.RoleInstructor, course.ID, &dto.UpdateCourseRequest{
			IsPublished: boolPtr(true),
		})
		require.NoError(t, err)
		require.NotNil(t, published.PublishedAt)
		firstPublish := *published.PublishedAt

		unpublished, err := f.service.UpdateCourse(ctx, 7, models.RoleInstructor, course.ID, &dto.UpdateCourseRequest{
			IsPublished: boolPtr(false),
		})
		require.NoError(t, err)
		assert.False(t, unpublished.IsPublished)

		republished, err := f.service.UpdateCourse(ctx, 7, models.RoleInstructor, course.ID, &dto.UpdateCourseRequest{
			IsPublished: boolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, firstPublish, *republished.PublishedAt)
	})

	t.Run("invalid slug rejected", func(t *testing.T) {
		f := newCourseFixture(t)
		course := create(t, f, 7)

		_, err := f.service.UpdateCourse(ctx, 7, models.RoleInstructor, course.ID, &dto.UpdateCourseRequest{
			Slug: strPtr("Not A Slug"),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("unknown course", func(t *testing.T) {
		f := newCourseFixture(t)

		_, err := f.service.UpdateCourse(ctx, 7, models.RoleInstructor, 999, &dto.UpdateCourseRequest{})
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})
}

func TestDeleteCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes the course", func(t *testing.T) {
		f := newCourseFixture(t)
		course, err := f.service.CreateCourse(ctx, 7, models.RoleInstructor, &dto.CreateCourseRequest{
			Title: "Go Basics", Slug: "go-basics",
		})
		require.NoError(t, err)

		require.NoError(t, f.service.DeleteCourse(ctx, 7, models.RoleInstructor, course.ID))

		_, err = f.courseRepo.GetByID(ctx, course.ID)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("another instructor is forbidden", func(t *testing.T) {
		f := newCourseFixture(t)
		course, err := f.service.CreateCourse(ctx, 7, models.RoleInstructor, &dto.CreateCourseRequest{
			Title: "Go Basics", Slug: "go-basics",
		})
		require.NoError(t, err)

		err = f.service.DeleteCourse(ctx, 8, models.RoleInstructor, course.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestListCourses(t *testing.T) {
	ctx := context.Background()
	f := newCourseFixture(t)

	for _, slug := range []string{"go-basics", "advanced-go", "sql-intro"} {
		_, err := f.service.CreateCourse(ctx, 7, models.RoleInstructor, &dto.CreateCourseRequest{
			Title: slug, Slug: slug,
		})
		require.NoError(t, err)
	}

	courses, pagination, err := f.service.ListCourses(ctx, &dto.CourseFilter{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Len(t, courses, 3)
	assert.Equal(t, int64(3), pagination.TotalItems)
	assert.Equal(t, 1, pagination.CurrentPage)
	assert.Equal(t, 1, pagination.TotalPages)
}
