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

type lessonFixture struct {
	service    *LessonService
	lessonRepo *memLessonRepo
	courseRepo *memCourseRepo
	course     *models.Course
}

func newLessonFixture(t *testing.T) *lessonFixture {
	t.Helper()
	lessonRepo := newMemLessonRepo()
	courseRepo := newMemCourseRepo()

	instructorID := int64(7)
	course := &models.Course{Title: "Go Basics", Slug: "go-basics", InstructorID: &instructorID}
	require.NoError(t, courseRepo.Create(context.Background(), course))

	return &lessonFixture{
		service:    NewLessonService(lessonRepo, courseRepo),
		lessonRepo: lessonRepo,
		courseRepo: courseRepo,
		course:     course,
	}
}

func TestCreateLesson(t *testing.T) {
	ctx := context.Background()

	t.Run("owner creates a lesson", func(t *testing.T) {
		f := newLessonFixture(t)

		lesson, err := f.service.CreateLesson(ctx, 7, models.RoleInstructor, f.course.ID, &dto.CreateLessonRequest{
			Title:    "Introduction",
			Position: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, f.course.ID, lesson.CourseID)
		assert.True(t, lesson.IsPublished)
		assert.False(t, lesson.IsFree)
	})

	t.Run("another instructor is forbidden", func(t *testing.T) {
		f := newLessonFixture(t)

		_, err := f.service.CreateLesson(ctx, 8, models.RoleInstructor, f.course.ID, &dto.CreateLessonRequest{
			Title:    "Introduction",
			Position: 1,
		})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("unknown course", func(t *testing.T) {
		f := newLessonFixture(t)

		_, err := f.service.CreateLesson(ctx, 7, models.RoleInstructor, 999, &dto.CreateLessonRequest{
			Title:    "Introduction",
			Position: 1,
		})
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})
}

func TestListLessons(t *testing.T) {
	ctx := context.Background()
	f := newLessonFixture(t)

	// Created out of order on purpose
	for _, position := range []int{3, 1, 2} {
		_, err := f.service.CreateLesson(ctx, 7, models.RoleInstructor, f.course.ID, &dto.CreateLessonRequest{
			Title:    "Lesson",
			Position: position,
		})
		require.NoError(t, err)
	}

	lessons, err := f.service.ListLessons(ctx, f.course.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 3)
	for i, lesson := range lessons {
		assert.Equal(t, i+1, lesson.Position)
	}
}

func TestGetNextLesson(t *testing.T) {
	ctx := context.Background()
	f := newLessonFixture(t)

	var created []*models.Lesson
	for i := 1; i <= 3; i++ {
		lesson, err := f.service.CreateLesson(ctx, 7, models.RoleInstructor, f.course.ID, &dto.CreateLessonRequest{
			Title:    "Lesson",
			Position: i,
		})
		require.NoError(t, err)
		created = append(created, lesson)
	}

	next, err := f.service.GetNextLesson(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, created[1].ID, next.ID)

	// The last lesson has no successor
	_, err = f.service.GetNextLesson(ctx, created[2].ID)
	assert.ErrorIs(t, err, apperrors.ErrLessonNotFound)
}

func TestUpdateLesson(t *testing.T) {
	ctx := context.Background()

	t.Run("merge-patch keeps unset fields", func(t *testing.T) {
		f := newLessonFixture(t)
		lesson, err := f.service.CreateLesson(ctx, 7, models.RoleInstructor, f.course.ID, &dto.CreateLessonRequest{
			Title:    "Introduction",
			Content:  strPtr("Welcome"),
			Position: 1,
		})
		require.NoError(t, err)

		position := 5
		updated, err := f.service.UpdateLesson(ctx, 7, models.RoleInstructor, lesson.ID, &dto.UpdateLessonRequest{
			Position: &position,
		})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Position)
		assert.Equal(t, "Introduction", updated.Title)
		require.NotNil(t, updated.Content)
		assert.Equal(t, "Welcome", *updated.Content)
	})

	t.Run("another instructor is forbidden", func(t *testing.T) {
		f := newLessonFixture(t)
		lesson, err := f.service.CreateLesson(ctx, 7, models.RoleInstructor, f.course.ID, &dto.CreateLessonRequest{
			Title:    "Introduction",
			Position: 1,
		})
		require.NoError(t, err)

		_, err = f.service.UpdateLesson(ctx, 8, models.RoleInstructor, lesson.ID, &dto.UpdateLessonRequest{
			Title: strPtr("Hijacked"),
		})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestDeleteLesson(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes the lesson", func(t *testing.T) {
		f := newLessonFixture(t)
		lesson, err := f.service.CreateLesson(ctx, 7, models.RoleInstructor, f.course.ID, &dto.CreateLessonRequest{
			Title:    "Introduction",
			Position: 1,
		})
		require.NoError(t, err)

		require.NoError(t, f.service.DeleteLesson(ctx, 7, models.RoleInstructor, lesson.ID))

		_, err = f.lessonRepo.GetByID(ctx, lesson.ID)
		assert.ErrorIs(t, err, apperrors.ErrLessonNotFound)
	})

	t.Run("admin may delete any lesson", func(t *testing.T) {
		f := newLessonFixture(t)
		lesson, err := f.service.CreateLesson(ctx, 7, models.RoleInstructor, f.course.ID, &dto.CreateLessonRequest{
			Title:    "Introduction",
			Position: 1,
		})
		require.NoError(t, err)

		assert.NoError(t, f.service.DeleteLesson(ctx, 1, models.RoleAdmin, lesson.ID))
	})
}
