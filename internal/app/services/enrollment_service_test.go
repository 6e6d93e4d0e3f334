package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
)

type enrollmentFixture struct {
	service        *EnrollmentService
	enrollmentRepo *memEnrollmentRepo
	courseRepo     *memCourseRepo
	lessonRepo     *memLessonRepo
	progressRepo   *memProgressRepo
	course         *models.Course
}

func newEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()
	ctx := context.Background()

	enrollmentRepo := newMemEnrollmentRepo()
	courseRepo := newMemCourseRepo()
	lessonRepo := newMemLessonRepo()
	progressRepo := newMemProgressRepo()

	course := &models.Course{Title: "Go Basics", Slug: "go-basics", IsPublished: true}
	require.NoError(t, courseRepo.Create(ctx, course))

	return &enrollmentFixture{
		service:        NewEnrollmentService(enrollmentRepo, courseRepo, lessonRepo, progressRepo),
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		progressRepo:   progressRepo,
		course:         course,
	}
}

func TestEnroll(t *testing.T) {
	ctx := context.Background()

	t.Run("enrolls a student", func(t *testing.T) {
		f := newEnrollmentFixture(t)

		enrollment, err := f.service.Enroll(ctx, 1, f.course.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), enrollment.StudentID)
		assert.Equal(t, f.course.ID, enrollment.CourseID)
		assert.Nil(t, enrollment.CompletedAt)
	})

	t.Run("duplicate enrollment conflicts", func(t *testing.T) {
		f := newEnrollmentFixture(t)

		_, err := f.service.Enroll(ctx, 1, f.course.ID)
		require.NoError(t, err)

		_, err = f.service.Enroll(ctx, 1, f.course.ID)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
	})

	t.Run("unknown course", func(t *testing.T) {
		f := newEnrollmentFixture(t)

		_, err := f.service.Enroll(ctx, 1, 999)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})
}

func TestGetEnrollment(t *testing.T) {
	ctx := context.Background()

	t.Run("includes the progress summary", func(t *testing.T) {
		f := newEnrollmentFixture(t)
		require.NoError(t, f.lessonRepo.Create(ctx, &models.Lesson{CourseID: f.course.ID, Title: "Intro", Position: 1}))
		require.NoError(t, f.lessonRepo.Create(ctx, &models.Lesson{CourseID: f.course.ID, Title: "Setup", Position: 2}))

		enrollment, err := f.service.Enroll(ctx, 1, f.course.ID)
		require.NoError(t, err)

		resp, err := f.service.GetEnrollment(ctx, 1, models.RoleStudent, enrollment.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Progress.TotalLessons)
		assert.Equal(t, 0, resp.Progress.Percent)
		assert.False(t, resp.Progress.IsCourseComplete)
	})

	t.Run("course without lessons has zero progress", func(t *testing.T) {
		f := newEnrollmentFixture(t)

		enrollment, err := f.service.Enroll(ctx, 1, f.course.ID)
		require.NoError(t, err)

		resp, err := f.service.GetEnrollment(ctx, 1, models.RoleStudent, enrollment.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Progress.TotalLessons)
		assert.False(t, resp.Progress.IsCourseComplete)
	})

	t.Run("another student is forbidden", func(t *testing.T) {
		f := newEnrollmentFixture(t)

		enrollment, err := f.service.Enroll(ctx, 1, f.course.ID)
		require.NoError(t, err)

		_, err = f.service.GetEnrollment(ctx, 2, models.RoleStudent, enrollment.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("admin may read any enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(t)

		enrollment, err := f.service.Enroll(ctx, 1, f.course.ID)
		require.NoError(t, err)

		_, err = f.service.GetEnrollment(ctx, 99, models.RoleAdmin, enrollment.ID)
		assert.NoError(t, err)
	})
}

func TestListMyEnrollments(t *testing.T) {
	ctx := context.Background()

	t.Run("returns only the caller's enrollments with courses", func(t *testing.T) {
		f := newEnrollmentFixture(t)
		other := &models.Course{Title: "SQL", Slug: "sql"}
		require.NoError(t, f.courseRepo.Create(ctx, other))

		_, err := f.service.Enroll(ctx, 1, f.course.ID)
		require.NoError(t, err)
		_, err = f.service.Enroll(ctx, 1, other.ID)
		require.NoError(t, err)
		_, err = f.service.Enroll(ctx, 2, f.course.ID)
		require.NoError(t, err)

		responses, err := f.service.ListMyEnrollments(ctx, 1, nil)
		require.NoError(t, err)
		require.Len(t, responses, 2)
		for _, resp := range responses {
			assert.Equal(t, int64(1), resp.Enrollment.StudentID)
			require.NotNil(t, resp.Enrollment.Course)
			assert.NotNil(t, resp.Progress)
		}
	})

	t.Run("filters by completion", func(t *testing.T) {
		f := newEnrollmentFixture(t)
		lesson := &models.Lesson{CourseID: f.course.ID, Title: "Only", Position: 1}
		require.NoError(t, f.lessonRepo.Create(ctx, lesson))

		done, err := f.service.Enroll(ctx, 1, f.course.ID)
		require.NoError(t, err)
		require.NoError(t, f.enrollmentRepo.MarkComplete(ctx, done.ID))

		other := &models.Course{Title: "SQL", Slug: "sql"}
		require.NoError(t, f.courseRepo.Create(ctx, other))
		_, err = f.service.Enroll(ctx, 1, other.ID)
		require.NoError(t, err)

		completed := true
		responses, err := f.service.ListMyEnrollments(ctx, 1, &completed)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, done.ID, responses[0].Enrollment.ID)

		completed = false
		responses, err = f.service.ListMyEnrollments(ctx, 1, &completed)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.NotEqual(t, done.ID, responses[0].Enrollment.ID)
	})
}

func TestUnenroll(t *testing.T) {
	ctx := context.Background()

	t.Run("owner removes the enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(t)

		enrollment, err := f.service.Enroll(ctx, 1, f.course.ID)
		require.NoError(t, err)

		require.NoError(t, f.service.Unenroll(ctx, 1, models.RoleStudent, enrollment.ID))

		_, err = f.enrollmentRepo.GetByID(ctx, enrollment.ID)
		assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
	})

	t.Run("another student is forbidden", func(t *testing.T) {
		f := newEnrollmentFixture(t)

		enrollment, err := f.service.Enroll(ctx, 1, f.course.ID)
		require.NoError(t, err)

		err = f.service.Unenroll(ctx, 2, models.RoleStudent, enrollment.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("admin may remove any enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(t)

		enrollment, err := f.service.Enroll(ctx, 1, f.course.ID)
		require.NoError(t, err)

		assert.NoError(t, f.service.Unenroll(ctx, 99, models.RoleAdmin, enrollment.ID))
	})

	t.Run("unknown enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(t)

		err := f.service.Unenroll(ctx, 1, models.RoleStudent, 999)
		assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
	})
}

// Enrolling twice in different courses is allowed; the unique pair is per course.
func TestEnrollMultipleCourses(t *testing.T) {
	ctx := context.Background()
	f := newEnrollmentFixture(t)

	other := &models.Course{Title: "Docker", Slug: "docker"}
	require.NoError(t, f.courseRepo.Create(ctx, other))

	_, err := f.service.Enroll(ctx, 1, f.course.ID)
	require.NoError(t, err)
	_, err = f.service.Enroll(ctx, 1, other.ID)
	require.NoError(t, err)

	responses, err := f.service.ListMyEnrollments(ctx, 1, nil)
	require.NoError(t, err)
	assert.Len(t, responses, 2)
}
