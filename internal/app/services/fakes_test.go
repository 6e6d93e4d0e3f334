package services

import (
	"context"
	"sort"
	"time"

	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/app/repositories"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
)

// In-memory repository fakes used by the service tests.

type memUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*models.User)}
}

func (r *memUserRepo) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *memUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memUserRepo) ListUsers(ctx context.Context, filter repositories.UserFilter) ([]*models.User, int64, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.Role != nil && u.RoleType != *filter.Role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	total := int64(len(out))
	if filter.Limit > 0 {
		if filter.Offset >= uint64(len(out)) {
			return nil, total, nil
		}
		out = out[filter.Offset:]
		if len(out) > filter.Limit {
			out = out[:filter.Limit]
		}
	}
	return out, total, nil
}

func (r *memUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (r *memUserRepo) UpdateProfileImage(ctx context.Context, userID int64, profileImage *string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.ProfileImage = profileImage
	return nil
}

func (r *memUserRepo) UpdateLastLogin(ctx context.Context, userID int64) error {
	user, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (r *memUserRepo) DeleteUser(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type memTokenRepo struct {
	tokens map[string]*models.RefreshToken
	nextID int64
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (r *memTokenRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	r.nextID++
	token.ID = r.nextID
	token.CreatedAt = time.Now()
	r.tokens[token.Token] = token
	return nil
}

func (r *memTokenRepo) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := r.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	return stored, nil
}

func (r *memTokenRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	stored, ok := r.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	stored.IsRevoked = true
	return nil
}

func (r *memTokenRepo) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	for _, t := range r.tokens {
		if t.UserID == userID {
			t.IsRevoked = true
		}
	}
	return nil
}

func (r *memTokenRepo) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	var removed int64
	for key, t := range r.tokens {
		if t.IsRevoked || time.Now().After(t.ExpiryDate) {
			delete(r.tokens, key)
			removed++
		}
	}
	return removed, nil
}

type memCategoryRepo struct {
	categories map[int64]*models.Category
	nextID     int64
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[int64]*models.Category)}
}

func (r *memCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	for _, c := range r.categories {
		if c.Name == category.Name || c.Slug == category.Slug {
			return apperrors.ErrCategoryAlreadyExists
		}
	}
	r.nextID++
	category.ID = r.nextID
	r.categories[category.ID] = category
	return nil
}

func (r *memCategoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	return category, nil
}

func (r *memCategoryRepo) GetAll(ctx context.Context) ([]*models.Category, error) {
	out := make([]*models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return apperrors.ErrCategoryNotFound
	}
	r.categories[category.ID] = category
	return nil
}

func (r *memCategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return apperrors.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

type memCourseRepo struct {
	courses map[int64]*models.Course
	nextID  int64
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{courses: make(map[int64]*models.Course)}
}

func (r *memCourseRepo) Create(ctx context.Context, course *models.Course) error {
	for _, c := range r.courses {
		if c.Slug == course.Slug {
			return apperrors.ErrSlugAlreadyExists
		}
	}
	r.nextID++
	course.ID = r.nextID
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	r.courses[course.ID] = course
	return nil
}

func (r *memCourseRepo) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

func (r *memCourseRepo) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	for _, c := range r.courses {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (r *memCourseRepo) List(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, int64, error) {
	out := make([]*models.Course, 0, len(r.courses))
	for _, c := range r.courses {
		if filter.CategoryID != nil && (c.CategoryID == nil || *c.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.InstructorID != nil && (c.InstructorID == nil || *c.InstructorID != *filter.InstructorID) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, c := range r.courses {
		if c.ID != course.ID && c.Slug == course.Slug {
			return apperrors.ErrSlugAlreadyExists
		}
	}
	r.courses[course.ID] = course
	return nil
}

func (r *memCourseRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *memCourseRepo) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	for _, c := range r.courses {
		if c.CategoryID != nil && *c.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

type memLessonRepo struct {
	lessons map[int64]*models.Lesson
	nextID  int64
}

func newMemLessonRepo() *memLessonRepo {
	return &memLessonRepo{lessons: make(map[int64]*models.Lesson)}
}

func (r *memLessonRepo) Create(ctx context.Context, lesson *models.Lesson) error {
	r.nextID++
	lesson.ID = r.nextID
	r.lessons[lesson.ID] = lesson
	return nil
}

func (r *memLessonRepo) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	lesson, ok := r.lessons[id]
	if !ok {
		return nil, apperrors.ErrLessonNotFound
	}
	return lesson, nil
}

func (r *memLessonRepo) ListByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error) {
	out := make([]*models.Lesson, 0)
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memLessonRepo) GetNextLesson(ctx context.Context, courseID int64, position int) (*models.Lesson, error) {
	lessons, _ := r.ListByCourse(ctx, courseID)
	for _, l := range lessons {
		if l.Position > position {
			return l, nil
		}
	}
	return nil, apperrors.ErrLessonNotFound
}

func (r *memLessonRepo) CountByCourse(ctx context.Context, courseID int64) (int, error) {
	count := 0
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (r *memLessonRepo) Update(ctx context.Context, lesson *models.Lesson) error {
	if _, ok := r.lessons[lesson.ID]; !ok {
		return apperrors.ErrLessonNotFound
	}
	r.lessons[lesson.ID] = lesson
	return nil
}

func (r *memLessonRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.lessons[id]; !ok {
		return apperrors.ErrLessonNotFound
	}
	delete(r.lessons, id)
	return nil
}

type memEnrollmentRepo struct {
	enrollments   map[int64]*models.Enrollment
	nextID        int64
	markCompleted int
}

func newMemEnrollmentRepo() *memEnrollmentRepo {
	return &memEnrollmentRepo{enrollments: make(map[int64]*models.Enrollment)}
}

func (r *memEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	for _, e := range r.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return apperrors.ErrAlreadyEnrolled
		}
	}
	r.nextID++
	enrollment.ID = r.nextID
	enrollment.EnrolledAt = time.Now()
	enrollment.LastAccessed = enrollment.EnrolledAt
	r.enrollments[enrollment.ID] = enrollment
	return nil
}

func (r *memEnrollmentRepo) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, ok := r.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (r *memEnrollmentRepo) ListByStudent(ctx context.Context, studentID int64, completed *bool) ([]*models.Enrollment, error) {
	out := make([]*models.Enrollment, 0)
	for _, e := range r.enrollments {
		if e.StudentID != studentID {
			continue
		}
		if completed != nil && *completed != (e.CompletedAt != nil) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memEnrollmentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.enrollments[id]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	delete(r.enrollments, id)
	return nil
}

func (r *memEnrollmentRepo) TouchAccess(ctx context.Context, id int64) error {
	enrollment, ok := r.enrollments[id]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	enrollment.LastAccessed = time.Now()
	return nil
}

func (r *memEnrollmentRepo) MarkComplete(ctx context.Context, id int64) error {
	enrollment, ok := r.enrollments[id]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	r.markCompleted++
	if enrollment.CompletedAt == nil {
		now := time.Now()
		enrollment.CompletedAt = &now
	}
	return nil
}

type memProgressRepo struct {
	rows   map[int64]*models.LessonProgress
	nextID int64
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{rows: make(map[int64]*models.LessonProgress)}
}

func (r *memProgressRepo) GetOrCreate(ctx context.Context, enrollmentID, lessonID int64) (*models.LessonProgress, bool, error) {
	for _, p := range r.rows {
		if p.EnrollmentID == enrollmentID && p.LessonID == lessonID {
			return p, false, nil
		}
	}
	r.nextID++
	now := time.Now()
	progress := &models.LessonProgress{
		ID:           r.nextID,
		EnrollmentID: enrollmentID,
		LessonID:     lessonID,
		StartedAt:    now,
		LastAccessed: now,
	}
	r.rows[progress.ID] = progress
	return progress, true, nil
}

func (r *memProgressRepo) GetByID(ctx context.Context, id int64) (*models.LessonProgress, error) {
	progress, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrProgressNotFound
	}
	return progress, nil
}

func (r *memProgressRepo) Complete(ctx context.Context, id int64) (*models.LessonProgress, error) {
	progress, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrProgressNotFound
	}
	if progress.CompletedAt == nil {
		now := time.Now()
		progress.CompletedAt = &now
	}
	progress.IsCompleted = true
	progress.LastAccessed = time.Now()
	return progress, nil
}

func (r *memProgressRepo) TouchAccess(ctx context.Context, id int64) error {
	progress, ok := r.rows[id]
	if !ok {
		return apperrors.ErrProgressNotFound
	}
	progress.LastAccessed = time.Now()
	return nil
}

func (r *memProgressRepo) UpdateWatchTime(ctx context.Context, id int64, watchTime int) error {
	progress, ok := r.rows[id]
	if !ok {
		return apperrors.ErrProgressNotFound
	}
	progress.WatchTime = watchTime
	return nil
}

func (r *memProgressRepo) CountCompleted(ctx context.Context, enrollmentID int64) (int, error) {
	count := 0
	for _, p := range r.rows {
		if p.EnrollmentID == enrollmentID && p.IsCompleted {
			count++
		}
	}
	return count, nil
}
