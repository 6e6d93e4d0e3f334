package repositories

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories bundles every repository for dependency injection
type Repositories struct {
	User       *UserRepository
	Token      *TokenRepository
	Category   *CategoryRepository
	Course     *CourseRepository
	Lesson     *LessonRepository
	Enrollment *EnrollmentRepository
	Progress   *ProgressRepository
}

// NewRepositories wires all repositories on a shared pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Token:      NewTokenRepository(db),
		Category:   NewCategoryRepository(db),
		Course:     NewCourseRepository(db),
		Lesson:     NewLessonRepository(db),
		Enrollment: NewEnrollmentRepository(db),
		Progress:   NewProgressRepository(db),
	}
}
