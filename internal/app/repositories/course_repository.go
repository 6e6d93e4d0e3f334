package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
	"github.com/ljcourses/backend/internal/pkg/dberrors"
	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// ICourseRepository defines course persistence operations
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]*models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
}

// CourseFilter collects conjunctive filters for listing courses
type CourseFilter struct {
	CategoryID   *int64
	InstructorID *int64
	Difficulty   *string
	Search       *string
	Offset       uint64
	Limit        int
}

// CourseRepository handles course persistence
type CourseRepository struct {
	db     *pgxpool.Pool
	sb     sq.StatementBuilderType
	logger zerolog.Logger
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: logger.WithField("repository", "course"),
	}
}

var courseColumns = []string{
	"c.id", "c.title", "c.slug", "c.small_description", "c.description", "c.thumbnail",
	"c.duration_hours", "c.difficulty_level", "c.rating", "c.total_ratings",
	"c.is_published", "c.is_featured", "c.instructor_id", "c.category_id",
	"c.created_at", "c.updated_at", "c.published_at",
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	var difficulty *string
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Slug,
		&c.SmallDescription,
		&c.Description,
		&c.Thumbnail,
		&c.DurationHours,
		&difficulty,
		&c.Rating,
		&c.TotalRatings,
		&c.IsPublished,
		&c.IsFeatured,
		&c.InstructorID,
		&c.CategoryID,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	if difficulty != nil {
		level := models.DifficultyLevel(*difficulty)
		c.DifficultyLevel = &level
	}
	return &c, nil
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, slug, small_description, description, thumbnail,
			duration_hours, difficulty_level, is_published, is_featured,
			instructor_id, category_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, rating, total_ratings, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		course.Title,
		course.Slug,
		course.SmallDescription,
		course.Description,
		course.Thumbnail,
		course.DurationHours,
		course.DifficultyLevel,
		course.IsPublished,
		course.IsFeatured,
		course.InstructorID,
		course.CategoryID,
		course.PublishedAt,
	).Scan(&course.ID, &course.Rating, &course.TotalRatings, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_slug_key") {
			return apperrors.ErrSlugAlreadyExists
		}
		r.logger.Error().Err(err).Str("slug", course.Slug).Msg("Failed to create course")
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// GetByID fetches a course with its instructor, category and lessons
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getOne(ctx, sq.Eq{"c.id": id})
}

// GetBySlug fetches a course with its instructor, category and lessons
func (r *CourseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	return r.getOne(ctx, sq.Eq{"c.slug": slug})
}

func (r *CourseRepository) getOne(ctx context.Context, where sq.Eq) (*models.Course, error) {
	query, args, err := r.sb.
		Select(courseColumns...).
		From("courses c").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := r.loadRelations(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// loadRelations populates the instructor, category and ordered lessons of a course
func (r *CourseRepository) loadRelations(ctx context.Context, course *models.Course) error {
	if course.InstructorID != nil {
		query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
		instructor, err := scanUser(r.db.QueryRow(ctx, query, *course.InstructorID))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to load course instructor: %w", err)
		}
		if instructor != nil {
			instructor.Password = ""
			course.Instructor = instructor
		}
	}

	if course.CategoryID != nil {
		query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, categoryColumns)
		category, err := scanCategory(r.db.QueryRow(ctx, query, *course.CategoryID))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to load course category: %w", err)
		}
		course.Category = category
	}

	lessons, err := listLessonsByCourse(ctx, r.db, course.ID)
	if err != nil {
		return err
	}
	course.Lessons = lessons
	return nil
}

// List returns a filtered, paginated page of courses and the total match count.
// Ordering is deterministic: newest first, ties broken by id.
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter) ([]*models.Course, int64, error) {
	columns := append(append([]string{}, courseColumns...), "COUNT(*) OVER() AS total_count")

	builder := r.sb.
		Select(columns...).
		From("courses c").
		LeftJoin("users u ON u.id = c.instructor_id")

	if filter.CategoryID != nil {
		builder = builder.Where(sq.Eq{"c.category_id": *filter.CategoryID})
	}
	if filter.InstructorID != nil {
		builder = builder.Where(sq.Eq{"c.instructor_id": *filter.InstructorID})
	}
	if filter.Difficulty != nil {
		builder = builder.Where(sq.Eq{"c.difficulty_level": *filter.Difficulty})
	}
	if filter.Search != nil && *filter.Search != "" {
		term := "%" + *filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"c.title": term},
			sq.ILike{"c.description": term},
			sq.ILike{"c.small_description": term},
			sq.ILike{"u.full_name": term},
		})
	}

	builder = builder.OrderBy("c.created_at DESC", "c.id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build course list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	var total int64
	for rows.Next() {
		var c models.Course
		var difficulty *string
		err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Slug,
			&c.SmallDescription,
			&c.Description,
			&c.Thumbnail,
			&c.DurationHours,
			&difficulty,
			&c.Rating,
			&c.TotalRatings,
			&c.IsPublished,
			&c.IsFeatured,
			&c.InstructorID,
			&c.CategoryID,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.PublishedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan course: %w", err)
		}
		if difficulty != nil {
			level := models.DifficultyLevel(*difficulty)
			c.DifficultyLevel = &level
		}
		courses = append(courses, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate courses: %w", err)
	}

	return courses, total, nil
}

// Update writes all mutable course fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = $1, slug = $2, small_description = $3, description = $4,
			thumbnail = $5, duration_hours = $6, difficulty_level = $7,
			is_published = $8, is_featured = $9, category_id = $10,
			published_at = $11, updated_at = $12
		WHERE id = $13`

	tag, err := r.db.Exec(ctx, query,
		course.Title,
		course.Slug,
		course.SmallDescription,
		course.Description,
		course.Thumbnail,
		course.DurationHours,
		course.DifficultyLevel,
		course.IsPublished,
		course.IsFeatured,
		course.CategoryID,
		course.PublishedAt,
		time.Now(),
		course.ID,
	)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_slug_key") {
			return apperrors.ErrSlugAlreadyExists
		}
		return fmt.Errorf("failed to update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course. Lessons and enrollments cascade.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// CountByCategory returns the number of courses referencing a category
func (r *CourseRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM courses WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count courses by category: %w", err)
	}
	return count, nil
}
