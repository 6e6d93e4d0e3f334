package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// ILessonRepository defines lesson persistence operations
type ILessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error)
	GetNextLesson(ctx context.Context, courseID int64, position int) (*models.Lesson, error)
	CountByCourse(ctx context.Context, courseID int64) (int, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id int64) error
}

// LessonRepository handles lesson persistence
type LessonRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewLessonRepository creates a new LessonRepository
func NewLessonRepository(db *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{
		db:     db,
		logger: logger.WithField("repository", "lesson"),
	}
}

const lessonColumns = `id, course_id, title, description, content, video_url, video_duration,
	resources_url, sort_order, is_free, is_published, created_at, updated_at`

func scanLesson(row pgx.Row) (*models.Lesson, error) {
	var l models.Lesson
	err := row.Scan(
		&l.ID,
		&l.CourseID,
		&l.Title,
		&l.Description,
		&l.Content,
		&l.VideoURL,
		&l.VideoDuration,
		&l.ResourcesURL,
		&l.Position,
		&l.IsFree,
		&l.IsPublished,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// listLessonsByCourse is shared with the course repository for eager loading.
// Lessons are always returned in position order, ties broken by id.
func listLessonsByCourse(ctx context.Context, db *pgxpool.Pool, courseID int64) ([]*models.Lesson, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM lessons WHERE course_id = $1 ORDER BY sort_order ASC, id ASC`, lessonColumns)

	rows, err := db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*models.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lessons: %w", err)
	}
	return lessons, nil
}

// Create inserts a new lesson
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	query := `
		INSERT INTO lessons (course_id, title, description, content, video_url,
			video_duration, resources_url, sort_order, is_free, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		lesson.CourseID,
		lesson.Title,
		lesson.Description,
		lesson.Content,
		lesson.VideoURL,
		lesson.VideoDuration,
		lesson.ResourcesURL,
		lesson.Position,
		lesson.IsFree,
		lesson.IsPublished,
	).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("courseId", lesson.CourseID).Msg("Failed to create lesson")
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	return nil
}

// GetByID fetches a lesson by primary key
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons WHERE id = $1`, lessonColumns)

	lesson, err := scanLesson(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return lesson, nil
}

// ListByCourse returns a course's lessons in position order
func (r *LessonRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error) {
	return listLessonsByCourse(ctx, r.db, courseID)
}

// GetNextLesson returns the lesson with the smallest position strictly greater
// than the given one, or ErrLessonNotFound when the course has no further lesson.
func (r *LessonRepository) GetNextLesson(ctx context.Context, courseID int64, position int) (*models.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM lessons
		WHERE course_id = $1 AND sort_order > $2
		ORDER BY sort_order ASC, id ASC
		LIMIT 1`, lessonColumns)

	lesson, err := scanLesson(r.db.QueryRow(ctx, query, courseID, position))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get next lesson: %w", err)
	}
	return lesson, nil
}

// CountByCourse returns the number of lessons in a course
func (r *LessonRepository) CountByCourse(ctx context.Context, courseID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM lessons WHERE course_id = $1`, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return count, nil
}

// Update writes all mutable lesson fields
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	query := `
		UPDATE lessons
		SET title = $1, description = $2, content = $3, video_url = $4,
			video_duration = $5, resources_url = $6, sort_order = $7,
			is_free = $8, is_published = $9, updated_at = $10
		WHERE id = $11`

	tag, err := r.db.Exec(ctx, query,
		lesson.Title,
		lesson.Description,
		lesson.Content,
		lesson.VideoURL,
		lesson.VideoDuration,
		lesson.ResourcesURL,
		lesson.Position,
		lesson.IsFree,
		lesson.IsPublished,
		time.Now(),
		lesson.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}
	return nil
}

// Delete removes a lesson. Progress rows cascade.
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}
	return nil
}
