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

// IProgressRepository defines lesson progress persistence operations
type IProgressRepository interface {
	GetOrCreate(ctx context.Context, enrollmentID, lessonID int64) (*models.LessonProgress, bool, error)
	GetByID(ctx context.Context, id int64) (*models.LessonProgress, error)
	Complete(ctx context.Context, id int64) (*models.LessonProgress, error)
	TouchAccess(ctx context.Context, id int64) error
	UpdateWatchTime(ctx context.Context, id int64, watchTime int) error
	CountCompleted(ctx context.Context, enrollmentID int64) (int, error)
}

// ProgressRepository handles lesson progress persistence
type ProgressRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{
		db:     db,
		logger: logger.WithField("repository", "progress"),
	}
}

const progressColumns = `id, enrollment_id, lesson_id, is_completed, watch_time,
	started_at, completed_at, last_accessed`

func scanProgress(row pgx.Row) (*models.LessonProgress, error) {
	var p models.LessonProgress
	err := row.Scan(
		&p.ID,
		&p.EnrollmentID,
		&p.LessonID,
		&p.IsCompleted,
		&p.WatchTime,
		&p.StartedAt,
		&p.CompletedAt,
		&p.LastAccessed,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreate inserts a progress row for (enrollment, lesson), or returns the
// existing row unchanged when one is already present. The unique constraint
// makes this safe under concurrent starts; the bool reports whether a new row
// was created.
func (r *ProgressRepository) GetOrCreate(ctx context.Context, enrollmentID, lessonID int64) (*models.LessonProgress, bool, error) {
	insertQuery := fmt.Sprintf(`
		INSERT INTO lesson_progress (enrollment_id, lesson_id)
		VALUES ($1, $2)
		ON CONFLICT (enrollment_id, lesson_id) DO NOTHING
		RETURNING %s`, progressColumns)

	progress, err := scanProgress(r.db.QueryRow(ctx, insertQuery, enrollmentID, lessonID))
	if err == nil {
		return progress, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error().Err(err).
			Int64("enrollmentId", enrollmentID).
			Int64("lessonId", lessonID).
			Msg("Failed to create lesson progress")
		return nil, false, fmt.Errorf("failed to create lesson progress: %w", err)
	}

	// Conflict: the row already exists, fetch it
	selectQuery := fmt.Sprintf(`
		SELECT %s FROM lesson_progress
		WHERE enrollment_id = $1 AND lesson_id = $2`, progressColumns)

	progress, err = scanProgress(r.db.QueryRow(ctx, selectQuery, enrollmentID, lessonID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, apperrors.ErrProgressNotFound
		}
		return nil, false, fmt.Errorf("failed to get lesson progress: %w", err)
	}
	return progress, false, nil
}

// GetByID fetches a progress row by primary key
func (r *ProgressRepository) GetByID(ctx context.Context, id int64) (*models.LessonProgress, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_progress WHERE id = $1`, progressColumns)

	progress, err := scanProgress(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get lesson progress: %w", err)
	}
	return progress, nil
}

// Complete marks a progress row completed. completed_at is set exactly once;
// re-completing only refreshes last_accessed.
func (r *ProgressRepository) Complete(ctx context.Context, id int64) (*models.LessonProgress, error) {
	query := fmt.Sprintf(`
		UPDATE lesson_progress
		SET is_completed = TRUE,
			completed_at = COALESCE(completed_at, now()),
			last_accessed = now()
		WHERE id = $1
		RETURNING %s`, progressColumns)

	progress, err := scanProgress(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to complete lesson progress: %w", err)
	}
	return progress, nil
}

// TouchAccess stamps last_accessed with the current time
func (r *ProgressRepository) TouchAccess(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE lesson_progress SET last_accessed = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to touch lesson progress: %w", err)
	}
	return nil
}

// UpdateWatchTime records accumulated watch time and refreshes last_accessed
func (r *ProgressRepository) UpdateWatchTime(ctx context.Context, id int64, watchTime int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE lesson_progress SET watch_time = $1, last_accessed = $2 WHERE id = $3`,
		watchTime, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update watch time: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProgressNotFound
	}
	return nil
}

// CountCompleted returns the number of completed lessons for an enrollment
func (r *ProgressRepository) CountCompleted(ctx context.Context, enrollmentID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM lesson_progress WHERE enrollment_id = $1 AND is_completed = TRUE`,
		enrollmentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}
	return count, nil
}
