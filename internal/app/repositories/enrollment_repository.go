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

// IEnrollmentRepository defines enrollment persistence operations
type IEnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID int64, completed *bool) ([]*models.Enrollment, error)
	Delete(ctx context.Context, id int64) error
	TouchAccess(ctx context.Context, id int64) error
	MarkComplete(ctx context.Context, id int64) error
}

// EnrollmentRepository handles enrollment persistence
type EnrollmentRepository struct {
	db     *pgxpool.Pool
	sb     sq.StatementBuilderType
	logger zerolog.Logger
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: logger.WithField("repository", "enrollment"),
	}
}

const enrollmentColumns = `id, student_id, course_id, enrolled_at, completed_at, last_accessed`

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(
		&e.ID,
		&e.StudentID,
		&e.CourseID,
		&e.EnrolledAt,
		&e.CompletedAt,
		&e.LastAccessed,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an enrollment. The unique constraint on
// (student_id, course_id) is the authoritative duplicate guard.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, course_id)
		VALUES ($1, $2)
		RETURNING id, enrolled_at, last_accessed`

	err := r.db.QueryRow(ctx, query,
		enrollment.StudentID,
		enrollment.CourseID,
	).Scan(&enrollment.ID, &enrollment.EnrolledAt, &enrollment.LastAccessed)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollments_student_id_course_id_key") {
			return apperrors.ErrAlreadyEnrolled
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		r.logger.Error().Err(err).
			Int64("studentId", enrollment.StudentID).
			Int64("courseId", enrollment.CourseID).
			Msg("Failed to create enrollment")
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

// GetByID fetches an enrollment by primary key
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE id = $1`, enrollmentColumns)

	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return enrollment, nil
}

// ListByStudent returns a student's enrollments, newest first.
// completed filters on whether the enrollment has been completed.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64, completed *bool) ([]*models.Enrollment, error) {
	builder := r.sb.
		Select("id", "student_id", "course_id", "enrolled_at", "completed_at", "last_accessed").
		From("enrollments").
		Where(sq.Eq{"student_id": studentID}).
		OrderBy("enrolled_at DESC", "id DESC")

	if completed != nil {
		if *completed {
			builder = builder.Where("completed_at IS NOT NULL")
		} else {
			builder = builder.Where("completed_at IS NULL")
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build enrollment list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate enrollments: %w", err)
	}
	return enrollments, nil
}

// Delete removes an enrollment. Progress rows cascade.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

// TouchAccess stamps last_accessed with the current time
func (r *EnrollmentRepository) TouchAccess(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE enrollments SET last_accessed = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to touch enrollment access: %w", err)
	}
	return nil
}

// MarkComplete sets completed_at exactly once. Safe to call repeatedly and
// under concurrent last-lesson completion.
func (r *EnrollmentRepository) MarkComplete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE enrollments SET completed_at = COALESCE(completed_at, now()) WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark enrollment complete: %w", err)
	}
	return nil
}
