package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
	"github.com/ljcourses/backend/internal/pkg/dberrors"
	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// ICategoryRepository defines category persistence operations
type ICategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetAll(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository handles category persistence
type CategoryRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger.WithField("repository", "category"),
	}
}

const categoryColumns = `id, name, slug, description, icon, color, created_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.Icon,
		&c.Color,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, description, icon, color)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		category.Name,
		category.Slug,
		category.Description,
		category.Icon,
		category.Color,
	).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "categories_name_key") ||
			dberrors.IsDuplicateConstraintError(err, "categories_slug_key") {
			return apperrors.ErrCategoryAlreadyExists
		}
		r.logger.Error().Err(err).Str("name", category.Name).Msg("Failed to create category")
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID fetches a category by primary key
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, categoryColumns)

	category, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// GetAll returns all categories ordered by name
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*models.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories ORDER BY name ASC`, categoryColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// Update writes all mutable category fields
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, slug = $2, description = $3, icon = $4, color = $5
		WHERE id = $6`

	tag, err := r.db.Exec(ctx, query,
		category.Name,
		category.Slug,
		category.Description,
		category.Icon,
		category.Color,
		category.ID,
	)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "categories_name_key") ||
			dberrors.IsDuplicateConstraintError(err, "categories_slug_key") {
			return apperrors.ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category. Deletion is blocked by the courses FK while
// any course still references the category.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCategoryHasCourses
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
