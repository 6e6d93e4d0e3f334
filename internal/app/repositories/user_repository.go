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
	"github.com/ljcourses/backend/internal/db"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
	"github.com/ljcourses/backend/internal/pkg/dberrors"
	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// IUserRepository defines the user persistence operations used by services
type IUserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]*models.User, int64, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error
	UpdateProfileImage(ctx context.Context, userID int64, profileImage *string) error
	UpdateLastLogin(ctx context.Context, userID int64) error
	DeleteUser(ctx context.Context, id int64) error
}

// UserFilter collects the optional filters for listing users
type UserFilter struct {
	Role   *models.RoleType
	Offset uint64
	Limit  int
}

// UserRepository handles user persistence
type UserRepository struct {
	db       *pgxpool.Pool
	database *db.PostgresDB
	sb       sq.StatementBuilderType
	logger   zerolog.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db:       pool,
		database: &db.PostgresDB{Pool: pool},
		sb:       sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:   logger.WithField("repository", "user"),
	}
}

const userColumns = `id, email, password, full_name, role_type, bio, major, profile_image,
	is_active, created_at, updated_at, last_login_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FullName,
		&user.RoleType,
		&user.Bio,
		&user.Major,
		&user.ProfileImage,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user and returns its ID
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (email, password, full_name, role_type, bio, major, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.Password,
		user.FullName,
		user.RoleType,
		user.Bio,
		user.Major,
		user.IsActive,
	).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		r.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to create user")
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = id
	return id, nil
}

// GetUserByID fetches a user by primary key
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetUserByEmail fetches a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// EmailExists checks whether an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// ListUsers returns users matching the filter plus the total match count
func (r *UserRepository) ListUsers(ctx context.Context, filter UserFilter) ([]*models.User, int64, error) {
	columns := []string{
		"id", "email", "password", "full_name", "role_type", "bio", "major", "profile_image",
		"is_active", "created_at", "updated_at", "last_login_at",
		"COUNT(*) OVER() AS total_count",
	}

	builder := r.sb.Select(columns...).From("users")
	if filter.Role != nil {
		builder = builder.Where(sq.Eq{"role_type": *filter.Role})
	}
	builder = builder.OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build user list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	var total int64
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Password,
			&user.FullName,
			&user.RoleType,
			&user.Bio,
			&user.Major,
			&user.ProfileImage,
			&user.IsActive,
			&user.CreatedAt,
			&user.UpdatedAt,
			&user.LastLoginAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read user rows: %w", err)
	}
	return users, total, nil
}

// UpdateProfile updates the mutable profile fields of a user
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET full_name = $1, bio = $2, major = $3, updated_at = $4
		WHERE id = $5`

	tag, err := r.db.Exec(ctx, query, user.FullName, user.Bio, user.Major, time.Now(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password = $1, updated_at = $2 WHERE id = $3`,
		hashedPassword, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateProfileImage sets or clears the stored profile image path
func (r *UserRepository) UpdateProfileImage(ctx context.Context, userID int64, profileImage *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET profile_image = $1, updated_at = $2 WHERE id = $3`,
		profileImage, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin stamps the last successful login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// DeleteUser revokes the user's refresh tokens and removes the user row.
// Enrollments and progress rows go with it via FK cascades.
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `UPDATE refresh_tokens SET is_revoked = TRUE WHERE user_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			r.logger.Error().Err(err).Int64("userId", id).Msg("Failed to delete user")
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
}
