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
	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// ITokenRepository defines refresh token persistence operations
type ITokenRepository interface {
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// TokenRepository handles refresh token persistence
type TokenRepository struct {
	db     *pgxpool.Pool
	sb     sq.StatementBuilderType
	logger zerolog.Logger
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: logger.WithField("repository", "token"),
	}
}

// CreateRefreshToken persists a new refresh token
func (r *TokenRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	query, args, err := r.sb.
		Insert("refresh_tokens").
		Columns("user_id", "token", "expiry_date", "is_revoked").
		Values(token.UserID, token.Token, token.ExpiryDate, token.IsRevoked).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&token.ID, &token.CreatedAt); err != nil {
		r.logger.Error().Err(err).Int64("userId", token.UserID).Msg("Failed to create refresh token")
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken fetches a refresh token by its value
func (r *TokenRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query, args, err := r.sb.
		Select("id", "user_id", "token", "expiry_date", "is_revoked", "created_at").
		From("refresh_tokens").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var rt models.RefreshToken
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&rt.ID,
		&rt.UserID,
		&rt.Token,
		&rt.ExpiryDate,
		&rt.IsRevoked,
		&rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return &rt, nil
}

// RevokeRefreshToken marks a single token as revoked
func (r *TokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	query, args, err := r.sb.
		Update("refresh_tokens").
		Set("is_revoked", true).
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// RevokeAllUserTokens marks every token of a user as revoked
func (r *TokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	query, args, err := r.sb.
		Update("refresh_tokens").
		Set("is_revoked", true).
		Where(sq.Eq{"user_id": userID, "is_revoked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// CleanupExpiredTokens deletes expired and revoked tokens, returning the
// number of rows removed. Invoked by the scheduled cleanup job.
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	query, args, err := r.sb.
		Delete("refresh_tokens").
		Where(sq.Or{
			sq.Lt{"expiry_date": time.Now()},
			sq.Eq{"is_revoked": true},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired tokens: %w", err)
	}

	removed := tag.RowsAffected()
	if removed > 0 {
		r.logger.Info().Int64("removed", removed).Msg("Expired refresh tokens cleaned up")
	}
	return removed, nil
}
