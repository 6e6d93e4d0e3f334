package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/ljcourses/backend/internal/app/models"
	appRepos "github.com/ljcourses/backend/internal/app/repositories"
	"github.com/ljcourses/backend/internal/config"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
	"github.com/ljcourses/backend/internal/pkg/auth"
)

func strPtr(s string) *string { return &s }

// CreateDefaultData creates starter categories and, when configured, the
// default admin account. Existing rows are left alone.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	categoryRepo := appRepos.NewCategoryRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/creating default data...")
	var finalErr error

	defaultCategories := []*appModels.Category{
		{Name: "Web Development", Slug: "web-development", Icon: strPtr("code"), Color: strPtr("#3498db")},
		{Name: "Data Science", Slug: "data-science", Icon: strPtr("bar-chart"), Color: strPtr("#9b59b6")},
		{Name: "Design", Slug: "design", Icon: strPtr("pen-tool"), Color: strPtr("#e67e22")},
		{Name: "Business", Slug: "business", Icon: strPtr("briefcase"), Color: strPtr("#2ecc71")},
	}
	for _, category := range defaultCategories {
		err := categoryRepo.Create(ctx, category)
		if err != nil && !errors.Is(err, apperrors.ErrCategoryAlreadyExists) {
			lgr.Error().Err(err).Str("name", category.Name).Msg("Error creating default category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// Admin seeding is opt-in: a password must be configured
	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		return finalErr
	}

	exists, err := userRepo.EmailExists(ctx, cfg.Seed.AdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return errors.Join(finalErr, err)
	}
	if exists {
		return finalErr
	}

	lgr.Info().Str("email", cfg.Seed.AdminEmail).Msg("Creating default admin user...")

	hashedPassword, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}

	admin := &appModels.User{
		Email:    cfg.Seed.AdminEmail,
		Password: hashedPassword,
		FullName: "Administrator",
		RoleType: appModels.RoleAdmin,
		IsActive: true,
	}
	if _, err := userRepo.CreateUser(ctx, admin); err != nil &&
		!errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating admin user")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}
