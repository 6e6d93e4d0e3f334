package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ljcourses/backend/internal/app/controllers"
	"github.com/ljcourses/backend/internal/app/migrations"
	"github.com/ljcourses/backend/internal/app/repositories"
	"github.com/ljcourses/backend/internal/app/routes"
	"github.com/ljcourses/backend/internal/app/services"
	"github.com/ljcourses/backend/internal/config"
	"github.com/ljcourses/backend/internal/db"
	"github.com/ljcourses/backend/internal/middleware"
	"github.com/ljcourses/backend/internal/pkg/auth"
	"github.com/ljcourses/backend/internal/pkg/filestorage"
	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/ljcourses/backend/internal/seed"
)

// Dependencies holds everything the router and background jobs need
type Dependencies struct {
	Controllers    *routes.Controllers
	AuthMiddleware *middleware.AuthMiddleware
	TokenRepo      repositories.ITokenRepository
}

// LoadConfigAndSetupLogger loads configuration and configures the global logger
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		return nil, zerolog.Logger{}, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
	})

	lgr := logger.WithField("app", "ljcourses")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL, applies migrations and seeds
// default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	migrator := migrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory("migrations"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), database.Pool, cfg, lgr); err != nil {
		lgr.Warn().Err(err).Msg("Seeding default data reported errors")
	}

	return database.Pool, nil
}

// BuildDependencies wires repositories, services and controllers
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	repos := repositories.NewRepositories(dbPool)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.SecretKey,
		AccessTokenExp:  cfg.JWT.AccessTokenExp,
		RefreshTokenExp: cfg.JWT.RefreshTokenExp,
		TokenIssuer:     cfg.JWT.TokenIssuer,
	})

	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to setup file storage: %w", err)
	}

	authService := services.NewAuthService(repos.User, repos.Token, jwtService)
	userService := services.NewUserService(repos.User, storage)
	categoryService := services.NewCategoryService(repos.Category, repos.Course)
	courseService := services.NewCourseService(repos.Course, repos.Category)
	lessonService := services.NewLessonService(repos.Lesson, repos.Course)
	enrollmentService := services.NewEnrollmentService(repos.Enrollment, repos.Course, repos.Lesson, repos.Progress)
	progressService := services.NewProgressService(repos.Progress, repos.Enrollment, repos.Lesson)

	return &Dependencies{
		Controllers: &routes.Controllers{
			Auth:       controllers.NewAuthController(authService),
			User:       controllers.NewUserController(userService),
			Category:   controllers.NewCategoryController(categoryService),
			Course:     controllers.NewCourseController(courseService),
			Lesson:     controllers.NewLessonController(lessonService),
			Enrollment: controllers.NewEnrollmentController(enrollmentService),
			Progress:   controllers.NewProgressController(progressService),
		},
		AuthMiddleware: middleware.NewAuthMiddleware(jwtService),
		TokenRepo:      repos.Token,
	}, nil
}

// SetupRouter builds the gin engine with all routes registered
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.Logging.Level != string(logger.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	routes.SetupRoutes(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

// StartTokenCleanup schedules the daily expired refresh token purge.
// The returned cron must be stopped on shutdown.
func StartTokenCleanup(tokenRepo repositories.ITokenRepository, lgr zerolog.Logger) *cron.Cron {
	c := cron.New()

	// Daily at 03:00
	_, err := c.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		removed, err := tokenRepo.CleanupExpiredTokens(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Refresh token cleanup failed")
			return
		}
		lgr.Info().Int64("removed", removed).Msg("Refresh token cleanup finished")
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to schedule token cleanup job")
		return c
	}

	c.Start()
	return c
}
