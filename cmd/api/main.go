package main

import (
	"os"

	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/ljcourses/backend/internal/server"
)

// @title LJCourses API
// @version 1.0
// @description Course platform backend with users, courses, lessons and enrollment progress tracking.

// @contact.name LJCourses Team
// @contact.email support@ljcourses.dev

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
