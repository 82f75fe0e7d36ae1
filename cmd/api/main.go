package main

import (
	"context"
	"os"

	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/server"
)

// @title CourseHub API
// @version 1.0
// @description Course management: instructors publish courses with videos and assignments, students enroll.

// @host localhost:7700
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token issued by /auth/login

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Details are logged within the setup functions.
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal.
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
