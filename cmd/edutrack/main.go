package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vanshdigitals/edutrack/internal/config"
	"github.com/vanshdigitals/edutrack/internal/db"
	"github.com/vanshdigitals/edutrack/internal/edutrack"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

func main() {
	logger := logger.New("edutrack")

	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		logger.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := db.Connect(cfg, edutrack.Migrate)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Warn("Failed to close database connection: %v", err)
		}
	}()

	server := edutrack.NewServer(cfg, database)
	go func() {
		logger.Success("EduTrack API server started")
		if err := server.Start(); err != nil {
			_ = logger.Error("API server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		_ = logger.Error("Failed to shutdown API server", err)
	}

	logger.Info("Server shutdown gracefully")
}
