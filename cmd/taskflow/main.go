package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/vanshdigitals/edutrack/internal/config"
	"github.com/vanshdigitals/edutrack/internal/db"
	"github.com/vanshdigitals/edutrack/internal/realtime"
	"github.com/vanshdigitals/edutrack/internal/taskflow"
	"github.com/vanshdigitals/edutrack/internal/tasks"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

func main() {
	logger := logger.New("taskflow")

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

	database, err := db.Connect(cfg, taskflow.Migrate)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Warn("Failed to close database connection: %v", err)
		}
	}()

	bridgeCtx, bridgeCancel := context.WithCancel(context.Background())
	defer bridgeCancel()

	// The queue, the scheduler and the realtime bridge all need Redis; with
	// no Redis configured the API still runs, delivering notifications
	// synchronously and broadcasting to this instance only.
	var taskClient *tasks.Client
	var taskServer *tasks.Server
	var taskScheduler *tasks.Scheduler
	if cfg.Redis.Addr != "" {
		taskClient = tasks.NewClient(cfg)
		defer taskClient.Close()

		taskServer = tasks.NewServer(cfg, tasks.NewTaskHandler(database))
		if err := taskServer.Start(); err != nil {
			log.Fatalf("Failed to start task server: %v", err)
		}

		taskScheduler = tasks.NewScheduler(cfg)
		go func() {
			if err := taskScheduler.Start(); err != nil {
				_ = logger.Error("Task scheduler error", err)
			}
		}()
	} else {
		logger.Info("Redis not configured, queue and realtime bridge disabled")
	}

	notifier := tasks.NewNotifier(taskClient, database)
	server := taskflow.NewServer(cfg, database, notifier)

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		bridge := realtime.NewBridge(rdb, server.Hub())
		bridge.Start(bridgeCtx)
	}

	go func() {
		logger.Success("TaskFlow API server started")
		if err := server.Start(); err != nil {
			_ = logger.Error("API server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if taskScheduler != nil {
		taskScheduler.Stop()
	}
	if taskServer != nil {
		taskServer.Shutdown()
	}
	bridgeCancel()

	if err := server.Shutdown(ctx); err != nil {
		_ = logger.Error("Failed to shutdown API server", err)
	}

	logger.Info("Servers shutdown gracefully")
}
