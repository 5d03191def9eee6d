package tasks

import (
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/vanshdigitals/edutrack/internal/config"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

// Server processes queued tasks.
type Server struct {
	server  *asynq.Server
	handler *TaskHandler
	log     *logger.Logger
}

func NewServer(cfg *config.Config, handler *TaskHandler) *Server {
	server := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			StrictPriority: true,
		},
	)

	return &Server{
		server:  server,
		handler: handler,
		log:     logger.New("task_server"),
	}
}

// Start registers the handlers and begins processing.
func (s *Server) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeNotificationDeliver, s.handler.HandleNotificationDeliver)
	mux.HandleFunc(TaskTypeNotificationPurge, s.handler.HandleNotificationPurge)

	s.log.Info("starting task processing server")
	if err := s.server.Start(mux); err != nil {
		return fmt.Errorf("starting task server: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight tasks and stops the server.
func (s *Server) Shutdown() {
	s.log.Info("shutting down task processing server")
	s.server.Shutdown()
}
