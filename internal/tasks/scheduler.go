package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"

	"github.com/vanshdigitals/edutrack/internal/config"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

// Scheduler enqueues periodic tasks.
type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       *config.Config
	log       *logger.Logger
}

func NewScheduler(cfg *config.Config) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(redisOpt(cfg), &asynq.SchedulerOpts{}),
		cfg:       cfg,
		log:       logger.New("task_scheduler"),
	}
}

// Start registers the periodic tasks and runs the scheduler until Stop.
func (s *Scheduler) Start() error {
	if err := s.registerTasks(); err != nil {
		return fmt.Errorf("registering periodic tasks: %w", err)
	}

	s.log.Info("starting task scheduler")
	return s.scheduler.Run()
}

func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	s.log.Info("task scheduler stopped")
}

func (s *Scheduler) registerTasks() error {
	spec := s.cfg.Notifications.PurgeSpec

	// Validate the spec up front so a bad env value fails at startup, not at
	// the first scheduled run.
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid purge cron spec %q: %w", spec, err)
	}

	payload, err := json.Marshal(PurgePayload{RetentionDays: s.cfg.Notifications.RetentionDays})
	if err != nil {
		return fmt.Errorf("marshaling purge payload: %w", err)
	}

	entryID, err := s.scheduler.Register(spec,
		asynq.NewTask(TaskTypeNotificationPurge, payload,
			asynq.Queue(QueueLow),
			asynq.MaxRetry(RetryMin),
			asynq.Timeout(TimeoutMedium),
		),
	)
	if err != nil {
		return fmt.Errorf("registering purge task: %w", err)
	}

	s.log.Info("registered %s spec=%q entry=%s", TaskTypeNotificationPurge, spec, entryID)
	return nil
}
