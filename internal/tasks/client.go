package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/vanshdigitals/edutrack/internal/config"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

// Client enqueues background tasks.
type Client struct {
	client *asynq.Client
	log    *logger.Logger
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		client: asynq.NewClient(redisOpt(cfg)),
		log:    logger.New("TASKS"),
	}
}

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueNotification queues a notification for delivery.
func (c *Client) EnqueueNotification(payload NotificationPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling notification payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeNotificationDeliver, raw,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutShort),
	)
	info, err := c.client.Enqueue(task)
	if err != nil {
		return fmt.Errorf("enqueuing notification: %w", err)
	}

	c.log.Info("enqueued %s id=%s queue=%s", TaskTypeNotificationDeliver, info.ID, info.Queue)
	return nil
}
