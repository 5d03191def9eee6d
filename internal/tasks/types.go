package tasks

import "time"

// Task types
const (
	TaskTypeNotificationDeliver = "notification:deliver"
	TaskTypeNotificationPurge   = "notification:purge"
)

// Task queues
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Task timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
)

// Task retry settings
const (
	RetryDefault = 3
	RetryMin     = 1
)

// NotificationPayload is the body of a notification:deliver task.
type NotificationPayload struct {
	UserID  uint                   `json:"user_id"`
	Message string                 `json:"message"`
	Type    string                 `json:"type"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// PurgePayload is the body of a notification:purge task.
type PurgePayload struct {
	RetentionDays int `json:"retention_days"`
}
