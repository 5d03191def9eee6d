package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/events"
	"github.com/vanshdigitals/edutrack/internal/taskflow"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

// EventNotificationCreated fires on the process bus after a notification row
// is written, so connected clients can be told without polling.
const EventNotificationCreated = "notificationCreated"

// TaskHandler processes queued tasks.
type TaskHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{
		db:  db,
		log: logger.New("task_handler"),
	}
}

// HandleNotificationDeliver writes the notification row and announces it.
func (h *TaskHandler) HandleNotificationDeliver(ctx context.Context, t *asynq.Task) error {
	var payload NotificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling notification payload: %w", err)
	}

	notification, err := InsertNotification(h.db.WithContext(ctx), payload)
	if err != nil {
		return err
	}

	events.Emit(EventNotificationCreated, notification)
	h.log.Info("delivered notification %d to user %d", notification.NotificationID, payload.UserID)
	return nil
}

// HandleNotificationPurge deletes read notifications older than the
// retention window.
func (h *TaskHandler) HandleNotificationPurge(ctx context.Context, t *asynq.Task) error {
	var payload PurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling purge payload: %w", err)
	}
	if payload.RetentionDays <= 0 {
		payload.RetentionDays = 30
	}

	cutoff := time.Now().AddDate(0, 0, -payload.RetentionDays)
	result := h.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&taskflow.Notification{})
	if result.Error != nil {
		return fmt.Errorf("purging notifications: %w", result.Error)
	}

	h.log.Info("purged %d read notifications older than %s", result.RowsAffected, cutoff.Format("2006-01-02"))
	return nil
}

// InsertNotification writes one notification row. The queue worker uses it,
// and the HTTP layer falls back to it when enqueueing fails.
func InsertNotification(db *gorm.DB, payload NotificationPayload) (*taskflow.Notification, error) {
	notification := taskflow.Notification{
		UserID:  payload.UserID,
		Message: payload.Message,
		Type:    payload.Type,
	}
	if payload.Data != nil {
		raw, err := json.Marshal(payload.Data)
		if err != nil {
			return nil, fmt.Errorf("marshaling notification data: %w", err)
		}
		notification.Data = datatypes.JSON(raw)
	}

	if err := db.Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("inserting notification: %w", err)
	}
	return &notification, nil
}
