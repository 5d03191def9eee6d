package tasks

import (
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/events"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

// Notifier delivers notifications through the queue when one is available
// and falls back to a direct insert otherwise. The HTTP path never waits on
// Redis and never fails a request over a notification.
type Notifier struct {
	client *Client
	db     *gorm.DB
	log    *logger.Logger
}

// NewNotifier builds a Notifier; client may be nil when Redis is not
// configured, in which case every delivery is a direct insert.
func NewNotifier(client *Client, db *gorm.DB) *Notifier {
	return &Notifier{client: client, db: db, log: logger.New("Notifier")}
}

func (n *Notifier) Notify(userID uint, message, notificationType string, data map[string]interface{}) {
	payload := NotificationPayload{
		UserID:  userID,
		Message: message,
		Type:    notificationType,
		Data:    data,
	}

	if n.client != nil {
		err := n.client.EnqueueNotification(payload)
		if err == nil {
			return
		}
		n.log.Warn("enqueue failed, inserting directly: %v", err)
	}

	notification, err := InsertNotification(n.db, payload)
	if err != nil {
		_ = n.log.Error("delivering notification", err)
		return
	}
	events.Emit(EventNotificationCreated, notification)
}
