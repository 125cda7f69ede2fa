package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/metrics"
)

var (
	// ErrStageLocked is returned when saving a stage whose tab is disabled
	ErrStageLocked = errors.New("stage is locked")
	// ErrBusy is returned when the global page walk is already running
	ErrBusy = errors.New("operation already in progress")
)

// Notifier surfaces transient messages to operators
type Notifier interface {
	Notify(ctx context.Context, level entity.NotificationLevel, source, message string)
}

// Broadcaster pushes payloads to connected clients
type Broadcaster interface {
	Broadcast(data interface{})
}

const recentNotifications = 50

// NotificationCenter logs, counts and broadcasts notifications and keeps the
// most recent ones for clients that connect late.
type NotificationCenter struct {
	mu          sync.Mutex
	recent      []entity.Notification
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      logger.Logger
}

// NewNotificationCenter creates a new notification center. broadcaster may be nil.
func NewNotificationCenter(broadcaster Broadcaster, m *metrics.Metrics, logger logger.Logger) *NotificationCenter {
	return &NotificationCenter{
		broadcaster: broadcaster,
		metrics:     m,
		logger:      logger,
	}
}

func (n *NotificationCenter) Notify(ctx context.Context, level entity.NotificationLevel, source, message string) {
	notification := entity.NewNotification(level, source, message)

	n.mu.Lock()
	n.recent = append(n.recent, notification)
	if len(n.recent) > recentNotifications {
		n.recent = n.recent[len(n.recent)-recentNotifications:]
	}
	n.mu.Unlock()

	n.metrics.Notifications.WithLabelValues(string(level)).Inc()

	switch level {
	case entity.LevelError:
		n.logger.Warn("Notification", "source", source, "message", message)
	default:
		n.logger.Info("Notification", "source", source, "message", message)
	}

	if n.broadcaster != nil {
		n.broadcaster.Broadcast(map[string]interface{}{
			"type": "notification",
			"data": notification,
		})
	}
}

// Recent returns the latest notifications, oldest first
func (n *NotificationCenter) Recent() []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]entity.Notification, len(n.recent))
	copy(out, n.recent)
	return out
}
