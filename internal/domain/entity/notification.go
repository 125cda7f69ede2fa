package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"
)

// Notification is a transient message shown to operators
type Notification struct {
	ID        uuid.UUID         `json:"id"`
	Level     NotificationLevel `json:"level"`
	Source    string            `json:"source"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewNotification(level NotificationLevel, source, message string) Notification {
	return Notification{
		ID:        uuid.New(),
		Level:     level,
		Source:    source,
		Message:   message,
		CreatedAt: time.Now(),
	}
}
