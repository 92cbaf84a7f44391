package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationServiceReminder NotificationType = "service_reminder"
	NotificationBadgeEarned     NotificationType = "badge_earned"
)

type Notification struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	Link        string           `json:"link,omitempty"`
	VehicleID   *uuid.UUID       `json:"vehicle_id,omitempty"`
	ServiceType string           `json:"service_type,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ReminderSummary reports one run of the maintenance reminder generator.
type ReminderSummary struct {
	UsersProcessed   int `json:"users_processed"`
	RemindersCreated int `json:"reminders_created"`
}
