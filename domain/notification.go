package domain

import "time"

// NotificationType classifies autopilot notifications.
type NotificationType string

const (
	NotificationWelcome  NotificationType = "welcome"
	NotificationReminder NotificationType = "reminder"
	NotificationUrgent   NotificationType = "urgent"
)

// Notification is an in-app message for a user, optionally tied to a goal.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	GoalID    string           `json:"goal_id,omitempty"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
