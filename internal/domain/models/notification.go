package models

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationSuccess NotificationType = "success"
)

type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Category  string           `json:"category" db:"category"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	Link      *string          `json:"link,omitempty" db:"link"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
