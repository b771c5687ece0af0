package models

import "time"

// Notification types
const (
	NotificationInfo       = "info"
	NotificationCurriculum = "curriculum"
)

// Notification is a message for one user, or for everyone when UserID is nil.
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    *int64    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"type"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
