package models

import "time"

// CurriculumTopic is one subject/chapter/topic entry of the shared curriculum.
type CurriculumTopic struct {
	ID             int64     `json:"id" db:"id"`
	Subject        string    `json:"subject" db:"subject"`
	Chapter        string    `json:"chapter" db:"chapter"`
	Topic          string    `json:"topic" db:"topic"`
	EstimatedHours float64   `json:"estimated_hours" db:"estimated_hours"`
	Resources      *string   `json:"resources" db:"resources"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
