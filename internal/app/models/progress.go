package models

import "time"

// Progress tracks time spent and mastery per (user, topic) ('progress_data').
type Progress struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	TopicID      string     `json:"topic_id" db:"topic_id"`
	TimeSpent    int        `json:"time_spent" db:"time_spent"`
	MasteryLevel int        `json:"mastery_level" db:"mastery_level"`
	LastStudied  *time.Time `json:"last_studied" db:"last_studied"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// ProgressUpdate is an increment to a topic's progress.
type ProgressUpdate struct {
	TopicID      string
	TimeSpent    int
	MasteryLevel *int
	StudiedAt    time.Time
}
