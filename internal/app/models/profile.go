package models

import (
	"encoding/json"
	"time"
)

// Profile is a user's learning profile ('user_profiles'). The two JSON
// columns are stored and returned as received.
type Profile struct {
	ID                  int64           `json:"id" db:"id"`
	UserID              int64           `json:"user_id" db:"user_id"`
	Name                *string         `json:"name" db:"name"`
	Class               *string         `json:"class" db:"class"`
	Board               *string         `json:"board" db:"board"`
	Stream              *string         `json:"stream" db:"stream"`
	LearningSpeed       *string         `json:"learning_speed" db:"learning_speed"`
	LearningStyle       *string         `json:"learning_style" db:"learning_style"`
	StudyDuration       *string         `json:"study_duration" db:"study_duration"`
	SelectedSubjects    json.RawMessage `json:"selected_subjects" db:"selected_subjects" swaggertype:"object"`
	SubjectDifficulties json.RawMessage `json:"subject_difficulties" db:"subject_difficulties" swaggertype:"object"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`

	// Joined from users
	StudentCode *string `json:"student_code,omitempty"`
	Email       string  `json:"email,omitempty"`
}
