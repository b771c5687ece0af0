package models

import (
	"encoding/json"
	"time"
)

// QuizAttempt is one recorded quiz result ('quiz_attempts').
type QuizAttempt struct {
	ID             int64           `json:"id" db:"id"`
	UserID         int64           `json:"user_id" db:"user_id"`
	SubjectID      string          `json:"subject_id" db:"subject_id"`
	TopicID        *string         `json:"topic_id" db:"topic_id"`
	TotalQuestions int             `json:"total_questions" db:"total_questions"`
	CorrectAnswers int             `json:"correct_answers" db:"correct_answers"`
	Score          float64         `json:"score" db:"score"`
	TimeTaken      *int            `json:"time_taken" db:"time_taken"`
	QuizData       json.RawMessage `json:"quiz_data" db:"quiz_data" swaggertype:"object"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// Quiz is a catalog quiz ('quizzes').
type Quiz struct {
	ID          int64          `json:"id" db:"id"`
	SubjectID   string         `json:"subject_id" db:"subject_id"`
	TopicID     *string        `json:"topic_id" db:"topic_id"`
	Title       string         `json:"title" db:"title"`
	Description *string        `json:"description" db:"description"`
	Difficulty  string         `json:"difficulty" db:"difficulty"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	Questions   []QuizQuestion `json:"questions,omitempty"`
}

// QuizQuestion belongs to a Quiz. Options and CorrectAnswer are opaque JSON.
type QuizQuestion struct {
	ID            int64           `json:"id" db:"id"`
	QuizID        int64           `json:"quiz_id" db:"quiz_id"`
	Question      string          `json:"question" db:"question"`
	Options       json.RawMessage `json:"options" db:"options" swaggertype:"object"`
	CorrectAnswer json.RawMessage `json:"correct_answer" db:"correct_answer" swaggertype:"object"`
	Explanation   *string         `json:"explanation" db:"explanation"`
	Position      int             `json:"position" db:"position"`
}
