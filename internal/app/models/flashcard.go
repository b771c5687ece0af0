package models

import "time"

// Flashcard difficulty labels as chosen by the author of the card.
const (
	FlashcardEasy   = "easy"
	FlashcardMedium = "medium"
	FlashcardHard   = "hard"
)

// Flashcard is a user-owned question/answer card ('flashcards').
type Flashcard struct {
	ID             int64           `json:"id" db:"id"`
	UserID         int64           `json:"user_id" db:"user_id"`
	SubjectID      string          `json:"subject_id" db:"subject_id"`
	TopicID        *string         `json:"topic_id" db:"topic_id"`
	Question       string          `json:"question" db:"question"`
	Answer         string          `json:"answer" db:"answer"`
	Difficulty     string          `json:"difficulty" db:"difficulty"`
	NextReviewDate Date            `json:"next_review_date" db:"next_review_date" swaggertype:"string"`
	ReviewCount    int             `json:"review_count" db:"review_count"`
	CorrectCount   int             `json:"correct_count" db:"correct_count"`
	Memory         FlashcardMemory `json:"memory"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// FlashcardMemory is the spaced repetition state of a card.
type FlashcardMemory struct {
	Stability     float64    `json:"stability" db:"stability"`
	Difficulty    float64    `json:"difficulty" db:"memory_difficulty"`
	ElapsedDays   uint64     `json:"elapsed_days" db:"elapsed_days"`
	ScheduledDays uint64     `json:"scheduled_days" db:"scheduled_days"`
	Reps          uint64     `json:"reps" db:"reps"`
	Lapses        uint64     `json:"lapses" db:"lapses"`
	State         int8       `json:"state" db:"state"`
	Due           time.Time  `json:"due" db:"due"`
	LastReview    *time.Time `json:"last_review" db:"last_review"`
}
