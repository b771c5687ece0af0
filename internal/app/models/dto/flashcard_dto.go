package dto

// CreateFlashcardRequest creates a card due for review today.
type CreateFlashcardRequest struct {
	SubjectID  string  `json:"subject_id" binding:"required" example:"physics"`
	TopicID    *string `json:"topic_id" example:"kinematics"`
	Question   string  `json:"question" binding:"required" example:"Define velocity"`
	Answer     string  `json:"answer" binding:"required" example:"Rate of change of displacement"`
	Difficulty string  `json:"difficulty,omitempty" binding:"omitempty,oneof=easy medium hard" example:"medium"`
}

// ReviewFlashcardRequest reports the outcome of one review.
type ReviewFlashcardRequest struct {
	Correct *bool `json:"correct" binding:"required" example:"true"`
}
