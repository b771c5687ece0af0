package dto

import "encoding/json"

// RecordQuizAttemptRequest records a finished quiz. Score defaults to the
// percentage of correct answers.
type RecordQuizAttemptRequest struct {
	SubjectID      string          `json:"subject_id" binding:"required" example:"physics"`
	TopicID        *string         `json:"topic_id" example:"kinematics"`
	TotalQuestions *int            `json:"total_questions" binding:"required,gt=0" example:"10"`
	CorrectAnswers *int            `json:"correct_answers" binding:"required,gte=0" example:"8"`
	Score          *float64        `json:"score" binding:"omitempty,gte=0,lte=100" example:"80"`
	TimeTaken      *int            `json:"time_taken" binding:"omitempty,gte=0" example:"300"`
	QuizData       json.RawMessage `json:"quiz_data" swaggertype:"object"`
}
