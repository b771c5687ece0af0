package dto

import "encoding/json"

// ProfileRequest creates or replaces the caller's profile.
type ProfileRequest struct {
	Name                *string         `json:"name" example:"Asha"`
	Class               *string         `json:"class" example:"12"`
	Board               *string         `json:"board" example:"CBSE"`
	Stream              *string         `json:"stream" example:"science"`
	LearningSpeed       *string         `json:"learning_speed" example:"moderate"`
	LearningStyle       *string         `json:"learning_style" example:"visual"`
	StudyDuration       *string         `json:"study_duration" example:"2-3 hours"`
	SelectedSubjects    json.RawMessage `json:"selected_subjects" swaggertype:"array,string"`
	SubjectDifficulties json.RawMessage `json:"subject_difficulties" swaggertype:"object"`
}
