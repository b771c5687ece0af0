package dto

// CreateTopicRequest adds a topic to the shared curriculum.
type CreateTopicRequest struct {
	Subject        string   `json:"subject" binding:"required" example:"Physics"`
	Chapter        string   `json:"chapter" binding:"required" example:"Kinematics"`
	Topic          string   `json:"topic" binding:"required" example:"Projectile motion"`
	EstimatedHours *float64 `json:"estimatedHours" binding:"omitempty,gt=0" example:"2"`
	Resources      *string  `json:"resources" example:"NCERT chapter 4"`
}
