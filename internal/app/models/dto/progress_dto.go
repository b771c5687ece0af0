package dto

// UpdateProgressRequest adds study time to a topic and optionally sets its
// mastery level.
type UpdateProgressRequest struct {
	TopicID      string `json:"topic_id" binding:"required" example:"kinematics"`
	TimeSpent    int    `json:"time_spent" binding:"gte=0" example:"30"`
	MasteryLevel *int   `json:"mastery_level" binding:"omitempty,gte=0,lte=100" example:"70"`
}
