package dto

// CreateStudyPlanRequest creates a plan either from explicit Days or, when
// Days is absent, by spreading Subjects over every date in the range.
type CreateStudyPlanRequest struct {
	StartDate string       `json:"start_date" binding:"required,datestr" example:"2025-01-01"`
	EndDate   string       `json:"end_date" binding:"required,datestr" example:"2025-01-07"`
	TotalDays int          `json:"total_days" binding:"required,gt=0" example:"7"`
	Subjects  []string     `json:"subjects,omitempty" example:"physics,chemistry"`
	Days      []DayRequest `json:"days,omitempty" binding:"omitempty,dive"`
}

// DayRequest is one explicit day of a plan.
type DayRequest struct {
	Date         string           `json:"date" binding:"required,datestr" example:"2025-01-01"`
	BurnoutLevel int              `json:"burnoutLevel" binding:"gte=0" example:"2"`
	Sessions     []SessionRequest `json:"sessions" binding:"dive"`
}

// SessionRequest is one explicit session of a day.
type SessionRequest struct {
	SubjectID   string  `json:"subjectId" binding:"required" example:"physics"`
	SubjectName string  `json:"subjectName" example:"Physics"`
	TopicID     *string `json:"topicId" example:"kinematics"`
	TopicName   *string `json:"topicName" example:"Kinematics"`
	ChapterID   *string `json:"chapterId,omitempty" example:"motion"`
	ChapterName *string `json:"chapterName,omitempty" example:"Motion in a straight line"`
	Duration    int     `json:"duration" binding:"gte=0" example:"60"`
	Completed   bool    `json:"completed,omitempty"`
}

// UpdateSessionRequest is a partial update of a session.
type UpdateSessionRequest struct {
	Completed *bool `json:"completed,omitempty" example:"true"`
	Duration  *int  `json:"duration,omitempty" binding:"omitempty,gte=0" example:"45"`
}
