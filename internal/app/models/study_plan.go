package models

import "time"

// StudyPlan is a date-bounded container of daily plans for one user.
type StudyPlan struct {
	ID         int64       `json:"id" db:"id"`
	UserID     int64       `json:"user_id" db:"user_id"`
	StartDate  Date        `json:"start_date" db:"start_date" swaggertype:"string" example:"2025-01-01"`
	EndDate    Date        `json:"end_date" db:"end_date" swaggertype:"string" example:"2025-01-07"`
	TotalDays  int         `json:"total_days" db:"total_days"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	DailyPlans []DailyPlan `json:"daily_plans"`
}

// DailyPlan is one calendar day of a plan.
type DailyPlan struct {
	ID           int64          `json:"id" db:"id"`
	StudyPlanID  int64          `json:"study_plan_id" db:"study_plan_id"`
	UserID       int64          `json:"user_id" db:"user_id"`
	Date         Date           `json:"date" db:"date" swaggertype:"string" example:"2025-01-01"`
	DayNumber    int            `json:"day_number" db:"day_number"`
	BurnoutLevel int            `json:"burnout_level" db:"burnout_level"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	Sessions     []StudySession `json:"sessions"`
}

// StudySession is a single subject/topic study block.
type StudySession struct {
	ID          int64      `json:"id" db:"id"`
	DailyPlanID int64      `json:"daily_plan_id" db:"daily_plan_id"`
	UserID      int64      `json:"user_id" db:"user_id"`
	SubjectID   string     `json:"subject_id" db:"subject_id"`
	SubjectName string     `json:"subject_name" db:"subject_name"`
	TopicID     *string    `json:"topic_id" db:"topic_id"`
	TopicName   *string    `json:"topic_name" db:"topic_name"`
	ChapterID   *string    `json:"chapter_id" db:"chapter_id"`
	ChapterName *string    `json:"chapter_name" db:"chapter_name"`
	Duration    int        `json:"duration" db:"duration"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// SessionUpdate is a partial update of a session. Nil fields are left as is.
type SessionUpdate struct {
	Completed   *bool
	Duration    *int
	CompletedAt *time.Time // applied together with Completed
}

// Empty reports whether the update changes nothing.
func (u SessionUpdate) Empty() bool {
	return u.Completed == nil && u.Duration == nil
}
