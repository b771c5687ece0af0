package dto

import "github.com/yigit/acetrack/internal/app/models"

// LinkStudentRequest links the calling parent to a student by code.
type LinkStudentRequest struct {
	StudentCode  string  `json:"studentCode" example:"ACE-7K2Q9D"`
	Relationship *string `json:"relationship,omitempty" example:"father"`
}

// PlanWithStatistics is a study plan with the owner's streak and score
// counters attached at the top level. The counters are omitted when the
// owner has no statistics row.
type PlanWithStatistics struct {
	*models.StudyPlan
	CurrentStreak    *int     `json:"current_streak,omitempty"`
	LongestStreak    *int     `json:"longest_streak,omitempty"`
	TotalStudyTime   *int     `json:"total_study_time,omitempty"`
	AverageQuizScore *float64 `json:"average_quiz_score,omitempty"`
}

// ChildDataResponse is everything a parent may read about the linked student.
type ChildDataResponse struct {
	StudentID  int64               `json:"student_id" example:"1"`
	Profile    *models.Profile     `json:"profile"`
	StudyPlan  *PlanWithStatistics `json:"studyPlan"`
	Progress   []models.Progress   `json:"progress"`
	Statistics *models.Statistics  `json:"statistics"`
}
