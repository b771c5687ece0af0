package models

import "time"

// Statistics holds per-user aggregate counters ('user_statistics').
type Statistics struct {
	UserID           int64     `json:"user_id" db:"user_id"`
	TotalStudyTime   int       `json:"total_study_time" db:"total_study_time"`
	CurrentStreak    int       `json:"current_streak" db:"current_streak"`
	LongestStreak    int       `json:"longest_streak" db:"longest_streak"`
	TotalQuizzes     int       `json:"total_quizzes" db:"total_quizzes"`
	AverageQuizScore float64   `json:"average_quiz_score" db:"average_quiz_score"`
	LastStudyDate    *Date     `json:"last_study_date" db:"last_study_date" swaggertype:"string"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// RecordQuiz folds a new quiz score into the running average.
func (s *Statistics) RecordQuiz(score float64) {
	s.AverageQuizScore = (s.AverageQuizScore*float64(s.TotalQuizzes) + score) / float64(s.TotalQuizzes+1)
	s.TotalQuizzes++
}

// RecordStudy adds minutes of study on day and advances the streak.
// Studying again on the same day keeps the streak, the next day extends it,
// and any gap restarts it at one.
func (s *Statistics) RecordStudy(minutes int, day Date) {
	s.TotalStudyTime += minutes

	switch {
	case s.LastStudyDate == nil:
		s.CurrentStreak = 1
	case day.Equal(s.LastStudyDate.Time):
		if s.CurrentStreak == 0 {
			s.CurrentStreak = 1
		}
	case day.Equal(s.LastStudyDate.AddDays(1).Time):
		s.CurrentStreak++
	case day.Before(*s.LastStudyDate):
		// late report for an earlier day
		return
	default:
		s.CurrentStreak = 1
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastStudyDate = &day
}
