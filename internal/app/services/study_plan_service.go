package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/repositories"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/helpers"
	"golang.org/x/sync/errgroup"
)

// DefaultSessionMinutes is the length of every generated session
const DefaultSessionMinutes = 60

// Upper bounds on a single plan
const (
	MaxPlanDays       = 366
	MaxPlanSubjects   = 20
	MaxSessionsPerDay = 24
)

// maxSessionFetches caps concurrent session queries per plan view
const maxSessionFetches = 8

// StudyPlanService creates plans, assembles the nested plan view and edits
// sessions.
type StudyPlanService struct {
	planRepo repositories.IStudyPlanRepository
	logger   zerolog.Logger
	clock
}

// NewStudyPlanService creates a new StudyPlanService
func NewStudyPlanService(planRepo repositories.IStudyPlanRepository, logger zerolog.Logger) *StudyPlanService {
	return &StudyPlanService{
		planRepo: planRepo,
		logger:   logger,
		clock:    systemClock(),
	}
}

func parseDateField(name, value string) (models.Date, error) {
	if value == "" {
		return models.Date{}, fmt.Errorf("%w: %s is required", apperrors.ErrValidationFailed, name)
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return models.Date{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", apperrors.ErrValidationFailed, name)
	}
	return d, nil
}

// BuildStudyPlan turns a request into an unsaved plan. With Days set, each
// entry becomes a daily plan numbered by its position and its sessions are
// kept as given. Without Days, every date from start to end gets one
// DefaultSessionMinutes session per subject.
func BuildStudyPlan(userID int64, req *dto.CreateStudyPlanRequest) (*models.StudyPlan, error) {
	start, err := parseDateField("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDateField("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date must not be before start_date", apperrors.ErrValidationFailed)
	}
	if req.TotalDays <= 0 {
		return nil, fmt.Errorf("%w: total_days must be greater than 0", apperrors.ErrValidationFailed)
	}
	if req.TotalDays > MaxPlanDays {
		return nil, fmt.Errorf("%w: total_days must not exceed %d", apperrors.ErrValidationFailed, MaxPlanDays)
	}

	plan := &models.StudyPlan{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		TotalDays: req.TotalDays,
	}

	if req.Days != nil {
		if len(req.Days) > MaxPlanDays {
			return nil, fmt.Errorf("%w: a plan may hold at most %d days", apperrors.ErrValidationFailed, MaxPlanDays)
		}
		plan.DailyPlans, err = explicitDays(userID, req.Days)
		if err != nil {
			return nil, err
		}
		return plan, nil
	}

	if span := start.DaysUntil(end) + 1; span > MaxPlanDays {
		return nil, fmt.Errorf("%w: date range spans %d days, at most %d allowed", apperrors.ErrValidationFailed, span, MaxPlanDays)
	}
	if len(req.Subjects) > MaxPlanSubjects {
		return nil, fmt.Errorf("%w: at most %d subjects allowed", apperrors.ErrValidationFailed, MaxPlanSubjects)
	}
	plan.DailyPlans = generatedDays(userID, start, end, req.Subjects)
	return plan, nil
}

func explicitDays(userID int64, days []dto.DayRequest) ([]models.DailyPlan, error) {
	out := make([]models.DailyPlan, 0, len(days))
	for i, day := range days {
		date, err := parseDateField(fmt.Sprintf("days[%d].date", i), day.Date)
		if err != nil {
			return nil, err
		}

		if len(day.Sessions) > MaxSessionsPerDay {
			return nil, fmt.Errorf("%w: days[%d] has more than %d sessions", apperrors.ErrValidationFailed, i, MaxSessionsPerDay)
		}

		dp := models.DailyPlan{
			UserID:       userID,
			Date:         date,
			DayNumber:    i + 1,
			BurnoutLevel: day.BurnoutLevel,
			Sessions:     make([]models.StudySession, 0, len(day.Sessions)),
		}
		for j, s := range day.Sessions {
			if s.SubjectID == "" {
				return nil, fmt.Errorf("%w: days[%d].sessions[%d].subjectId is required", apperrors.ErrValidationFailed, i, j)
			}
			dp.Sessions = append(dp.Sessions, models.StudySession{
				UserID:      userID,
				SubjectID:   s.SubjectID,
				SubjectName: s.SubjectName,
				TopicID:     s.TopicID,
				TopicName:   s.TopicName,
				ChapterID:   s.ChapterID,
				ChapterName: s.ChapterName,
				Duration:    s.Duration,
				Completed:   s.Completed,
			})
		}
		out = append(out, dp)
	}
	return out, nil
}

func generatedDays(userID int64, start, end models.Date, subjects []string) []models.DailyPlan {
	var out []models.DailyPlan
	for date, n := start, 1; !end.Before(date); date, n = date.AddDays(1), n+1 {
		dp := models.DailyPlan{
			UserID:    userID,
			Date:      date,
			DayNumber: n,
			Sessions:  make([]models.StudySession, 0, len(subjects)),
		}
		for _, subject := range subjects {
			dp.Sessions = append(dp.Sessions, models.StudySession{
				UserID:      userID,
				SubjectID:   subject,
				SubjectName: helpers.CapitalizeFirst(subject),
				Duration:    DefaultSessionMinutes,
			})
		}
		out = append(out, dp)
	}
	return out
}

// Create builds and stores a new plan for userID
func (s *StudyPlanService) Create(ctx context.Context, userID int64, req *dto.CreateStudyPlanRequest) (int64, error) {
	plan, err := BuildStudyPlan(userID, req)
	if err != nil {
		return 0, err
	}
	return s.planRepo.CreatePlan(ctx, plan)
}

// GetCurrent returns the user's latest plan with its days in date order and
// each day's sessions. Sessions are read concurrently, one query per day.
func (s *StudyPlanService) GetCurrent(ctx context.Context, userID int64) (*models.StudyPlan, error) {
	plan, err := s.planRepo.GetLatestPlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	days, err := s.planRepo.ListDailyPlans(ctx, plan.ID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSessionFetches)
	for i := range days {
		g.Go(func() error {
			sessions, err := s.planRepo.ListSessions(gctx, days[i].ID)
			if err != nil {
				return err
			}
			days[i].Sessions = sessions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plan.DailyPlans = days
	return plan, nil
}

// UpdateSession changes completion and/or duration of a session owned by
// userID. Completing stamps completed_at and un-completing clears it.
func (s *StudyPlanService) UpdateSession(ctx context.Context, userID, sessionID int64, req *dto.UpdateSessionRequest) (*models.StudySession, error) {
	upd := models.SessionUpdate{Completed: req.Completed, Duration: req.Duration}
	if upd.Empty() {
		return nil, apperrors.ErrNoUpdates
	}
	if upd.Completed != nil && *upd.Completed {
		now := s.now()
		upd.CompletedAt = &now
	}

	session, err := s.planRepo.UpdateSession(ctx, userID, sessionID, upd)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int64("userID", userID).Int64("sessionID", sessionID).Msg("Session updated")
	return session, nil
}
