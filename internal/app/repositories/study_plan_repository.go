package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/db"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/logger"
)

var sessionColumns = []string{
	"id", "daily_plan_id", "user_id", "subject_id", "COALESCE(subject_name, '')",
	"topic_id", "topic_name", "chapter_id", "chapter_name",
	"duration", "completed", "completed_at", "created_at",
}

// IStudyPlanRepository defines the interface for study plan operations
type IStudyPlanRepository interface {
	CreatePlan(ctx context.Context, plan *models.StudyPlan) (int64, error)
	GetLatestPlan(ctx context.Context, userID int64) (*models.StudyPlan, error)
	ListDailyPlans(ctx context.Context, planID int64) ([]models.DailyPlan, error)
	ListSessions(ctx context.Context, dailyPlanID int64) ([]models.StudySession, error)
	UpdateSession(ctx context.Context, userID, sessionID int64, upd models.SessionUpdate) (*models.StudySession, error)
}

// StudyPlanRepository handles plans, daily plans and sessions
type StudyPlanRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewStudyPlanRepository creates a new StudyPlanRepository
func NewStudyPlanRepository(database *db.PostgresDB) *StudyPlanRepository {
	return &StudyPlanRepository{db: database, sb: newBuilder()}
}

// CreatePlan stores plan with all of its daily plans and sessions in one
// transaction and fills in the generated ids.
func (r *StudyPlanRepository) CreatePlan(ctx context.Context, plan *models.StudyPlan) (int64, error) {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("study_plans").
			Columns("user_id", "start_date", "end_date", "total_days").
			Values(plan.UserID, plan.StartDate.Time, plan.EndDate.Time, plan.TotalDays).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create study plan query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&plan.ID, &plan.CreatedAt); err != nil {
			return fmt.Errorf("error creating study plan: %w", err)
		}

		for i := range plan.DailyPlans {
			day := &plan.DailyPlans[i]
			day.StudyPlanID = plan.ID
			day.UserID = plan.UserID

			sql, args, err := r.sb.Insert("daily_plans").
				Columns("study_plan_id", "user_id", "date", "day_number", "burnout_level").
				Values(day.StudyPlanID, day.UserID, day.Date.Time, day.DayNumber, day.BurnoutLevel).
				Suffix("RETURNING id, created_at").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build create daily plan query: %w", err)
			}
			if err := tx.QueryRow(ctx, sql, args...).Scan(&day.ID, &day.CreatedAt); err != nil {
				return fmt.Errorf("error creating daily plan %d: %w", day.DayNumber, err)
			}

			for j := range day.Sessions {
				s := &day.Sessions[j]
				s.DailyPlanID = day.ID
				s.UserID = plan.UserID

				sql, args, err := r.sb.Insert("study_sessions").
					Columns("daily_plan_id", "user_id", "subject_id", "subject_name", "topic_id",
						"topic_name", "chapter_id", "chapter_name", "duration", "completed").
					Values(s.DailyPlanID, s.UserID, s.SubjectID, s.SubjectName, s.TopicID,
						s.TopicName, s.ChapterID, s.ChapterName, s.Duration, s.Completed).
					Suffix("RETURNING id, created_at").
					ToSql()
				if err != nil {
					return fmt.Errorf("failed to build create session query: %w", err)
				}
				if err := tx.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
					return fmt.Errorf("error creating session: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("userID", plan.UserID).Msg("Error creating study plan")
		return 0, err
	}

	logger.Info().Int64("userID", plan.UserID).Int64("planID", plan.ID).Int("days", len(plan.DailyPlans)).Msg("Study plan created")
	return plan.ID, nil
}

// GetLatestPlan returns the user's plan with the latest start date
func (r *StudyPlanRepository) GetLatestPlan(ctx context.Context, userID int64) (*models.StudyPlan, error) {
	sql, args, err := r.sb.Select("id", "user_id", "start_date", "end_date", "total_days", "created_at").
		From("study_plans").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_date DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get study plan SQL")
		return nil, fmt.Errorf("failed to build get study plan query: %w", err)
	}

	p := &models.StudyPlan{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.UserID, &p.StartDate, &p.EndDate, &p.TotalDays, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudyPlanNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning study plan row")
		return nil, fmt.Errorf("error getting study plan: %w", err)
	}
	return p, nil
}

// ListDailyPlans returns the daily plans of a plan ordered by date
func (r *StudyPlanRepository) ListDailyPlans(ctx context.Context, planID int64) ([]models.DailyPlan, error) {
	sql, args, err := r.sb.Select("id", "study_plan_id", "user_id", "date", "day_number", "burnout_level", "created_at").
		From("daily_plans").
		Where(squirrel.Eq{"study_plan_id": planID}).
		OrderBy("date ASC", "day_number ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list daily plans query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("planID", planID).Msg("Error querying daily plans")
		return nil, fmt.Errorf("error listing daily plans: %w", err)
	}
	defer rows.Close()

	days := []models.DailyPlan{}
	for rows.Next() {
		var d models.DailyPlan
		if err := rows.Scan(&d.ID, &d.StudyPlanID, &d.UserID, &d.Date, &d.DayNumber, &d.BurnoutLevel, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning daily plan: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily plans: %w", err)
	}
	return days, nil
}

func scanSession(row rowScanner) (*models.StudySession, error) {
	s := &models.StudySession{}
	err := row.Scan(&s.ID, &s.DailyPlanID, &s.UserID, &s.SubjectID, &s.SubjectName,
		&s.TopicID, &s.TopicName, &s.ChapterID, &s.ChapterName,
		&s.Duration, &s.Completed, &s.CompletedAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSessions returns the sessions of a daily plan in insertion order
func (r *StudyPlanRepository) ListSessions(ctx context.Context, dailyPlanID int64) ([]models.StudySession, error) {
	sql, args, err := r.sb.Select(sessionColumns...).
		From("study_sessions").
		Where(squirrel.Eq{"daily_plan_id": dailyPlanID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list sessions query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("dailyPlanID", dailyPlanID).Msg("Error querying sessions")
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.StudySession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}

// UpdateSession applies upd to a session that belongs to one of userID's
// daily plans. Sessions of other users are reported as ErrSessionNotFound.
func (r *StudyPlanRepository) UpdateSession(ctx context.Context, userID, sessionID int64, upd models.SessionUpdate) (*models.StudySession, error) {
	if upd.Empty() {
		return nil, apperrors.ErrNoUpdates
	}

	q := r.sb.Update("study_sessions")
	if upd.Completed != nil {
		q = q.Set("completed", *upd.Completed).Set("completed_at", upd.CompletedAt)
	}
	if upd.Duration != nil {
		q = q.Set("duration", *upd.Duration)
	}

	sql, args, err := q.
		Where(squirrel.Eq{"id": sessionID}).
		Where(squirrel.Expr("daily_plan_id IN (SELECT id FROM daily_plans WHERE user_id = ?)", userID)).
		Suffix("RETURNING " + strings.Join(sessionColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update session SQL")
		return nil, fmt.Errorf("failed to build update session query: %w", err)
	}

	s, err := scanSession(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		logger.Error().Err(err).Int64("sessionID", sessionID).Msg("Error updating session")
		return nil, fmt.Errorf("error updating session: %w", err)
	}
	return s, nil
}
