package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/db"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/logger"
)

var statisticsColumns = []string{
	"user_id", "total_study_time", "current_streak", "longest_streak",
	"total_quizzes", "average_quiz_score", "last_study_date", "updated_at",
}

// IStatisticsRepository defines read access to user statistics
type IStatisticsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Statistics, error)
}

// StatisticsRepository reads the user_statistics table
type StatisticsRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewStatisticsRepository creates a new StatisticsRepository
func NewStatisticsRepository(database *db.PostgresDB) *StatisticsRepository {
	return &StatisticsRepository{db: database, sb: newBuilder()}
}

func scanStatistics(row rowScanner) (*models.Statistics, error) {
	s := &models.Statistics{}
	err := row.Scan(&s.UserID, &s.TotalStudyTime, &s.CurrentStreak, &s.LongestStreak,
		&s.TotalQuizzes, &s.AverageQuizScore, &s.LastStudyDate, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByUserID returns the statistics row of a user
func (r *StatisticsRepository) GetByUserID(ctx context.Context, userID int64) (*models.Statistics, error) {
	sql, args, err := r.sb.Select(statisticsColumns...).
		From("user_statistics").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get statistics SQL")
		return nil, fmt.Errorf("failed to build get statistics query: %w", err)
	}

	s, err := scanStatistics(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Statistics not found")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning statistics row")
		return nil, fmt.Errorf("error getting statistics: %w", err)
	}
	return s, nil
}

// insertStatistics creates the zeroed statistics row of a user if missing.
func insertStatistics(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, userID int64) error {
	sql, args, err := sb.Insert("user_statistics").
		Columns("user_id").
		Values(userID).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert statistics query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error inserting statistics row")
		return fmt.Errorf("error creating statistics: %w", err)
	}
	return nil
}

// updateStatistics locks the statistics row of userID, applies fn to it and
// writes it back. q must be a transaction.
func updateStatistics(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, userID int64, fn func(*models.Statistics)) error {
	if err := insertStatistics(ctx, q, sb, userID); err != nil {
		return err
	}

	sql, args, err := sb.Select(statisticsColumns...).
		From("user_statistics").
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build lock statistics query: %w", err)
	}

	s, err := scanStatistics(q.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error locking statistics row")
		return fmt.Errorf("error reading statistics: %w", err)
	}

	fn(s)

	var lastStudy any
	if s.LastStudyDate != nil {
		lastStudy = s.LastStudyDate.Time
	}

	sql, args, err = sb.Update("user_statistics").
		Set("total_study_time", s.TotalStudyTime).
		Set("current_streak", s.CurrentStreak).
		Set("longest_streak", s.LongestStreak).
		Set("total_quizzes", s.TotalQuizzes).
		Set("average_quiz_score", s.AverageQuizScore).
		Set("last_study_date", lastStudy).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update statistics query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating statistics")
		return fmt.Errorf("error updating statistics: %w", err)
	}
	return nil
}
