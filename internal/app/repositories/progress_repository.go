package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/db"
	"github.com/yigit/acetrack/internal/pkg/logger"
)

// IProgressRepository defines the interface for topic progress operations
type IProgressRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Progress, error)
	Record(ctx context.Context, userID int64, upd models.ProgressUpdate) (*models.Progress, bool, error)
}

// ProgressRepository handles the progress_data table
type ProgressRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(database *db.PostgresDB) *ProgressRepository {
	return &ProgressRepository{db: database, sb: newBuilder()}
}

var progressColumns = []string{"id", "user_id", "topic_id", "time_spent", "mastery_level", "last_studied", "created_at"}

// ListByUser returns every topic progress row of the user
func (r *ProgressRepository) ListByUser(ctx context.Context, userID int64) ([]models.Progress, error) {
	sql, args, err := r.sb.Select(progressColumns...).
		From("progress_data").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("last_studied DESC NULLS LAST", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list progress query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying progress")
		return nil, fmt.Errorf("error listing progress: %w", err)
	}
	defer rows.Close()

	items := []models.Progress{}
	for rows.Next() {
		var p models.Progress
		if err := rows.Scan(&p.ID, &p.UserID, &p.TopicID, &p.TimeSpent, &p.MasteryLevel, &p.LastStudied, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning progress: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress: %w", err)
	}
	return items, nil
}

// Record adds upd to the (user, topic) row, creating it when missing, and
// advances the user's study statistics in the same transaction. It reports
// whether the row was created.
func (r *ProgressRepository) Record(ctx context.Context, userID int64, upd models.ProgressUpdate) (*models.Progress, bool, error) {
	p := &models.Progress{}
	var created bool

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		mastery := 0
		if upd.MasteryLevel != nil {
			mastery = *upd.MasteryLevel
		}

		sql, args, err := r.sb.Insert("progress_data").
			Columns("user_id", "topic_id", "time_spent", "mastery_level", "last_studied").
			Values(userID, upd.TopicID, upd.TimeSpent, mastery, upd.StudiedAt).
			Suffix(`ON CONFLICT (user_id, topic_id) DO UPDATE SET
				time_spent = progress_data.time_spent + EXCLUDED.time_spent,
				mastery_level = COALESCE(?::integer, progress_data.mastery_level),
				last_studied = EXCLUDED.last_studied
				RETURNING id, user_id, topic_id, time_spent, mastery_level, last_studied, created_at, (xmax = 0)`,
				upd.MasteryLevel).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build record progress query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.UserID, &p.TopicID, &p.TimeSpent,
			&p.MasteryLevel, &p.LastStudied, &p.CreatedAt, &created); err != nil {
			return fmt.Errorf("error recording progress: %w", err)
		}

		if upd.TimeSpent <= 0 {
			return nil
		}
		return updateStatistics(ctx, tx, r.sb, userID, func(s *models.Statistics) {
			s.RecordStudy(upd.TimeSpent, models.NewDate(upd.StudiedAt))
		})
	})
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Str("topicID", upd.TopicID).Msg("Error recording progress")
		return nil, false, err
	}
	return p, created, nil
}
