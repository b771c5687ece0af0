package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/db"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/dberrors"
	"github.com/yigit/acetrack/internal/pkg/logger"
)

// CurriculumTopicConstraint keeps (subject, chapter, topic) unique
const CurriculumTopicConstraint = "curriculum_subject_chapter_topic_key"

// ICurriculumRepository defines the interface for curriculum operations
type ICurriculumRepository interface {
	List(ctx context.Context) ([]models.CurriculumTopic, error)
	CreateWithNotification(ctx context.Context, t *models.CurriculumTopic, n *models.Notification) (int64, error)
	Delete(ctx context.Context, id int64) error
	EnsureTopics(ctx context.Context, topics []models.CurriculumTopic) (int, error)
}

// CurriculumRepository handles the shared curriculum table
type CurriculumRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCurriculumRepository creates a new CurriculumRepository
func NewCurriculumRepository(database *db.PostgresDB) *CurriculumRepository {
	return &CurriculumRepository{db: database, sb: newBuilder()}
}

// List returns all topics, newest first
func (r *CurriculumRepository) List(ctx context.Context) ([]models.CurriculumTopic, error) {
	sql, args, err := r.sb.Select("id", "subject", "chapter", "topic", "estimated_hours", "resources", "created_at").
		From("curriculum").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list curriculum query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying curriculum")
		return nil, fmt.Errorf("error listing curriculum: %w", err)
	}
	defer rows.Close()

	topics := []models.CurriculumTopic{}
	for rows.Next() {
		var t models.CurriculumTopic
		if err := rows.Scan(&t.ID, &t.Subject, &t.Chapter, &t.Topic, &t.EstimatedHours, &t.Resources, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning curriculum topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating curriculum: %w", err)
	}
	return topics, nil
}

// CreateWithNotification inserts a topic and the notification announcing it
// in one transaction.
func (r *CurriculumRepository) CreateWithNotification(ctx context.Context, t *models.CurriculumTopic, n *models.Notification) (int64, error) {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("curriculum").
			Columns("subject", "chapter", "topic", "estimated_hours", "resources").
			Values(t.Subject, t.Chapter, t.Topic, t.EstimatedHours, t.Resources).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create topic query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
			if dberrors.IsDuplicateConstraintError(err, CurriculumTopicConstraint) {
				return apperrors.NewConflictError("Topic already exists in curriculum")
			}
			return fmt.Errorf("error creating topic: %w", err)
		}

		_, err = insertNotification(ctx, tx, r.sb, n)
		return err
	})
	if err != nil {
		logger.Error().Err(err).Str("subject", t.Subject).Str("topic", t.Topic).Msg("Error adding curriculum topic")
		return 0, err
	}

	logger.Info().Int64("topicID", t.ID).Str("subject", t.Subject).Msg("Curriculum topic added")
	return t.ID, nil
}

// Delete removes a topic
func (r *CurriculumRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("curriculum").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete topic query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("topicID", id).Msg("Error deleting topic")
		return fmt.Errorf("error deleting topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTopicNotFound
	}
	return nil
}

// EnsureTopics inserts the topics that are not present yet and returns how
// many were added.
func (r *CurriculumRepository) EnsureTopics(ctx context.Context, topics []models.CurriculumTopic) (int, error) {
	if len(topics) == 0 {
		return 0, nil
	}

	q := r.sb.Insert("curriculum").Columns("subject", "chapter", "topic", "estimated_hours", "resources")
	for _, t := range topics {
		q = q.Values(t.Subject, t.Chapter, t.Topic, t.EstimatedHours, t.Resources)
	}

	sql, args, err := q.Suffix("ON CONFLICT ON CONSTRAINT " + CurriculumTopicConstraint + " DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build ensure topics query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error seeding curriculum topics")
		return 0, fmt.Errorf("error seeding curriculum: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
