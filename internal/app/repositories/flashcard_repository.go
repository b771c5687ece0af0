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

var flashcardColumns = []string{
	"id", "user_id", "subject_id", "topic_id", "question", "answer", "difficulty",
	"next_review_date", "review_count", "correct_count",
	"stability", "memory_difficulty", "elapsed_days", "scheduled_days",
	"reps", "lapses", "state", "due", "last_review", "created_at",
}

// IFlashcardRepository defines the interface for flashcard operations
type IFlashcardRepository interface {
	ListSubjects(ctx context.Context, userID int64) ([]string, error)
	ListBySubject(ctx context.Context, userID int64, subjectID string) ([]models.Flashcard, error)
	Create(ctx context.Context, card *models.Flashcard) (int64, error)
	Review(ctx context.Context, userID, id int64, fn func(*models.Flashcard)) (*models.Flashcard, error)
	Delete(ctx context.Context, userID, id int64) error
}

// FlashcardRepository handles user-owned flashcards
type FlashcardRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewFlashcardRepository creates a new FlashcardRepository
func NewFlashcardRepository(database *db.PostgresDB) *FlashcardRepository {
	return &FlashcardRepository{db: database, sb: newBuilder()}
}

func scanFlashcard(row rowScanner) (*models.Flashcard, error) {
	c := &models.Flashcard{}
	m := &c.Memory
	err := row.Scan(&c.ID, &c.UserID, &c.SubjectID, &c.TopicID, &c.Question, &c.Answer, &c.Difficulty,
		&c.NextReviewDate, &c.ReviewCount, &c.CorrectCount,
		&m.Stability, &m.Difficulty, &m.ElapsedDays, &m.ScheduledDays,
		&m.Reps, &m.Lapses, &m.State, &m.Due, &m.LastReview, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListSubjects returns the distinct subjects the user has cards for
func (r *FlashcardRepository) ListSubjects(ctx context.Context, userID int64) ([]string, error) {
	sql, args, err := r.sb.Select("DISTINCT subject_id").
		From("flashcards").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("subject_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subjects query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying flashcard subjects")
		return nil, fmt.Errorf("error listing flashcard subjects: %w", err)
	}
	defer rows.Close()

	subjects := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("error scanning subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}
	return subjects, nil
}

// ListBySubject returns the user's cards of one subject, soonest due first
func (r *FlashcardRepository) ListBySubject(ctx context.Context, userID int64, subjectID string) ([]models.Flashcard, error) {
	sql, args, err := r.sb.Select(flashcardColumns...).
		From("flashcards").
		Where(squirrel.Eq{"user_id": userID, "subject_id": subjectID}).
		OrderBy("next_review_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list flashcards query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying flashcards")
		return nil, fmt.Errorf("error listing flashcards: %w", err)
	}
	defer rows.Close()

	cards := []models.Flashcard{}
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning flashcard: %w", err)
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flashcards: %w", err)
	}
	return cards, nil
}

// Create inserts a new card
func (r *FlashcardRepository) Create(ctx context.Context, card *models.Flashcard) (int64, error) {
	m := card.Memory
	sql, args, err := r.sb.Insert("flashcards").
		Columns("user_id", "subject_id", "topic_id", "question", "answer", "difficulty",
			"next_review_date", "stability", "memory_difficulty", "elapsed_days",
			"scheduled_days", "reps", "lapses", "state", "due").
		Values(card.UserID, card.SubjectID, card.TopicID, card.Question, card.Answer, card.Difficulty,
			card.NextReviewDate.Time, m.Stability, m.Difficulty, m.ElapsedDays,
			m.ScheduledDays, m.Reps, m.Lapses, m.State, m.Due).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create flashcard SQL")
		return 0, fmt.Errorf("failed to build create flashcard query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&card.ID, &card.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", card.UserID).Msg("Error creating flashcard")
		return 0, fmt.Errorf("error creating flashcard: %w", err)
	}
	return card.ID, nil
}

// Review locks a card owned by userID, lets fn update it and stores the
// counters and scheduling state in the same transaction.
func (r *FlashcardRepository) Review(ctx context.Context, userID, id int64, fn func(*models.Flashcard)) (*models.Flashcard, error) {
	var card *models.Flashcard
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select(flashcardColumns...).
			From("flashcards").
			Where(squirrel.Eq{"id": id, "user_id": userID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock flashcard query: %w", err)
		}

		c, err := scanFlashcard(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrFlashcardNotFound
			}
			return fmt.Errorf("error locking flashcard: %w", err)
		}

		fn(c)

		m := c.Memory
		sql, args, err = r.sb.Update("flashcards").
			Set("review_count", c.ReviewCount).
			Set("correct_count", c.CorrectCount).
			Set("next_review_date", c.NextReviewDate.Time).
			Set("stability", m.Stability).
			Set("memory_difficulty", m.Difficulty).
			Set("elapsed_days", m.ElapsedDays).
			Set("scheduled_days", m.ScheduledDays).
			Set("reps", m.Reps).
			Set("lapses", m.Lapses).
			Set("state", m.State).
			Set("due", m.Due).
			Set("last_review", m.LastReview).
			Where(squirrel.Eq{"id": c.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build save review query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error saving flashcard review: %w", err)
		}

		card = c
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrFlashcardNotFound) {
			logger.Error().Err(err).Int64("flashcardID", id).Msg("Error reviewing flashcard")
		}
		return nil, err
	}
	return card, nil
}

// Delete removes a card owned by userID
func (r *FlashcardRepository) Delete(ctx context.Context, userID, id int64) error {
	sql, args, err := r.sb.Delete("flashcards").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete flashcard query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("flashcardID", id).Msg("Error deleting flashcard")
		return fmt.Errorf("error deleting flashcard: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFlashcardNotFound
	}
	return nil
}
