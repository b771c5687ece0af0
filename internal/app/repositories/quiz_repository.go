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

// IQuizRepository defines the interface for quiz operations
type IQuizRepository interface {
	RecordAttempt(ctx context.Context, a *models.QuizAttempt) (int64, error)
	ListAttempts(ctx context.Context, userID int64, offset, limit uint64) ([]models.QuizAttempt, int64, error)
	ListQuizzes(ctx context.Context, subjectID string) ([]models.Quiz, error)
	GetQuiz(ctx context.Context, id int64) (*models.Quiz, error)
}

// QuizRepository handles quiz attempts and the quiz catalog
type QuizRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewQuizRepository creates a new QuizRepository
func NewQuizRepository(database *db.PostgresDB) *QuizRepository {
	return &QuizRepository{db: database, sb: newBuilder()}
}

// RecordAttempt inserts an attempt and folds its score into the user's
// statistics in the same transaction.
func (r *QuizRepository) RecordAttempt(ctx context.Context, a *models.QuizAttempt) (int64, error) {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("quiz_attempts").
			Columns("user_id", "subject_id", "topic_id", "total_questions",
				"correct_answers", "score", "time_taken", "quiz_data").
			Values(a.UserID, a.SubjectID, a.TopicID, a.TotalQuestions,
				a.CorrectAnswers, a.Score, a.TimeTaken, jsonArg(a.QuizData)).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build record attempt query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
			return fmt.Errorf("error recording quiz attempt: %w", err)
		}

		return updateStatistics(ctx, tx, r.sb, a.UserID, func(s *models.Statistics) {
			s.RecordQuiz(a.Score)
		})
	})
	if err != nil {
		logger.Error().Err(err).Int64("userID", a.UserID).Msg("Error recording quiz attempt")
		return 0, err
	}
	return a.ID, nil
}

// ListAttempts returns one page of the user's attempts, newest first, and
// the total attempt count.
func (r *QuizRepository) ListAttempts(ctx context.Context, userID int64, offset, limit uint64) ([]models.QuizAttempt, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("quiz_attempts").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count attempts query: %w", err)
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error counting quiz attempts")
		return nil, 0, fmt.Errorf("error counting quiz attempts: %w", err)
	}

	sql, args, err := r.sb.Select("id", "user_id", "subject_id", "topic_id", "total_questions",
		"correct_answers", "score", "time_taken", "quiz_data", "created_at").
		From("quiz_attempts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list attempts query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying quiz attempts")
		return nil, 0, fmt.Errorf("error listing quiz attempts: %w", err)
	}
	defer rows.Close()

	attempts := []models.QuizAttempt{}
	for rows.Next() {
		var a models.QuizAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.SubjectID, &a.TopicID, &a.TotalQuestions,
			&a.CorrectAnswers, &a.Score, &a.TimeTaken, &a.QuizData, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning quiz attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating quiz attempts: %w", err)
	}
	return attempts, total, nil
}

var quizColumns = []string{"id", "subject_id", "topic_id", "title", "description", "difficulty", "created_at"}

func scanQuiz(row rowScanner) (*models.Quiz, error) {
	q := &models.Quiz{}
	if err := row.Scan(&q.ID, &q.SubjectID, &q.TopicID, &q.Title, &q.Description, &q.Difficulty, &q.CreatedAt); err != nil {
		return nil, err
	}
	return q, nil
}

// ListQuizzes returns catalog quizzes, optionally restricted to one subject
func (r *QuizRepository) ListQuizzes(ctx context.Context, subjectID string) ([]models.Quiz, error) {
	q := r.sb.Select(quizColumns...).From("quizzes").OrderBy("created_at DESC", "id DESC")
	if subjectID != "" {
		q = q.Where(squirrel.Eq{"subject_id": subjectID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list quizzes query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying quizzes")
		return nil, fmt.Errorf("error listing quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []models.Quiz{}
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning quiz: %w", err)
		}
		quizzes = append(quizzes, *quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quizzes: %w", err)
	}
	return quizzes, nil
}

// GetQuiz returns a quiz with its questions in position order
func (r *QuizRepository) GetQuiz(ctx context.Context, id int64) (*models.Quiz, error) {
	sql, args, err := r.sb.Select(quizColumns...).
		From("quizzes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get quiz query: %w", err)
	}

	quiz, err := scanQuiz(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQuizNotFound
		}
		logger.Error().Err(err).Int64("quizID", id).Msg("Error scanning quiz row")
		return nil, fmt.Errorf("error getting quiz: %w", err)
	}

	sql, args, err = r.sb.Select("id", "quiz_id", "question", "options", "correct_answer", "explanation", "position").
		From("quiz_questions").
		Where(squirrel.Eq{"quiz_id": id}).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build quiz questions query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("quizID", id).Msg("Error querying quiz questions")
		return nil, fmt.Errorf("error listing quiz questions: %w", err)
	}
	defer rows.Close()

	quiz.Questions = []models.QuizQuestion{}
	for rows.Next() {
		var qq models.QuizQuestion
		if err := rows.Scan(&qq.ID, &qq.QuizID, &qq.Question, &qq.Options, &qq.CorrectAnswer, &qq.Explanation, &qq.Position); err != nil {
			return nil, fmt.Errorf("error scanning quiz question: %w", err)
		}
		quiz.Questions = append(quiz.Questions, qq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quiz questions: %w", err)
	}
	return quiz, nil
}
