package services

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/repositories"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/helpers"
)

// QuizService records quiz attempts and serves the quiz catalog
type QuizService struct {
	quizRepo repositories.IQuizRepository
	logger   zerolog.Logger
}

// NewQuizService creates a new QuizService
func NewQuizService(quizRepo repositories.IQuizRepository, logger zerolog.Logger) *QuizService {
	return &QuizService{quizRepo: quizRepo, logger: logger}
}

// QuizScore is the percentage of correct answers rounded to two decimals
func QuizScore(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*10000) / 100
}

// RecordAttempt stores an attempt and updates the user's quiz statistics
func (s *QuizService) RecordAttempt(ctx context.Context, userID int64, req *dto.RecordQuizAttemptRequest) (int64, error) {
	if req.SubjectID == "" || req.TotalQuestions == nil || req.CorrectAnswers == nil {
		return 0, fmt.Errorf("%w: Missing required fields", apperrors.ErrValidationFailed)
	}
	total, correct := *req.TotalQuestions, *req.CorrectAnswers
	if total <= 0 {
		return 0, fmt.Errorf("%w: total_questions must be greater than 0", apperrors.ErrValidationFailed)
	}
	if correct < 0 || correct > total {
		return 0, fmt.Errorf("%w: correct_answers must be between 0 and total_questions", apperrors.ErrValidationFailed)
	}

	score := QuizScore(correct, total)
	if req.Score != nil {
		score = *req.Score
	}

	attempt := &models.QuizAttempt{
		UserID:         userID,
		SubjectID:      req.SubjectID,
		TopicID:        req.TopicID,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Score:          score,
		TimeTaken:      req.TimeTaken,
		QuizData:       req.QuizData,
	}

	id, err := s.quizRepo.RecordAttempt(ctx, attempt)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("userID", userID).Str("subject", req.SubjectID).Float64("score", score).Msg("Quiz attempt recorded")
	return id, nil
}

// History returns one page of the user's attempts, newest first
func (s *QuizService) History(ctx context.Context, userID int64, page, size int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	attempts, total, err := s.quizRepo.ListAttempts(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedResponse{
		Items:      attempts,
		Pagination: helpers.NewPaginationInfo(total, page, int(limit)),
	}, nil
}

// ListQuizzes returns catalog quizzes, optionally for one subject
func (s *QuizService) ListQuizzes(ctx context.Context, subjectID string) ([]models.Quiz, error) {
	return s.quizRepo.ListQuizzes(ctx, subjectID)
}

// GetQuiz returns a catalog quiz with its questions
func (s *QuizService) GetQuiz(ctx context.Context, id int64) (*models.Quiz, error) {
	return s.quizRepo.GetQuiz(ctx, id)
}
