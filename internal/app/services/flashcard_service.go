package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/repositories"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/srs"
)

// FlashcardService manages user flashcards and their review schedule
type FlashcardService struct {
	cardRepo  repositories.IFlashcardRepository
	scheduler *srs.Scheduler
	logger    zerolog.Logger
	clock
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(cardRepo repositories.IFlashcardRepository, scheduler *srs.Scheduler, logger zerolog.Logger) *FlashcardService {
	return &FlashcardService{
		cardRepo:  cardRepo,
		scheduler: scheduler,
		logger:    logger,
		clock:     systemClock(),
	}
}

// Subjects returns the subjects the user has cards for
func (s *FlashcardService) Subjects(ctx context.Context, userID int64) ([]string, error) {
	return s.cardRepo.ListSubjects(ctx, userID)
}

// BySubject returns the user's cards of one subject
func (s *FlashcardService) BySubject(ctx context.Context, userID int64, subjectID string) ([]models.Flashcard, error) {
	return s.cardRepo.ListBySubject(ctx, userID, subjectID)
}

// Create adds a card that is due today
func (s *FlashcardService) Create(ctx context.Context, userID int64, req *dto.CreateFlashcardRequest) (*models.Flashcard, error) {
	if req.SubjectID == "" || strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" {
		return nil, fmt.Errorf("%w: Missing required fields", apperrors.ErrValidationFailed)
	}

	difficulty := req.Difficulty
	switch difficulty {
	case "":
		difficulty = models.FlashcardMedium
	case models.FlashcardEasy, models.FlashcardMedium, models.FlashcardHard:
	default:
		return nil, fmt.Errorf("%w: difficulty must be one of easy, medium, hard", apperrors.ErrValidationFailed)
	}

	now := s.now()
	card := &models.Flashcard{
		UserID:         userID,
		SubjectID:      req.SubjectID,
		TopicID:        req.TopicID,
		Question:       req.Question,
		Answer:         req.Answer,
		Difficulty:     difficulty,
		NextReviewDate: models.NewDate(now),
		Memory:         srs.NewMemory(now),
	}

	if _, err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Review records the outcome of a review and schedules the next one
func (s *FlashcardService) Review(ctx context.Context, userID, cardID int64, correct bool) (*models.Flashcard, error) {
	now := s.now()
	card, err := s.cardRepo.Review(ctx, userID, cardID, func(card *models.Flashcard) {
		card.Memory = s.scheduler.Review(card.Memory, correct, now)
		card.NextReviewDate = srs.NextReviewDate(card.Memory)
		card.ReviewCount++
		if correct {
			card.CorrectCount++
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("flashcardID", cardID).
		Bool("correct", correct).
		Str("nextReview", card.NextReviewDate.String()).
		Msg("Flashcard reviewed")
	return card, nil
}

// Delete removes one of the user's cards
func (s *FlashcardService) Delete(ctx context.Context, userID, cardID int64) error {
	return s.cardRepo.Delete(ctx, userID, cardID)
}
