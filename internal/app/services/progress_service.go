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
)

// ProgressService tracks per-topic study progress
type ProgressService struct {
	progressRepo repositories.IProgressRepository
	logger       zerolog.Logger
	clock
}

// NewProgressService creates a new ProgressService
func NewProgressService(progressRepo repositories.IProgressRepository, logger zerolog.Logger) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		logger:       logger,
		clock:        systemClock(),
	}
}

// List returns the user's progress on every topic
func (s *ProgressService) List(ctx context.Context, userID int64) ([]models.Progress, error) {
	return s.progressRepo.ListByUser(ctx, userID)
}

// Record adds study time to a topic and reports whether its progress row
// was created.
func (s *ProgressService) Record(ctx context.Context, userID int64, req *dto.UpdateProgressRequest) (*models.Progress, bool, error) {
	topic := strings.TrimSpace(req.TopicID)
	if topic == "" {
		return nil, false, fmt.Errorf("%w: Topic ID is required", apperrors.ErrValidationFailed)
	}
	if req.TimeSpent < 0 {
		return nil, false, fmt.Errorf("%w: time_spent must not be negative", apperrors.ErrValidationFailed)
	}

	return s.progressRepo.Record(ctx, userID, models.ProgressUpdate{
		TopicID:      topic,
		TimeSpent:    req.TimeSpent,
		MasteryLevel: req.MasteryLevel,
		StudiedAt:    s.now(),
	})
}
