package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/repositories"
)

// ProfileService reads and saves learning profiles
type ProfileService struct {
	profileRepo repositories.IProfileRepository
	logger      zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repositories.IProfileRepository, logger zerolog.Logger) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, logger: logger}
}

// Get returns the caller's profile
func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// Save creates or replaces the caller's profile and reports whether it was
// created.
func (s *ProfileService) Save(ctx context.Context, userID int64, req *dto.ProfileRequest) (*models.Profile, bool, error) {
	p := &models.Profile{
		UserID:              userID,
		Name:                req.Name,
		Class:               req.Class,
		Board:               req.Board,
		Stream:              req.Stream,
		LearningSpeed:       req.LearningSpeed,
		LearningStyle:       req.LearningStyle,
		StudyDuration:       req.StudyDuration,
		SelectedSubjects:    req.SelectedSubjects,
		SubjectDifficulties: req.SubjectDifficulties,
	}

	created, err := s.profileRepo.Upsert(ctx, p)
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().Int64("userID", userID).Bool("created", created).Msg("Profile saved")
	return p, created, nil
}
