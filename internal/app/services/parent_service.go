package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/repositories"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/helpers"
)

// ParentService links parents to students and reads the linked student's data
type ParentService struct {
	userRepo     repositories.IUserRepository
	profileRepo  repositories.IProfileRepository
	progressRepo repositories.IProgressRepository
	statsRepo    repositories.IStatisticsRepository
	plans        *StudyPlanService
	logger       zerolog.Logger
}

// NewParentService creates a new ParentService
func NewParentService(
	userRepo repositories.IUserRepository,
	profileRepo repositories.IProfileRepository,
	progressRepo repositories.IProgressRepository,
	statsRepo repositories.IStatisticsRepository,
	plans *StudyPlanService,
	logger zerolog.Logger,
) *ParentService {
	return &ParentService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		progressRepo: progressRepo,
		statsRepo:    statsRepo,
		plans:        plans,
		logger:       logger,
	}
}

// LinkStudent points the parent at the student owning the code. Unlike
// registration, a code that does not resolve is an error.
func (s *ParentService) LinkStudent(ctx context.Context, parentID int64, req *dto.LinkStudentRequest) (int64, error) {
	code := helpers.NormalizeStudentCode(req.StudentCode)
	if code == "" {
		return 0, apperrors.ErrStudentCodeMissing
	}

	studentID, err := s.userRepo.FindStudentIDByCode(ctx, code)
	if err != nil {
		return 0, err
	}

	var relationship *string
	if req.Relationship != nil {
		relationship = helpers.OptionalString(*req.Relationship)
	}

	if err := s.userRepo.LinkStudent(ctx, parentID, studentID, relationship); err != nil {
		return 0, err
	}
	return studentID, nil
}

// ChildData returns the linked student's profile, current plan view with
// statistics attached, progress and statistics. Missing parts are nil.
func (s *ParentService) ChildData(ctx context.Context, parentID int64) (*dto.ChildDataResponse, error) {
	studentID, err := s.userRepo.GetLinkedStudentID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ChildDataResponse{StudentID: studentID}

	resp.Profile, err = s.profileRepo.GetByUserID(ctx, studentID)
	if err != nil && !errors.Is(err, apperrors.ErrProfileNotFound) {
		return nil, err
	}

	plan, err := s.plans.GetCurrent(ctx, studentID)
	if err != nil && !errors.Is(err, apperrors.ErrStudyPlanNotFound) {
		return nil, err
	}

	resp.Progress, err = s.progressRepo.ListByUser(ctx, studentID)
	if err != nil {
		return nil, err
	}

	resp.Statistics, err = s.statsRepo.GetByUserID(ctx, studentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, fmt.Errorf("failed to read statistics: %w", err)
		}
		resp.Statistics = nil
	}

	if plan != nil {
		resp.StudyPlan = withStatistics(plan, resp.Statistics)
	}
	return resp, nil
}

func withStatistics(plan *models.StudyPlan, stats *models.Statistics) *dto.PlanWithStatistics {
	out := &dto.PlanWithStatistics{StudyPlan: plan}
	if stats != nil {
		out.CurrentStreak = &stats.CurrentStreak
		out.LongestStreak = &stats.LongestStreak
		out.TotalStudyTime = &stats.TotalStudyTime
		out.AverageQuizScore = &stats.AverageQuizScore
	}
	return out
}
