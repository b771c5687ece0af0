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
	"github.com/yigit/acetrack/internal/pkg/helpers"
)

// DefaultEstimatedHours is used when a topic is added without an estimate
const DefaultEstimatedHours = 1

// CurriculumService manages the shared curriculum
type CurriculumService struct {
	curriculumRepo repositories.ICurriculumRepository
	publisher      NotificationPublisher
	logger         zerolog.Logger
}

// NewCurriculumService creates a new CurriculumService
func NewCurriculumService(curriculumRepo repositories.ICurriculumRepository, publisher NotificationPublisher, logger zerolog.Logger) *CurriculumService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &CurriculumService{curriculumRepo: curriculumRepo, publisher: publisher, logger: logger}
}

// List returns every topic, newest first
func (s *CurriculumService) List(ctx context.Context) ([]models.CurriculumTopic, error) {
	return s.curriculumRepo.List(ctx)
}

// AddTopic adds a topic and announces it with a global notification
func (s *CurriculumService) AddTopic(ctx context.Context, req *dto.CreateTopicRequest) (*models.CurriculumTopic, error) {
	topic := &models.CurriculumTopic{
		Subject:        strings.TrimSpace(req.Subject),
		Chapter:        strings.TrimSpace(req.Chapter),
		Topic:          strings.TrimSpace(req.Topic),
		EstimatedHours: DefaultEstimatedHours,
	}
	if topic.Subject == "" || topic.Chapter == "" || topic.Topic == "" {
		return nil, fmt.Errorf("%w: Missing required fields", apperrors.ErrValidationFailed)
	}
	if req.EstimatedHours != nil {
		topic.EstimatedHours = *req.EstimatedHours
	}
	if req.Resources != nil {
		topic.Resources = helpers.OptionalString(*req.Resources)
	}

	announcement := &models.Notification{
		Title:   "New Curriculum Topic Added",
		Message: fmt.Sprintf("A new topic %q has been added to %s - %s.", topic.Topic, topic.Subject, topic.Chapter),
		Type:    models.NotificationCurriculum,
	}

	if _, err := s.curriculumRepo.CreateWithNotification(ctx, topic, announcement); err != nil {
		return nil, err
	}
	s.publisher.Publish(*announcement)
	return topic, nil
}

// DeleteTopic removes a topic
func (s *CurriculumService) DeleteTopic(ctx context.Context, id int64) error {
	return s.curriculumRepo.Delete(ctx, id)
}
