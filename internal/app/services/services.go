// Package services holds the business rules behind each API resource.
//
// Services defined in this package:
//   - AuthService: registration, login and token checks
//   - ProfileService: the learning profile of a user
//   - StudyPlanService: plan generation, the nested plan view and session edits
//   - ParentService: linking a parent to a student and reading the child's data
//   - QuizService, FlashcardService, ProgressService: learning trackers
//   - NotificationService, CurriculumService: shared announcements and topics
package services

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/repositories"
	"github.com/yigit/acetrack/internal/pkg/auth"
	"github.com/yigit/acetrack/internal/pkg/srs"
)

// Services holds all the service instances
type Services struct {
	AuthService         *AuthService
	ProfileService      *ProfileService
	StudyPlanService    *StudyPlanService
	ParentService       *ParentService
	QuizService         *QuizService
	FlashcardService    *FlashcardService
	ProgressService     *ProgressService
	NotificationService *NotificationService
	CurriculumService   *CurriculumService
}

// Deps are the collaborators shared by the services
type Deps struct {
	Users         repositories.IUserRepository
	Profiles      repositories.IProfileRepository
	StudyPlans    repositories.IStudyPlanRepository
	Statistics    repositories.IStatisticsRepository
	Quizzes       repositories.IQuizRepository
	Flashcards    repositories.IFlashcardRepository
	Progress      repositories.IProgressRepository
	Notifications repositories.INotificationRepository
	Curriculum    repositories.ICurriculumRepository

	JWT    *auth.JWTService
	Hasher auth.PasswordHasher
	Codes  auth.CodeGenerator
	Logger zerolog.Logger

	// Publisher pushes new notifications to connected clients; optional
	Publisher NotificationPublisher
}

// NotificationPublisher delivers a stored notification to live listeners
type NotificationPublisher interface {
	Publish(n models.Notification)
}

type noopPublisher struct{}

func (noopPublisher) Publish(models.Notification) {}

// DepsFromRepositories fills the repository fields of Deps
func DepsFromRepositories(r *repositories.Repositories) Deps {
	return Deps{
		Users:         r.UserRepository,
		Profiles:      r.ProfileRepository,
		StudyPlans:    r.StudyPlanRepository,
		Statistics:    r.StatisticsRepository,
		Quizzes:       r.QuizRepository,
		Flashcards:    r.FlashcardRepository,
		Progress:      r.ProgressRepository,
		Notifications: r.NotificationRepository,
		Curriculum:    r.CurriculumRepository,
	}
}

// NewServices initializes all services
func NewServices(d Deps) *Services {
	if d.Hasher == nil {
		d.Hasher = auth.NewBcryptHasher()
	}
	if d.Codes == nil {
		d.Codes = auth.RandomCodeGenerator{}
	}
	if d.Publisher == nil {
		d.Publisher = noopPublisher{}
	}

	plans := NewStudyPlanService(d.StudyPlans, d.Logger)

	return &Services{
		AuthService:         NewAuthService(d.Users, d.Profiles, d.JWT, d.Hasher, d.Codes, d.Logger),
		ProfileService:      NewProfileService(d.Profiles, d.Logger),
		StudyPlanService:    plans,
		ParentService:       NewParentService(d.Users, d.Profiles, d.Progress, d.Statistics, plans, d.Logger),
		QuizService:         NewQuizService(d.Quizzes, d.Logger),
		FlashcardService:    NewFlashcardService(d.Flashcards, srs.NewScheduler(), d.Logger),
		ProgressService:     NewProgressService(d.Progress, d.Logger),
		NotificationService: NewNotificationService(d.Notifications, d.Logger),
		CurriculumService:   NewCurriculumService(d.Curriculum, d.Publisher, d.Logger),
	}
}

// clock is embedded by services that stamp times
type clock struct {
	now func() time.Time
}

func systemClock() clock {
	return clock{now: time.Now}
}
