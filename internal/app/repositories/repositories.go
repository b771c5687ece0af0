package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/yigit/acetrack/internal/db"
)

// rowScanner is implemented by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	ProfileRepository      *ProfileRepository
	StudyPlanRepository    *StudyPlanRepository
	StatisticsRepository   *StatisticsRepository
	QuizRepository         *QuizRepository
	FlashcardRepository    *FlashcardRepository
	ProgressRepository     *ProgressRepository
	NotificationRepository *NotificationRepository
	CurriculumRepository   *CurriculumRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(database),
		ProfileRepository:      NewProfileRepository(database),
		StudyPlanRepository:    NewStudyPlanRepository(database),
		StatisticsRepository:   NewStatisticsRepository(database),
		QuizRepository:         NewQuizRepository(database),
		FlashcardRepository:    NewFlashcardRepository(database),
		ProgressRepository:     NewProgressRepository(database),
		NotificationRepository: NewNotificationRepository(database),
		CurriculumRepository:   NewCurriculumRepository(database),
	}
}
