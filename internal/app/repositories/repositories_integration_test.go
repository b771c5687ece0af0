package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/acetrack/internal/app/migrations"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/db"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
)

var userSeq atomic.Int64

func openTestDB(t *testing.T) *db.PostgresDB {
	t.Helper()
	url := os.Getenv("ACETRACK_TEST_DB")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		t.Skip("ACETRACK_TEST_DB or DATABASE_URL not set")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Skipf("db unavailable: %v", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("db unavailable: %v", err)
		return nil
	}
	if err := migrations.NewMigrator(pool).Migrate(ctx, migrations.Files()); err != nil {
		pool.Close()
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(pool.Close)
	return &db.PostgresDB{Pool: pool}
}

// createStudent registers a fresh student and removes it, with everything
// it owns, when the test ends.
func createStudent(t *testing.T, database *db.PostgresDB) *models.User {
	t.Helper()
	u := &models.User{
		Email:        fmt.Sprintf("it-%d-%d@test.com", time.Now().UnixNano(), userSeq.Add(1)),
		PasswordHash: "x",
		Name:         "Integration",
		UserType:     models.RoleStudent,
	}
	if err := NewUserRepository(database).CreateWithStatistics(context.Background(), u); err != nil {
		t.Fatalf("CreateWithStatistics: %v", err)
	}
	t.Cleanup(func() {
		_, _ = database.Pool.Exec(context.Background(), "DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

func countRows(t *testing.T, database *db.PostgresDB, table string, userID int64) int {
	t.Helper()
	var n int
	err := database.Pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM "+table+" WHERE user_id = $1", userID).Scan(&n)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func twoDayPlan(userID int64, secondSubject string) *models.StudyPlan {
	start := models.NewDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	return &models.StudyPlan{
		UserID:    userID,
		StartDate: start,
		EndDate:   start.AddDays(1),
		TotalDays: 2,
		DailyPlans: []models.DailyPlan{
			{Date: start, DayNumber: 1, Sessions: []models.StudySession{
				{SubjectID: "physics", SubjectName: "Physics", Duration: 60},
			}},
			{Date: start.AddDays(1), DayNumber: 2, Sessions: []models.StudySession{
				{SubjectID: "chemistry", SubjectName: "Chemistry", Duration: 45},
				{SubjectID: secondSubject, SubjectName: "Second", Duration: 30},
			}},
		},
	}
}

func TestCreateWithStatisticsCreatesStatsRow(t *testing.T) {
	database := openTestDB(t)
	u := createStudent(t, database)

	if n := countRows(t, database, "user_statistics", u.ID); n != 1 {
		t.Fatalf("statistics rows = %d, want 1", n)
	}

	dup := &models.User{Email: u.Email, PasswordHash: "x", Name: "Dup", UserType: models.RoleStudent}
	err := NewUserRepository(database).CreateWithStatistics(context.Background(), dup)
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("duplicate email err = %v", err)
	}
}

func TestCreatePlanRollsBackOnSessionFailure(t *testing.T) {
	database := openTestDB(t)
	u := createStudent(t, database)
	repo := NewStudyPlanRepository(database)

	// subject_id is VARCHAR(100); the last session of day two overflows it.
	if _, err := repo.CreatePlan(context.Background(), twoDayPlan(u.ID, strings.Repeat("x", 101))); err == nil {
		t.Fatalf("expected insert failure")
	}

	for _, table := range []string{"study_plans", "daily_plans", "study_sessions"} {
		if n := countRows(t, database, table, u.ID); n != 0 {
			t.Fatalf("%s rows after failed plan = %d, want 0", table, n)
		}
	}

	plan := twoDayPlan(u.ID, "biology")
	id, err := repo.CreatePlan(context.Background(), plan)
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	days, err := repo.ListDailyPlans(context.Background(), id)
	if err != nil || len(days) != 2 {
		t.Fatalf("daily plans = %d, %v", len(days), err)
	}
	sessions, err := repo.ListSessions(context.Background(), days[1].ID)
	if err != nil || len(sessions) != 2 || sessions[1].SubjectID != "biology" {
		t.Fatalf("sessions = %+v, %v", sessions, err)
	}
}

func TestUpdateSessionOwnershipAndCompletion(t *testing.T) {
	database := openTestDB(t)
	owner := createStudent(t, database)
	other := createStudent(t, database)
	repo := NewStudyPlanRepository(database)
	ctx := context.Background()

	plan := twoDayPlan(owner.ID, "biology")
	if _, err := repo.CreatePlan(ctx, plan); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	sessionID := plan.DailyPlans[0].Sessions[0].ID

	done := true
	at := time.Now().UTC().Truncate(time.Second)
	upd := models.SessionUpdate{Completed: &done, CompletedAt: &at}

	if _, err := repo.UpdateSession(ctx, other.ID, sessionID, upd); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("cross-user update err = %v", err)
	}

	s, err := repo.UpdateSession(ctx, owner.ID, sessionID, upd)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !s.Completed || s.CompletedAt == nil || !s.CompletedAt.Equal(at) {
		t.Fatalf("completed session = %+v", s)
	}

	undone := false
	s, err = repo.UpdateSession(ctx, owner.ID, sessionID, models.SessionUpdate{Completed: &undone})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if s.Completed || s.CompletedAt != nil {
		t.Fatalf("reopened session kept its timestamp: %+v", s)
	}

	minutes := 90
	s, err = repo.UpdateSession(ctx, owner.ID, sessionID, models.SessionUpdate{Duration: &minutes})
	if err != nil || s.Duration != 90 || s.Completed {
		t.Fatalf("duration update = %+v, %v", s, err)
	}

	if _, err := repo.UpdateSession(ctx, owner.ID, sessionID, models.SessionUpdate{}); !errors.Is(err, apperrors.ErrNoUpdates) {
		t.Fatalf("empty update err = %v", err)
	}
}

func TestConcurrentQuizAttemptsUpdateStatistics(t *testing.T) {
	database := openTestDB(t)
	u := createStudent(t, database)
	repo := NewQuizRepository(database)

	const attempts = 10
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.RecordAttempt(context.Background(), &models.QuizAttempt{
				UserID: u.ID, SubjectID: "physics", TotalQuestions: 4, CorrectAnswers: 2, Score: 50,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}

	stats, err := NewStatisticsRepository(database).GetByUserID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if stats.TotalQuizzes != attempts || stats.AverageQuizScore != 50 {
		t.Fatalf("statistics = %+v", stats)
	}
}

func TestConcurrentFlashcardReviewsAreSerialized(t *testing.T) {
	database := openTestDB(t)
	owner := createStudent(t, database)
	other := createStudent(t, database)
	repo := NewFlashcardRepository(database)
	ctx := context.Background()

	card := &models.Flashcard{
		UserID:         owner.ID,
		SubjectID:      "physics",
		Question:       "F = ?",
		Answer:         "ma",
		Difficulty:     "medium",
		NextReviewDate: models.NewDate(time.Now()),
		Memory:         models.FlashcardMemory{Due: time.Now()},
	}
	if _, err := repo.Create(ctx, card); err != nil {
		t.Fatalf("Create: %v", err)
	}

	bump := func(c *models.Flashcard) {
		c.ReviewCount++
		c.CorrectCount++
	}

	if _, err := repo.Review(ctx, other.ID, card.ID, bump); !errors.Is(err, apperrors.ErrFlashcardNotFound) {
		t.Fatalf("cross-user review err = %v", err)
	}

	const reviews = 10
	var wg sync.WaitGroup
	errs := make(chan error, reviews)
	for i := 0; i < reviews; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Review(context.Background(), owner.ID, card.ID, bump)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Review: %v", err)
		}
	}

	final, err := repo.Review(ctx, owner.ID, card.ID, func(*models.Flashcard) {})
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if final.ReviewCount != reviews || final.CorrectCount != reviews {
		t.Fatalf("counters = %d/%d, want %d", final.ReviewCount, final.CorrectCount, reviews)
	}
}
