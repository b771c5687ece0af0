package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/testutil"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestServices(t *testing.T) (*Services, *testutil.Memory) {
	t.Helper()
	mem := testutil.NewMemory()
	svcs := NewServices(Deps{
		Users:         mem.Users,
		Profiles:      mem.Profiles,
		StudyPlans:    mem.StudyPlans,
		Statistics:    mem.Statistics,
		Quizzes:       mem.Quizzes,
		Flashcards:    mem.Flashcards,
		Progress:      mem.Progress,
		Notifications: mem.Notifications,
		Curriculum:    mem.Curriculum,
		JWT:           testutil.NewJWT(),
		Hasher:        testutil.FastHasher(),
		Logger:        zerolog.Nop(),
	})

	fixed := testutil.FixedClock(testNow)
	svcs.AuthService.now = fixed
	svcs.StudyPlanService.now = fixed
	svcs.FlashcardService.now = fixed
	svcs.ProgressService.now = fixed
	return svcs, mem
}

func register(t *testing.T, s *Services, req dto.RegisterRequest) *dto.AuthResponse {
	t.Helper()
	resp, err := s.AuthService.Register(context.Background(), &req)
	if err != nil {
		t.Fatalf("Register(%s): %v", req.Email, err)
	}
	return resp
}

func ptr[T any](v T) *T {
	return &v
}
