package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/testutil"
)

func TestQuizScore(t *testing.T) {
	cases := []struct {
		correct, total int
		want           float64
	}{
		{3, 4, 75},
		{1, 3, 33.33},
		{0, 5, 0},
		{2, 0, 0},
	}
	for _, tc := range cases {
		if got := QuizScore(tc.correct, tc.total); got != tc.want {
			t.Fatalf("QuizScore(%d, %d) = %v, want %v", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestRecordAttemptUpdatesStatistics(t *testing.T) {
	s, mem := newTestServices(t)
	ctx := context.Background()

	if _, err := s.QuizService.RecordAttempt(ctx, 1, &dto.RecordQuizAttemptRequest{
		SubjectID: "math", TotalQuestions: ptr(10), CorrectAnswers: ptr(6),
	}); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if _, err := s.QuizService.RecordAttempt(ctx, 1, &dto.RecordQuizAttemptRequest{
		SubjectID: "math", TotalQuestions: ptr(10), CorrectAnswers: ptr(1), Score: ptr(100.0),
	}); err != nil {
		t.Fatalf("second attempt: %v", err)
	}

	stats, err := mem.Statistics.GetByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if stats.TotalQuizzes != 2 || stats.AverageQuizScore != 80 {
		t.Fatalf("stats = %d quizzes avg %v, want 2 avg 80", stats.TotalQuizzes, stats.AverageQuizScore)
	}

	page, err := s.QuizService.History(ctx, 1, 1, 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	items := page.Items.([]models.QuizAttempt)
	if len(items) != 1 || items[0].Score != 100 {
		t.Fatalf("history page = %+v, want newest attempt first", items)
	}
	if page.Pagination.TotalItems != 2 || page.Pagination.TotalPages != 2 {
		t.Fatalf("pagination = %+v", page.Pagination)
	}
}

func TestRecordAttemptValidation(t *testing.T) {
	s, _ := newTestServices(t)
	cases := []dto.RecordQuizAttemptRequest{
		{TotalQuestions: ptr(1), CorrectAnswers: ptr(1)},
		{SubjectID: "m", CorrectAnswers: ptr(1)},
		{SubjectID: "m", TotalQuestions: ptr(1)},
		{SubjectID: "m", TotalQuestions: ptr(2), CorrectAnswers: ptr(3)},
		{SubjectID: "m", TotalQuestions: ptr(0), CorrectAnswers: ptr(0)},
	}
	for _, req := range cases {
		if _, err := s.QuizService.RecordAttempt(context.Background(), 1, &req); !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Fatalf("RecordAttempt(%+v) err = %v", req, err)
		}
	}
}

func TestQuizCatalog(t *testing.T) {
	s, mem := newTestServices(t)
	ctx := context.Background()

	id := mem.AddQuiz(models.Quiz{SubjectID: "physics", Title: "Motion", Questions: []models.QuizQuestion{
		{Question: "v = ?", Options: []byte(`["d/t","t/d"]`), CorrectAnswer: []byte(`0`)},
	}})
	mem.AddQuiz(models.Quiz{SubjectID: "chemistry", Title: "Atoms"})

	list, err := s.QuizService.ListQuizzes(ctx, "physics")
	if err != nil || len(list) != 1 || list[0].ID != id {
		t.Fatalf("ListQuizzes = %+v (err %v)", list, err)
	}

	quiz, err := s.QuizService.GetQuiz(ctx, id)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if len(quiz.Questions) != 1 || string(quiz.Questions[0].Options) != `["d/t","t/d"]` {
		t.Fatalf("questions = %+v", quiz.Questions)
	}

	if _, err := s.QuizService.GetQuiz(ctx, 999); !errors.Is(err, apperrors.ErrQuizNotFound) {
		t.Fatalf("missing quiz err = %v", err)
	}
}

func TestFlashcardLifecycle(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	card, err := s.FlashcardService.Create(ctx, 1, &dto.CreateFlashcardRequest{
		SubjectID: "physics", TopicID: ptr("motion"), Question: "Define velocity", Answer: "ds/dt",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if card.Difficulty != models.FlashcardMedium || card.NextReviewDate.String() != "2025-03-10" {
		t.Fatalf("unexpected new card: %+v", card)
	}

	if _, err := s.FlashcardService.Create(ctx, 1, &dto.CreateFlashcardRequest{
		SubjectID: "chemistry", Question: "H2O?", Answer: "water", Difficulty: "easy",
	}); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	subjects, err := s.FlashcardService.Subjects(ctx, 1)
	if err != nil || len(subjects) != 2 || subjects[0] != "chemistry" {
		t.Fatalf("Subjects = %v (err %v)", subjects, err)
	}

	reviewed, err := s.FlashcardService.Review(ctx, 1, card.ID, true)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if reviewed.ReviewCount != 1 || reviewed.CorrectCount != 1 || reviewed.Memory.Reps != 1 {
		t.Fatalf("counters after correct review: %+v", reviewed)
	}
	if reviewed.NextReviewDate.Before(card.NextReviewDate) {
		t.Fatalf("next review moved back: %s", reviewed.NextReviewDate)
	}

	missed, err := s.FlashcardService.Review(ctx, 1, card.ID, false)
	if err != nil {
		t.Fatalf("Review wrong: %v", err)
	}
	if missed.ReviewCount != 2 || missed.CorrectCount != 1 {
		t.Fatalf("counters after wrong review: %+v", missed)
	}

	if _, err := s.FlashcardService.Review(ctx, 2, card.ID, true); !errors.Is(err, apperrors.ErrFlashcardNotFound) {
		t.Fatalf("foreign review err = %v", err)
	}
	if err := s.FlashcardService.Delete(ctx, 2, card.ID); !errors.Is(err, apperrors.ErrFlashcardNotFound) {
		t.Fatalf("foreign delete err = %v", err)
	}
	if err := s.FlashcardService.Delete(ctx, 1, card.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	cards, _ := s.FlashcardService.BySubject(ctx, 1, "physics")
	if len(cards) != 0 {
		t.Fatalf("card still listed after delete")
	}
}

func TestConcurrentReviewsAreAllCounted(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	card, err := s.FlashcardService.Create(ctx, 1, &dto.CreateFlashcardRequest{SubjectID: "math", Question: "2+2", Answer: "4"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const reviews = 20
	var wg sync.WaitGroup
	for i := 0; i < reviews; i++ {
		wg.Add(1)
		go func(correct bool) {
			defer wg.Done()
			if _, err := s.FlashcardService.Review(ctx, 1, card.ID, correct); err != nil {
				t.Errorf("Review: %v", err)
			}
		}(i%2 == 0)
	}
	wg.Wait()

	cards, err := s.FlashcardService.BySubject(ctx, 1, "math")
	if err != nil || len(cards) != 1 {
		t.Fatalf("BySubject = %v (err %v)", cards, err)
	}
	if cards[0].ReviewCount != reviews || cards[0].CorrectCount != reviews/2 {
		t.Fatalf("counters = %d/%d, want %d/%d", cards[0].ReviewCount, cards[0].CorrectCount, reviews, reviews/2)
	}
	if cards[0].Memory.Reps != reviews {
		t.Fatalf("reps = %d, want %d", cards[0].Memory.Reps, reviews)
	}
}

func TestFlashcardCreateValidation(t *testing.T) {
	s, _ := newTestServices(t)
	_, err := s.FlashcardService.Create(context.Background(), 1, &dto.CreateFlashcardRequest{
		SubjectID: "x", Question: "q", Answer: "a", Difficulty: "extreme",
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v", err)
	}
}

func TestProgressRecord(t *testing.T) {
	s, mem := newTestServices(t)
	ctx := context.Background()

	p, created, err := s.ProgressService.Record(ctx, 1, &dto.UpdateProgressRequest{TopicID: "algebra", TimeSpent: 30})
	if err != nil || !created {
		t.Fatalf("first Record created=%v err=%v", created, err)
	}
	if p.MasteryLevel != 0 {
		t.Fatalf("default mastery = %d", p.MasteryLevel)
	}

	p, created, err = s.ProgressService.Record(ctx, 1, &dto.UpdateProgressRequest{TopicID: "algebra", TimeSpent: 15, MasteryLevel: ptr(60)})
	if err != nil || created {
		t.Fatalf("second Record created=%v err=%v", created, err)
	}
	if p.TimeSpent != 45 || p.MasteryLevel != 60 {
		t.Fatalf("progress = %+v", p)
	}

	stats, _ := mem.Statistics.GetByUserID(ctx, 1)
	if stats.TotalStudyTime != 45 || stats.CurrentStreak != 1 || stats.LastStudyDate.String() != "2025-03-10" {
		t.Fatalf("stats = %+v", stats)
	}

	if _, _, err := s.ProgressService.Record(ctx, 1, &dto.UpdateProgressRequest{TopicID: " "}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("blank topic err = %v", err)
	}
}

func TestNotifications(t *testing.T) {
	s, mem := newTestServices(t)
	ctx := context.Background()

	global := mem.AddNotification(models.Notification{Title: "all", Message: "m", Type: models.NotificationInfo})
	mine := mem.AddNotification(models.Notification{UserID: ptr(int64(1)), Title: "mine", Message: "m", Type: models.NotificationInfo})
	theirs := mem.AddNotification(models.Notification{UserID: ptr(int64(2)), Title: "theirs", Message: "m", Type: models.NotificationInfo})

	feed, err := s.NotificationService.Feed(ctx, 1)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(feed) != 2 || feed[0].ID != mine || feed[1].ID != global {
		t.Fatalf("feed = %+v", feed)
	}

	if err := s.NotificationService.MarkRead(ctx, 1, theirs); !errors.Is(err, apperrors.ErrNotificationNotFound) {
		t.Fatalf("foreign mark read err = %v", err)
	}
	if err := s.NotificationService.MarkRead(ctx, 1, global); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if n, _ := mem.Notification(global); !n.IsRead {
		t.Fatalf("global notification not marked read")
	}
}

func TestCurriculum(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	topic, err := s.CurriculumService.AddTopic(ctx, &dto.CreateTopicRequest{Subject: "Physics", Chapter: "Kinematics", Topic: "Projectiles"})
	if err != nil {
		t.Fatalf("AddTopic: %v", err)
	}
	if topic.EstimatedHours != DefaultEstimatedHours {
		t.Fatalf("estimated hours = %v", topic.EstimatedHours)
	}

	feed, _ := s.NotificationService.Feed(ctx, 42)
	if len(feed) != 1 || feed[0].Type != models.NotificationCurriculum || feed[0].UserID != nil {
		t.Fatalf("announcement missing: %+v", feed)
	}

	_, err = s.CurriculumService.AddTopic(ctx, &dto.CreateTopicRequest{Subject: "Physics", Chapter: "Kinematics", Topic: "Projectiles"})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("duplicate topic err = %v", err)
	}
	if _, err := s.CurriculumService.AddTopic(ctx, &dto.CreateTopicRequest{Subject: "Physics"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("incomplete topic err = %v", err)
	}

	if err := s.CurriculumService.DeleteTopic(ctx, topic.ID); err != nil {
		t.Fatalf("DeleteTopic: %v", err)
	}
	if err := s.CurriculumService.DeleteTopic(ctx, topic.ID); !errors.Is(err, apperrors.ErrTopicNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

type recordingPublisher struct {
	published []models.Notification
}

func (p *recordingPublisher) Publish(n models.Notification) {
	p.published = append(p.published, n)
}

func TestAddTopicPublishesAnnouncement(t *testing.T) {
	mem := testutil.NewMemory()
	pub := &recordingPublisher{}
	svc := NewCurriculumService(mem.Curriculum, pub, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.AddTopic(ctx, &dto.CreateTopicRequest{Subject: "Biology", Chapter: "Cells", Topic: "Mitosis"}); err != nil {
		t.Fatalf("AddTopic: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d notifications, want 1", len(pub.published))
	}
	n := pub.published[0]
	if n.ID == 0 || n.UserID != nil || n.Type != models.NotificationCurriculum {
		t.Fatalf("unexpected published notification: %+v", n)
	}

	if _, err := svc.AddTopic(ctx, &dto.CreateTopicRequest{Subject: "Biology", Chapter: "Cells", Topic: "Mitosis"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if len(pub.published) != 1 {
		t.Fatalf("failed insert was published")
	}
}

func TestProfileSaveAndGet(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()
	user := register(t, s, dto.RegisterRequest{Email: "a@test.com", Password: "secret1", Name: "A"})

	if _, err := s.ProfileService.Get(ctx, user.UserID); !errors.Is(err, apperrors.ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}

	_, created, err := s.ProfileService.Save(ctx, user.UserID, &dto.ProfileRequest{
		Class: ptr("12"), SelectedSubjects: []byte(`["physics","math"]`),
	})
	if err != nil || !created {
		t.Fatalf("first Save created=%v err=%v", created, err)
	}
	_, created, err = s.ProfileService.Save(ctx, user.UserID, &dto.ProfileRequest{Class: ptr("11")})
	if err != nil || created {
		t.Fatalf("second Save created=%v err=%v", created, err)
	}

	p, err := s.ProfileService.Get(ctx, user.UserID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *p.Class != "11" || p.Email != "a@test.com" || p.StudentCode == nil || *p.StudentCode != *user.StudentCode {
		t.Fatalf("profile = %+v", p)
	}
}
