package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
)

func TestParentScenario(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	student := register(t, s, dto.RegisterRequest{Email: "a@test.com", Password: "secret1", Name: "A"})
	parent := register(t, s, dto.RegisterRequest{
		Email: "b@test.com", Password: "secret1", Name: "B", UserType: "parent", StudentCode: *student.StudentCode,
	})
	if parent.StudentID == nil || *parent.StudentID != student.UserID {
		t.Fatalf("parent student_id = %v, want %d", parent.StudentID, student.UserID)
	}

	if _, err := s.StudyPlanService.Create(ctx, student.UserID, &dto.CreateStudyPlanRequest{
		StartDate: "2025-01-01", EndDate: "2025-01-01", TotalDays: 1,
		Days: []dto.DayRequest{{Date: "2025-01-01", Sessions: []dto.SessionRequest{
			{SubjectID: "physics", SubjectName: "Physics", TopicID: ptr("kinematics"), Duration: 50},
		}}},
	}); err != nil {
		t.Fatalf("Create plan: %v", err)
	}
	if _, err := s.QuizService.RecordAttempt(ctx, student.UserID, &dto.RecordQuizAttemptRequest{
		SubjectID: "physics", TotalQuestions: ptr(4), CorrectAnswers: ptr(3),
	}); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}

	data, err := s.ParentService.ChildData(ctx, parent.UserID)
	if err != nil {
		t.Fatalf("ChildData: %v", err)
	}
	if data.StudentID != student.UserID || data.Profile != nil || data.Statistics == nil {
		t.Fatalf("unexpected child data: %+v", data)
	}
	if data.StudyPlan == nil || len(data.StudyPlan.DailyPlans) != 1 {
		t.Fatalf("missing plan: %+v", data.StudyPlan)
	}
	session := data.StudyPlan.DailyPlans[0].Sessions[0]
	if session.SubjectID != "physics" || session.Duration != 50 || *session.TopicID != "kinematics" {
		t.Fatalf("unexpected nested session: %+v", session)
	}
	if data.StudyPlan.AverageQuizScore == nil || *data.StudyPlan.AverageQuizScore != 75 {
		t.Fatalf("statistics not attached to plan: %+v", data.StudyPlan)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		StudyPlan struct {
			ID               int64   `json:"id"`
			AverageQuizScore float64 `json:"average_quiz_score"`
			DailyPlans       []struct {
				Sessions []struct {
					SubjectID string `json:"subject_id"`
				} `json:"sessions"`
			} `json:"daily_plans"`
		} `json:"studyPlan"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.StudyPlan.ID == 0 || decoded.StudyPlan.DailyPlans[0].Sessions[0].SubjectID != "physics" {
		t.Fatalf("plan fields not flattened into studyPlan: %s", raw)
	}
}

func TestChildDataWithoutStatistics(t *testing.T) {
	s, mem := newTestServices(t)
	ctx := context.Background()

	student := register(t, s, dto.RegisterRequest{Email: "a@test.com", Password: "secret1", Name: "A"})
	parent := register(t, s, dto.RegisterRequest{
		Email: "p@test.com", Password: "secret1", Name: "P", UserType: "parent", StudentCode: *student.StudentCode,
	})
	if _, err := s.StudyPlanService.Create(ctx, student.UserID, &dto.CreateStudyPlanRequest{
		StartDate: "2025-01-01", EndDate: "2025-01-01", TotalDays: 1, Subjects: []string{"math"},
	}); err != nil {
		t.Fatalf("Create plan: %v", err)
	}
	mem.DropStatistics(student.UserID)

	data, err := s.ParentService.ChildData(ctx, parent.UserID)
	if err != nil {
		t.Fatalf("ChildData: %v", err)
	}
	if data.Statistics != nil || data.StudyPlan == nil {
		t.Fatalf("unexpected child data: %+v", data)
	}

	raw, err := json.Marshal(data.StudyPlan)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"current_streak", "longest_streak", "total_study_time", "average_quiz_score"} {
		if _, ok := fields[key]; ok {
			t.Fatalf("%s present without statistics: %s", key, raw)
		}
	}
	if _, ok := fields["daily_plans"]; !ok {
		t.Fatalf("plan fields missing: %s", raw)
	}
}

func TestChildDataZeroStatisticsAreKept(t *testing.T) {
	s, _ := newTestServices(t)
	student := register(t, s, dto.RegisterRequest{Email: "a@test.com", Password: "secret1", Name: "A"})
	parent := register(t, s, dto.RegisterRequest{
		Email: "p@test.com", Password: "secret1", Name: "P", UserType: "parent", StudentCode: *student.StudentCode,
	})
	if _, err := s.StudyPlanService.Create(context.Background(), student.UserID, &dto.CreateStudyPlanRequest{
		StartDate: "2025-01-01", EndDate: "2025-01-01", TotalDays: 1,
	}); err != nil {
		t.Fatalf("Create plan: %v", err)
	}

	data, err := s.ParentService.ChildData(context.Background(), parent.UserID)
	if err != nil {
		t.Fatalf("ChildData: %v", err)
	}
	raw, _ := json.Marshal(data.StudyPlan)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(fields["current_streak"]) != "0" || string(fields["average_quiz_score"]) != "0" {
		t.Fatalf("zero counters dropped: %s", raw)
	}
}

func TestChildDataWithoutLink(t *testing.T) {
	s, _ := newTestServices(t)
	parent := register(t, s, dto.RegisterRequest{Email: "p@test.com", Password: "secret1", Name: "P", UserType: "parent"})

	if _, err := s.ParentService.ChildData(context.Background(), parent.UserID); !errors.Is(err, apperrors.ErrNoLinkedStudent) {
		t.Fatalf("err = %v, want ErrNoLinkedStudent", err)
	}
}

func TestChildDataWithoutPlan(t *testing.T) {
	s, _ := newTestServices(t)
	student := register(t, s, dto.RegisterRequest{Email: "a@test.com", Password: "secret1", Name: "A"})
	parent := register(t, s, dto.RegisterRequest{
		Email: "p@test.com", Password: "secret1", Name: "P", UserType: "parent", StudentEmail: "a@test.com",
	})

	data, err := s.ParentService.ChildData(context.Background(), parent.UserID)
	if err != nil {
		t.Fatalf("ChildData: %v", err)
	}
	if data.StudentID != student.UserID || data.StudyPlan != nil || data.Progress == nil {
		t.Fatalf("unexpected child data: %+v", data)
	}
}

func TestLinkStudent(t *testing.T) {
	s, mem := newTestServices(t)
	ctx := context.Background()

	student := register(t, s, dto.RegisterRequest{Email: "a@test.com", Password: "secret1", Name: "A"})
	parent := register(t, s, dto.RegisterRequest{
		Email: "p@test.com", Password: "secret1", Name: "P", UserType: "parent", Relationship: ptr("father"),
	})

	if _, err := s.ParentService.LinkStudent(ctx, parent.UserID, &dto.LinkStudentRequest{StudentCode: "  "}); !errors.Is(err, apperrors.ErrStudentCodeMissing) {
		t.Fatalf("missing code err = %v", err)
	}

	_, err := s.ParentService.LinkStudent(ctx, parent.UserID, &dto.LinkStudentRequest{StudentCode: "ACE-000000"})
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("unknown code err = %v, want ErrStudentNotFound", err)
	}
	if u, _ := mem.Users.GetByID(ctx, parent.UserID); u.StudentID != nil {
		t.Fatalf("failed link changed student_id")
	}

	id, err := s.ParentService.LinkStudent(ctx, parent.UserID, &dto.LinkStudentRequest{StudentCode: " " + *student.StudentCode})
	if err != nil {
		t.Fatalf("LinkStudent: %v", err)
	}
	u, _ := mem.Users.GetByID(ctx, parent.UserID)
	if id != student.UserID || u.StudentID == nil || *u.StudentID != student.UserID {
		t.Fatalf("link not stored: %+v", u)
	}
	if u.Relationship == nil || *u.Relationship != "father" {
		t.Fatalf("relationship lost: %v", u.Relationship)
	}
}
