package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/routes"
	"github.com/yigit/acetrack/internal/app/services"
	"github.com/yigit/acetrack/internal/bootstrap"
	"github.com/yigit/acetrack/internal/middleware"
	"github.com/yigit/acetrack/internal/pkg/validation"
	"github.com/yigit/acetrack/internal/pkg/websocket"
	"github.com/yigit/acetrack/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	mem    *testutil.Memory
	hub    *websocket.Hub
}

func newTestAPI(t *testing.T, ping pingFunc) *testAPI {
	t.Helper()
	if err := validation.RegisterCustomRules(); err != nil {
		t.Fatalf("RegisterCustomRules: %v", err)
	}
	if ping == nil {
		ping = func(context.Context) error { return nil }
	}

	mem := testutil.NewMemory()
	jwt := testutil.NewJWT()

	hub := websocket.NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	svcs := services.NewServices(services.Deps{
		Users:         mem.Users,
		Profiles:      mem.Profiles,
		StudyPlans:    mem.StudyPlans,
		Statistics:    mem.Statistics,
		Quizzes:       mem.Quizzes,
		Flashcards:    mem.Flashcards,
		Progress:      mem.Progress,
		Notifications: mem.Notifications,
		Curriculum:    mem.Curriculum,
		JWT:           jwt,
		Hasher:        testutil.FastHasher(),
		Publisher:     hub,
		Logger:        zerolog.Nop(),
	})

	router := gin.New()
	routes.SetupRouter(router, bootstrap.NewControllers(svcs, ping, hub, zerolog.Nop()), middleware.NewAuthMiddleware(jwt))
	return &testAPI{t: t, router: router, mem: mem, hub: hub}
}

func (a *testAPI) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

type account struct {
	UserID      int64   `json:"user_id"`
	StudentID   *int64  `json:"student_id"`
	StudentCode *string `json:"student_code"`
	Token       string  `json:"token"`
}

func (a *testAPI) register(body map[string]any) account {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/auth/register", "", body)
	if status != http.StatusCreated || !env.Success {
		a.t.Fatalf("register %v: status %d message %q", body["email"], status, env.Message)
	}
	var acc account
	if err := json.Unmarshal(env.Data, &acc); err != nil {
		a.t.Fatalf("decode account: %v", err)
	}
	return acc
}

func TestParentSeesChildSessionOverHTTP(t *testing.T) {
	api := newTestAPI(t, nil)

	student := api.register(map[string]any{"email": "a@test.com", "password": "secret1", "name": "A"})
	if student.StudentCode == nil || !regexp.MustCompile(`^ACE-[A-Z0-9]{6}$`).MatchString(*student.StudentCode) {
		t.Fatalf("student code = %v", student.StudentCode)
	}

	parent := api.register(map[string]any{
		"email": "b@test.com", "password": "secret1", "name": "B",
		"user_type": "parent", "studentCode": *student.StudentCode,
	})
	if parent.StudentID == nil || *parent.StudentID != student.UserID {
		t.Fatalf("parent student_id = %v, want %d", parent.StudentID, student.UserID)
	}

	status, env := api.do(http.MethodPost, "/api/study-plan", student.Token, map[string]any{
		"start_date": "2025-03-01", "end_date": "2025-03-01", "total_days": 1,
		"days": []map[string]any{{
			"date": "2025-03-01", "burnoutLevel": 1,
			"sessions": []map[string]any{{"subjectId": "physics", "subjectName": "Physics", "topicId": "kinematics", "topicName": "Kinematics", "duration": 45}},
		}},
	})
	if status != http.StatusCreated {
		t.Fatalf("create plan status = %d (%s)", status, env.Message)
	}

	status, env = api.do(http.MethodGet, "/api/parent/child-data", parent.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("child-data status = %d (%s)", status, env.Message)
	}
	var child struct {
		StudentID int64 `json:"student_id"`
		StudyPlan struct {
			CurrentStreak int                `json:"current_streak"`
			DailyPlans    []models.DailyPlan `json:"daily_plans"`
		} `json:"studyPlan"`
		Progress []models.Progress `json:"progress"`
	}
	if err := json.Unmarshal(env.Data, &child); err != nil {
		t.Fatalf("decode child data: %v", err)
	}
	if child.StudentID != student.UserID {
		t.Fatalf("student_id = %d", child.StudentID)
	}
	if len(child.StudyPlan.DailyPlans) != 1 || len(child.StudyPlan.DailyPlans[0].Sessions) != 1 {
		t.Fatalf("unexpected plan shape: %+v", child.StudyPlan)
	}
	s := child.StudyPlan.DailyPlans[0].Sessions[0]
	if s.SubjectID != "physics" || s.Duration != 45 || s.TopicName == nil || *s.TopicName != "Kinematics" {
		t.Fatalf("session = %+v", s)
	}
	if child.Progress == nil {
		t.Fatalf("progress should be an empty list, not null")
	}
}

func TestAuthAndRoleGuards(t *testing.T) {
	api := newTestAPI(t, nil)
	student := api.register(map[string]any{"email": "s@test.com", "password": "secret1", "name": "S"})
	faculty := api.register(map[string]any{"email": "f@test.com", "password": "secret1", "name": "F", "user_type": "faculty"})

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"no token", http.MethodGet, "/api/study-plan", "", nil, http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/profile", "nope", nil, http.StatusUnauthorized},
		{"student on parent route", http.MethodGet, "/api/parent/child-data", student.Token, nil, http.StatusUnauthorized},
		{"student adds topic", http.MethodPost, "/api/curriculum", student.Token, map[string]any{"subject": "P", "chapter": "C", "topic": "T"}, http.StatusUnauthorized},
		{"faculty adds topic", http.MethodPost, "/api/curriculum", faculty.Token, map[string]any{"subject": "P", "chapter": "C", "topic": "T"}, http.StatusCreated},
		{"duplicate topic", http.MethodPost, "/api/curriculum", faculty.Token, map[string]any{"subject": "P", "chapter": "C", "topic": "T"}, http.StatusConflict},
		{"public curriculum", http.MethodGet, "/api/curriculum", "", nil, http.StatusOK},
		{"login wrong role", http.MethodPost, "/api/auth/login", "", map[string]any{"email": "s@test.com", "password": "secret1", "user_type": "parent"}, http.StatusUnauthorized},
		{"login", http.MethodPost, "/api/auth/login", "", map[string]any{"email": "S@test.com ", "password": "secret1"}, http.StatusOK},
		{"verify without token", http.MethodPost, "/api/auth/verify", "", map[string]any{}, http.StatusBadRequest},
		{"verify", http.MethodPost, "/api/auth/verify", "", map[string]any{"token": student.Token}, http.StatusOK},
		{"me", http.MethodGet, "/api/auth/me", student.Token, nil, http.StatusOK},
		{"duplicate email", http.MethodPost, "/api/auth/register", "", map[string]any{"email": "s@test.com", "password": "secret1", "name": "S"}, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := api.do(tc.method, tc.path, tc.token, tc.body)
			if status != tc.status {
				t.Fatalf("status = %d, want %d (%s)", status, tc.status, env.Message)
			}
			if env.Success != (status < http.StatusBadRequest) {
				t.Fatalf("success flag %v for status %d", env.Success, status)
			}
		})
	}
}

func TestStudyPlanEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	owner := api.register(map[string]any{"email": "o@test.com", "password": "secret1", "name": "O"})
	other := api.register(map[string]any{"email": "x@test.com", "password": "secret1", "name": "X"})

	if status, env := api.do(http.MethodGet, "/api/study-plan", owner.Token, nil); status != http.StatusNotFound || env.Message != "No active study plan found" {
		t.Fatalf("empty plan = %d %q", status, env.Message)
	}

	if status, _ := api.do(http.MethodPost, "/api/study-plan", owner.Token, map[string]any{"end_date": "2025-03-02", "total_days": 2}); status != http.StatusBadRequest {
		t.Fatalf("missing start_date status = %d", status)
	}
	if status, _ := api.do(http.MethodPost, "/api/study-plan", owner.Token, map[string]any{"start_date": "03/01/2025", "end_date": "2025-03-02", "total_days": 2}); status != http.StatusBadRequest {
		t.Fatalf("malformed date status = %d", status)
	}

	status, _ := api.do(http.MethodPost, "/api/study-plan", owner.Token, map[string]any{
		"start_date": "2025-03-01", "end_date": "2025-03-02", "total_days": 2, "subjects": []string{"math"},
	})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}

	_, env := api.do(http.MethodGet, "/api/study-plan", owner.Token, nil)
	var plan models.StudyPlan
	if err := json.Unmarshal(env.Data, &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if len(plan.DailyPlans) != 2 || plan.DailyPlans[1].Sessions[0].SubjectName != "Math" {
		t.Fatalf("generated plan = %+v", plan.DailyPlans)
	}
	sessionPath := "/api/study-plan/session/" + jsonNumber(plan.DailyPlans[0].Sessions[0].ID)

	if status, env := api.do(http.MethodPatch, sessionPath, owner.Token, map[string]any{}); status != http.StatusBadRequest || env.Message != "No updates provided" {
		t.Fatalf("empty update = %d %q", status, env.Message)
	}
	if status, _ := api.do(http.MethodPatch, sessionPath, other.Token, map[string]any{"completed": true}); status != http.StatusNotFound {
		t.Fatalf("foreign update status = %d", status)
	}
	if status, _ := api.do(http.MethodPut, sessionPath, owner.Token, map[string]any{"completed": true, "duration": 30}); status != http.StatusOK {
		t.Fatalf("update status = %d", status)
	}
	if status, _ := api.do(http.MethodPatch, "/api/study-plan/session/abc", owner.Token, map[string]any{"completed": true}); status != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", status)
	}
}

func TestCreateThenUpdateStatuses(t *testing.T) {
	api := newTestAPI(t, nil)
	user := api.register(map[string]any{"email": "p@test.com", "password": "secret1", "name": "P"})

	steps := []struct {
		method string
		path   string
		body   any
		status int
		msg    string
	}{
		{http.MethodPost, "/api/profile", map[string]any{"class": "12", "selected_subjects": []string{"physics"}}, http.StatusCreated, "Profile created"},
		{http.MethodPut, "/api/profile", map[string]any{"class": "11"}, http.StatusOK, "Profile updated"},
		{http.MethodPost, "/api/progress", map[string]any{"topic_id": "algebra", "time_spent": 20}, http.StatusCreated, "Progress record created"},
		{http.MethodPost, "/api/progress", map[string]any{"topic_id": "algebra", "time_spent": 10, "mastery_level": 40}, http.StatusOK, "Progress updated"},
		{http.MethodPost, "/api/quiz/attempt", map[string]any{"subject_id": "math", "total_questions": 4, "correct_answers": 3}, http.StatusCreated, "Quiz attempt recorded"},
		{http.MethodPost, "/api/quiz/attempt", map[string]any{"subject_id": "math", "total_questions": 4}, http.StatusBadRequest, ""},
		{http.MethodPost, "/api/quiz/attempt", map[string]any{"subject_id": "math", "total_questions": 4, "correct_answers": 5}, http.StatusBadRequest, "correct_answers must be between 0 and total_questions"},
		{http.MethodPost, "/api/quiz/attempt", map[string]any{"subject_id": "math", "total_questions": 0, "correct_answers": 0}, http.StatusBadRequest, ""},
	}
	for _, s := range steps {
		status, env := api.do(s.method, s.path, user.Token, s.body)
		if status != s.status || (s.msg != "" && env.Message != s.msg) {
			t.Fatalf("%s %s = %d %q, want %d %q", s.method, s.path, status, env.Message, s.status, s.msg)
		}
	}

	_, env := api.do(http.MethodGet, "/api/quiz/history?page=1&size=5", user.Token, nil)
	var page struct {
		Items []models.QuizAttempt `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Score != 75 {
		t.Fatalf("history = %+v", page.Items)
	}
}

func TestFlashcardAndNotificationEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	owner := api.register(map[string]any{"email": "c@test.com", "password": "secret1", "name": "C"})
	other := api.register(map[string]any{"email": "d@test.com", "password": "secret1", "name": "D"})

	status, env := api.do(http.MethodPost, "/api/flashcards", owner.Token, map[string]any{"subject_id": "bio", "question": "q", "answer": "a"})
	if status != http.StatusCreated {
		t.Fatalf("create card status = %d (%s)", status, env.Message)
	}
	var card models.Flashcard
	if err := json.Unmarshal(env.Data, &card); err != nil {
		t.Fatalf("decode card: %v", err)
	}
	cardPath := "/api/flashcards/" + jsonNumber(card.ID)

	if status, _ := api.do(http.MethodPut, cardPath+"/review", other.Token, map[string]any{"correct": true}); status != http.StatusNotFound {
		t.Fatalf("foreign review status = %d", status)
	}
	if status, _ := api.do(http.MethodPut, cardPath+"/review", owner.Token, map[string]any{}); status != http.StatusBadRequest {
		t.Fatalf("review without outcome status = %d", status)
	}
	if status, _ := api.do(http.MethodPut, cardPath+"/review", owner.Token, map[string]any{"correct": false}); status != http.StatusOK {
		t.Fatalf("review status = %d", status)
	}
	if status, _ := api.do(http.MethodDelete, cardPath, owner.Token, nil); status != http.StatusOK {
		t.Fatalf("delete status = %d", status)
	}
	if status, _ := api.do(http.MethodDelete, cardPath, owner.Token, nil); status != http.StatusNotFound {
		t.Fatalf("second delete status = %d", status)
	}

	private := api.mem.AddNotification(models.Notification{UserID: &other.UserID, Title: "t", Message: "m", Type: models.NotificationInfo})
	if status, _ := api.do(http.MethodPut, "/api/notifications/"+jsonNumber(private)+"/read", owner.Token, nil); status != http.StatusNotFound {
		t.Fatalf("foreign notification status = %d", status)
	}
	if status, _ := api.do(http.MethodPut, "/api/notifications/"+jsonNumber(private)+"/read", other.Token, nil); status != http.StatusOK {
		t.Fatalf("own notification status = %d", status)
	}
}

func TestStorageFailureIsGeneric500(t *testing.T) {
	api := newTestAPI(t, nil)
	user := api.register(map[string]any{"email": "e@test.com", "password": "secret1", "name": "E"})
	api.mem.FailWith = errors.New(`pq: relation "progress_data" does not exist`)

	status, env := api.do(http.MethodGet, "/api/progress", user.Token, nil)
	if status != http.StatusInternalServerError || env.Message != "Server error" {
		t.Fatalf("got %d %q", status, env.Message)
	}
}

func TestHealth(t *testing.T) {
	for _, tc := range []struct {
		err    error
		status int
		db     string
	}{
		{nil, http.StatusOK, "connected"},
		{errors.New("dial tcp: refused"), http.StatusInternalServerError, "disconnected"},
	} {
		api := newTestAPI(t, func(context.Context) error { return tc.err })

		w := httptest.NewRecorder()
		api.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		var body struct {
			Status   string `json:"status"`
			Database string `json:"database"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if w.Code != tc.status || body.Database != tc.db {
			t.Fatalf("health = %d %+v, want %d %s", w.Code, body, tc.status, tc.db)
		}
	}
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestCurriculumAnnouncementIsStreamed(t *testing.T) {
	api := newTestAPI(t, nil)
	student := api.register(map[string]any{"email": "s@test.com", "password": "secret1", "name": "S"})
	faculty := api.register(map[string]any{"email": "f@test.com", "password": "secret1", "name": "F", "user_type": "faculty"})

	srv := httptest.NewServer(api.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/notifications/ws?token=" + student.Token
	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for api.hub.ClientCount(student.UserID) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	status, env := api.do(http.MethodPost, "/api/curriculum", faculty.Token, map[string]any{
		"subject": "Chemistry", "chapter": "Bonds", "topic": "Covalent bonds",
	})
	if status != http.StatusCreated {
		t.Fatalf("add topic status %d message %q", status, env.Message)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var n models.Notification
	if err := conn.ReadJSON(&n); err != nil {
		t.Fatalf("read notification: %v", err)
	}
	if n.Type != models.NotificationCurriculum || n.UserID != nil || !strings.Contains(n.Message, "Covalent bonds") {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestStreamRequiresToken(t *testing.T) {
	api := newTestAPI(t, nil)
	srv := httptest.NewServer(api.router)
	defer srv.Close()

	_, resp, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/notifications/ws", nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("handshake response = %v", resp)
	}
}
