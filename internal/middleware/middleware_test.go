package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{fmt.Errorf("%w: start_date is required", apperrors.ErrValidationFailed), http.StatusBadRequest, "start_date is required"},
		{apperrors.ErrNoUpdates, http.StatusBadRequest, "No updates provided"},
		{fmt.Errorf("register: %w", apperrors.ErrEmailAlreadyExists), http.StatusConflict, "User already exists"},
		{apperrors.ErrRoleMismatch, http.StatusUnauthorized, "Invalid credentials for this user type"},
		{apperrors.ErrStudyPlanNotFound, http.StatusNotFound, "No active study plan found"},
		{apperrors.NewResourceNotFoundError("Thing not found"), http.StatusNotFound, "Thing not found"},
		{errors.New("pq: connection refused at 10.0.0.5"), http.StatusInternalServerError, "Server error"},
	}

	for _, tc := range cases {
		status, detail := ErrorStatus(tc.err)
		if status != tc.status || detail.Message != tc.msg {
			t.Fatalf("ErrorStatus(%v) = (%d, %q), want (%d, %q)", tc.err, status, detail.Message, tc.status, tc.msg)
		}
	}
}

func TestHandleAPIErrorHidesStorageDetail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/study-plan", nil)

	HandleAPIError(c, errors.New("relation \"study_plans\" does not exist"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode(t, w)
	if resp.Success || resp.Message != "Server error" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func newAuthRouter(t *testing.T, roles ...models.RoleType) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "s", AccessTokenExp: time.Hour})
	m := NewAuthMiddleware(jwtSvc)

	r := gin.New()
	handlers := []gin.HandlerFunc{m.JWTAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, m.RoleRequired(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"id": id}, ""))
	})
	r.GET("/private", handlers...)
	return r, jwtSvc
}

func TestJWTAuth(t *testing.T) {
	r, jwtSvc := newAuthRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", w.Code)
	}

	token, err := jwtSvc.GenerateToken(&models.User{ID: 3, Email: "a@test.com", UserType: models.RoleStudent})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token status = %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("tampered token status = %d", w.Code)
	}
}

func TestRoleRequired(t *testing.T) {
	r, jwtSvc := newAuthRouter(t, models.RoleParent)

	call := func(role models.RoleType) int {
		token, err := jwtSvc.GenerateToken(&models.User{ID: 9, Email: "p@test.com", UserType: role})
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", token)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := call(models.RoleParent); got != http.StatusOK {
		t.Fatalf("parent status = %d", got)
	}
	if got := call(models.RoleStudent); got != http.StatusUnauthorized {
		t.Fatalf("student status = %d", got)
	}
}

func TestBindJSONWritesValidationEnvelope(t *testing.T) {
	type body struct {
		Name string `json:"name" binding:"required"`
	}

	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var b body
		if !BindJSON(c, &b) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode(t, w)
	if resp.Success || resp.Error == nil || resp.Error.Code != dto.ErrorCodeValidationFailed {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}
