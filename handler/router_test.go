package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wellbeing/model"
	"wellbeing/repository/memory"
	"wellbeing/services"
	"wellbeing/usecase"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) GenerateText(context.Context, string) (string, error) {
	return g.text, g.err
}

func (g *stubGenerator) Chat(context.Context, []model.ChatTurn, string) (string, error) {
	return g.text, g.err
}

type testServer struct {
	router   *gin.Engine
	users    *memory.InMemoryUserRepo
	sessions *memory.InMemoryMonitoringRepo
	todos    *memory.InMemoryTodoRepo
	gen      *stubGenerator
}

// fakeAuth trusts the X-Test-User header so tests skip token handling.
func fakeAuth(c *gin.Context) {
	userID := c.GetHeader("X-Test-User")
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
		return
	}
	c.Set("user_id", userID)
	c.Next()
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitValidator()

	s := &testServer{
		users:    memory.NewUserRepo(),
		sessions: memory.NewMonitoringRepo(),
		todos:    memory.NewTodoRepo(),
		gen:      &stubGenerator{text: "<h3>Session Summary</h3>"},
	}
	snapshots := memory.NewSnapshotRepo()
	logins := memory.NewSessionRepo()
	active := services.NewMemoryActiveMonitor(time.Hour)
	tokens := services.NewTokenService("test_secret_key", "facethefacts", time.Hour, time.Hour)

	userSvc := usecase.NewUserService(s.users)
	loginSvc := usecase.NewLoginSessionService(logins, 5, time.Hour)
	telemetry := usecase.NewTelemetryService(s.sessions, snapshots, s.users, active)
	reports := usecase.NewReportService(telemetry, s.sessions, snapshots, active, s.gen)

	h := Handlers{
		Auth:      NewAuthHandler(userSvc, loginSvc, tokens, nil),
		Profile:   NewProfileHandler(userSvc),
		TwoFactor: NewTwoFactorHandler(userSvc),
		Sessions:  NewSessionHandler(loginSvc),
		Monitor:   NewMonitorHandler(userSvc, telemetry, reports),
		Stream:    NewTelemetryStreamHandler(telemetry, nil),
		Dashboard: NewDashboardHandler(usecase.NewDashboardService(s.users, s.sessions, s.todos, logins)),
		Chat:      NewChatHandler(usecase.NewChatService(s.users, s.sessions, s.gen)),
		Todos:     NewTodoHandler(usecase.NewTodosService(s.todos)),
		Health: NewHealthHandler(map[string]HealthCheck{
			"storage": func(context.Context) error { return nil },
		}),
	}
	s.router = NewRouter(h, fakeAuth, RouterOptions{})

	for _, id := range []string{"alice", "bob"} {
		err := s.users.AddUser(context.Background(), &model.User{
			UserID:               id,
			Username:             id,
			Email:                id + "@example.com",
			Password:             "salt$hash",
			CalibrationThreshold: model.DefaultCalibrationThreshold,
		})
		if err != nil {
			t.Fatalf("AddUser: %v", err)
		}
	}
	return s
}

func (s *testServer) do(t *testing.T, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestUpdateSession(t *testing.T) {
	s := newTestServer(t)
	payload := gin.H{"blinks": 4, "keys": 10, "mouse": 300, "emotion": "Happy", "session_avg_ear": 0.3, "current_ear": 0.28}

	w := s.do(t, http.MethodPost, "/api/update_session", "alice", payload)
	if w.Code != http.StatusBadRequest || decode(t, w)["status"] != "error" {
		t.Fatalf("without active session: %d %s", w.Code, w.Body.String())
	}

	if w := s.do(t, http.MethodPost, "/api/monitor/start", "alice", nil); w.Code != http.StatusCreated {
		t.Fatalf("start: %d %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/update_session", "alice", payload)
	if w.Code != http.StatusOK || decode(t, w)["status"] != "success" {
		t.Fatalf("ingest: %d %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/update_session", "alice", gin.H{"blinks": -1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative counter accepted: %d", w.Code)
	}
}

func TestSaveCalibration(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   interface{}
		code   int
		status string
	}{
		{"valid", gin.H{"threshold": 0.22}, http.StatusOK, "saved"},
		{"missing", gin.H{}, http.StatusBadRequest, "error"},
		{"zero", gin.H{"threshold": 0}, http.StatusBadRequest, "error"},
		{"wrong type", gin.H{"threshold": "low"}, http.StatusBadRequest, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/save_calibration", "alice", tt.body)
			if w.Code != tt.code || decode(t, w)["status"] != tt.status {
				t.Errorf("got %d %s", w.Code, w.Body.String())
			}
		})
	}

	user, _ := s.users.FindUser(context.Background(), "alice")
	if !user.IsCalibrated || user.CalibrationThreshold != 0.22 {
		t.Errorf("calibration not stored: %+v", user)
	}
}

func TestGenerateReportFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/generate_report", "alice", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != DashboardPath {
		t.Fatalf("no active session: %d %q", w.Code, w.Header().Get("Location"))
	}

	start := decode(t, s.do(t, http.MethodPost, "/api/monitor/start", "alice", nil))
	sessionID := start["data"].(map[string]interface{})["session_id"].(string)
	s.do(t, http.MethodPost, "/api/update_session", "alice", gin.H{"blinks": 12, "keys": 300})

	w = s.do(t, http.MethodPost, "/api/generate_report", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("generate: %d %s", w.Code, w.Body.String())
	}
	data := decode(t, w)["data"].(map[string]interface{})
	if data["report_html"] != "<h3>Session Summary</h3>" || data["activity_level"] != "High" {
		t.Errorf("unexpected report: %v", data)
	}

	w = s.do(t, http.MethodGet, "/api/report/"+sessionID, "alice", nil)
	if w.Code != http.StatusOK {
		t.Errorf("owner view: %d", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/report/"+sessionID, "bob", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != DashboardPath {
		t.Errorf("foreign view: %d %q", w.Code, w.Header().Get("Location"))
	}
	if strings.Contains(w.Body.String(), "Session Summary") {
		t.Error("foreign view leaked report content")
	}

	if w := s.do(t, http.MethodGet, "/api/report/missing", "alice", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing report: %d", w.Code)
	}
}

func TestChatWithCoach(t *testing.T) {
	s := newTestServer(t)
	s.gen.text = "Take a short walk."

	w := s.do(t, http.MethodPost, "/api/chat_with_coach", "alice", gin.H{"message": "I feel tired"})
	if w.Code != http.StatusOK || decode(t, w)["reply"] != "Take a short walk." {
		t.Fatalf("reply: %d %s", w.Code, w.Body.String())
	}

	s.gen.err = services.ErrMissingAPIKey
	w = s.do(t, http.MethodPost, "/api/chat_with_coach", "alice", gin.H{"message": "hello"})
	reply, _ := decode(t, w)["reply"].(string)
	if w.Code != http.StatusOK || !strings.HasPrefix(reply, "AI Error: ") {
		t.Errorf("failed generation: %d %q", w.Code, reply)
	}

	if w := s.do(t, http.MethodPost, "/api/chat_with_coach", "alice", gin.H{"message": "  "}); w.Code != http.StatusBadRequest {
		t.Errorf("empty message: %d", w.Code)
	}
}

func TestPlanner(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/planner", "alice", gin.H{"task": "Stretch"})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != PlannerPath {
		t.Errorf("missing due date: %d", w.Code)
	}
	w = s.do(t, http.MethodPost, "/api/planner", "alice", gin.H{"task": "Stretch", "due_date": "tomorrow"})
	if w.Code != http.StatusSeeOther {
		t.Errorf("bad due date: %d", w.Code)
	}

	w = s.do(t, http.MethodPost, "/api/planner", "alice", gin.H{"task": "Stretch", "due_date": "2030-01-02"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	todoID := decode(t, w)["data"].(map[string]interface{})["id"].(string)

	w = s.do(t, http.MethodPost, "/api/planner/"+todoID+"/toggle", "bob", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != PlannerPath {
		t.Errorf("foreign toggle: %d", w.Code)
	}
	w = s.do(t, http.MethodDelete, "/api/planner/"+todoID, "bob", nil)
	if w.Code != http.StatusSeeOther {
		t.Errorf("foreign delete: %d", w.Code)
	}
	todo, _ := s.todos.GetTodo(context.Background(), todoID)
	if todo == nil || todo.IsCompleted {
		t.Fatalf("foreign request modified the item: %+v", todo)
	}

	if w := s.do(t, http.MethodPost, "/api/planner/"+todoID+"/toggle", "alice", nil); w.Code != http.StatusOK {
		t.Errorf("owner toggle: %d", w.Code)
	}
	if w := s.do(t, http.MethodDelete, "/api/planner/"+todoID, "alice", nil); w.Code != http.StatusOK {
		t.Errorf("owner delete: %d", w.Code)
	}
	if w := s.do(t, http.MethodDelete, "/api/planner/"+todoID, "alice", nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: %d", w.Code)
	}
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/dashboard", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: %d %s", w.Code, w.Body.String())
	}
	data := decode(t, w)["data"].(map[string]interface{})
	if data["plant_health"] != float64(100) || data["plant_status"] != "Radiant" {
		t.Errorf("fresh plant: %v", data)
	}

	if w := s.do(t, http.MethodGet, "/api/dashboard", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated: %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	body := decode(t, w)
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}
}
