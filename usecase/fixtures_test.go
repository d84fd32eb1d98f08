package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"wellbeing/model"
	"wellbeing/repository/memory"
	"wellbeing/services"
)

// stubGenerator records prompts and returns a canned answer.
type stubGenerator struct {
	text    string
	err     error
	prompts []string
	history [][]model.ChatTurn
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

func (g *stubGenerator) Chat(_ context.Context, history []model.ChatTurn, message string) (string, error) {
	g.history = append(g.history, history)
	g.prompts = append(g.prompts, message)
	return g.text, g.err
}

type fixture struct {
	users     *memory.InMemoryUserRepo
	sessions  *memory.InMemoryMonitoringRepo
	snapshots *memory.InMemorySnapshotRepo
	todos     *memory.InMemoryTodoRepo
	logins    *memory.InMemorySessionRepo
	active    *services.MemoryActiveMonitor
	gen       *stubGenerator

	telemetry *TelemetryService
	reports   *ReportService
	clock     *fakeClock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:     memory.NewUserRepo(),
		sessions:  memory.NewMonitoringRepo(),
		snapshots: memory.NewSnapshotRepo(),
		todos:     memory.NewTodoRepo(),
		logins:    memory.NewSessionRepo(),
		active:    services.NewMemoryActiveMonitor(0),
		gen:       &stubGenerator{text: "<h3>Session Summary</h3><p>Fine.</p>"},
		clock:     &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
	}
	f.telemetry = NewTelemetryService(f.sessions, f.snapshots, f.users, f.active)
	f.telemetry.now = f.clock.Now
	f.reports = NewReportService(f.telemetry, f.sessions, f.snapshots, f.active, f.gen)
	f.reports.now = f.clock.Now
	return f
}

func (f *fixture) addUser(t *testing.T, id, name string) *model.User {
	t.Helper()
	user := &model.User{
		UserID:               id,
		Username:             name,
		Email:                name + "@example.com",
		Password:             "salt$hash",
		CalibrationThreshold: model.DefaultCalibrationThreshold,
	}
	if err := f.users.AddUser(context.Background(), user); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	return user
}

func (f *fixture) start(t *testing.T, userID string) *model.MonitoringSession {
	t.Helper()
	started, err := f.telemetry.StartSession(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	return started.Session
}

func emotion(label string) *string { return &label }

var errBoom = errors.New("boom")
