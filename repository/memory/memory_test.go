package memory

import (
	"context"
	"testing"
	"time"

	"wellbeing/model"
)

func TestMonitoringMarkEndedKeepsFirstTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := NewMonitoringRepo()
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	if err := repo.CreateSession(ctx, &model.MonitoringSession{SessionID: "s1", UserID: "u1", StartTime: start}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	first := start.Add(10 * time.Minute)
	got, err := repo.MarkEnded(ctx, "s1", first)
	if err != nil || got == nil {
		t.Fatalf("MarkEnded: %v", err)
	}
	got, _ = repo.MarkEnded(ctx, "s1", first.Add(time.Hour))
	if !got.EndTime.Equal(first) {
		t.Errorf("end time = %v, want %v", got.EndTime, first)
	}

	missing, err := repo.MarkEnded(ctx, "nope", first)
	if err != nil || missing != nil {
		t.Errorf("MarkEnded(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestMonitoringListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMonitoringRepo()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c", "d"} {
		_ = repo.CreateSession(ctx, &model.MonitoringSession{
			SessionID: id,
			UserID:    "u1",
			StartTime: base.Add(time.Duration(i) * time.Hour),
		})
	}
	_ = repo.CreateSession(ctx, &model.MonitoringSession{SessionID: "x", UserID: "u2", StartTime: base})

	got, err := repo.ListUserSessions(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("ListUserSessions: %v", err)
	}
	want := []string{"d", "c", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %d sessions, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].SessionID != id {
			t.Errorf("sessions[%d] = %s, want %s", i, got[i].SessionID, id)
		}
	}
}

func TestMonitoringReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMonitoringRepo()
	_ = repo.CreateSession(ctx, &model.MonitoringSession{SessionID: "s1", UserID: "u1"})

	got, _ := repo.GetSession(ctx, "s1")
	got.TotalBlinks = 99

	again, _ := repo.GetSession(ctx, "s1")
	if again.TotalBlinks != 0 {
		t.Errorf("stored session was mutated through returned pointer")
	}
}

func TestSnapshotsOrderedByTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepo()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	_ = repo.AppendSnapshot(ctx, &model.SessionData{ID: "2", SessionID: "s1", Timestamp: base.Add(2 * time.Second), BlinkCountSnapshot: 2})
	_ = repo.AppendSnapshot(ctx, &model.SessionData{ID: "1", SessionID: "s1", Timestamp: base, BlinkCountSnapshot: 1})
	_ = repo.AppendSnapshot(ctx, &model.SessionData{ID: "3", SessionID: "s2", Timestamp: base, BlinkCountSnapshot: 9})

	got, err := repo.ListSnapshots(ctx, "s1")
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(got) != 2 || got[0].BlinkCountSnapshot != 1 || got[1].BlinkCountSnapshot != 2 {
		t.Errorf("unexpected snapshot order: %+v", got)
	}
}

func TestTodosPendingByDueDate(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepo()

	todos := []model.TodoItem{
		{TodoID: "t1", UserID: "u1", Task: "later", DueDate: "2024-06-10"},
		{TodoID: "t2", UserID: "u1", Task: "soon", DueDate: "2024-06-01"},
		{TodoID: "t3", UserID: "u1", Task: "done", DueDate: "2024-05-01", IsCompleted: true},
		{TodoID: "t4", UserID: "u2", Task: "other", DueDate: "2024-01-01"},
	}
	for i := range todos {
		_ = repo.CreateTodo(ctx, &todos[i])
	}

	got, err := repo.ListUserTodos(ctx, "u1", true, 5)
	if err != nil {
		t.Fatalf("ListUserTodos: %v", err)
	}
	if len(got) != 2 || got[0].TodoID != "t2" || got[1].TodoID != "t1" {
		t.Errorf("unexpected pending todos: %+v", got)
	}

	all, _ := repo.ListUserTodos(ctx, "u1", false, 0)
	if len(all) != 3 || all[0].TodoID != "t3" {
		t.Errorf("unexpected full list: %+v", all)
	}
}

func TestEndLeastActiveSession(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepo()
	now := time.Now()

	_ = repo.CreateSession(ctx, &model.Session{SessionID: "old", UserID: "u1", IsActive: true, LastActivityAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour)})
	_ = repo.CreateSession(ctx, &model.Session{SessionID: "new", UserID: "u1", IsActive: true, LastActivityAt: now, ExpiresAt: now.Add(time.Hour)})

	if err := repo.EndLeastActiveSession(ctx, "u1"); err != nil {
		t.Fatalf("EndLeastActiveSession: %v", err)
	}

	active, _ := repo.GetUserActiveSessions(ctx, "u1")
	if len(active) != 1 || active[0].SessionID != "new" {
		t.Errorf("unexpected active sessions: %+v", active)
	}
}
