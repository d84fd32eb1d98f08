package usecase

import (
	"context"
	"time"

	"wellbeing/model"
)

// Lookups return (nil, nil) when the record does not exist.

type UserStore interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUser(ctx context.Context, userID string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, username, email string) error
	SaveCalibration(ctx context.Context, userID string, threshold float64) error
	SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error
}

type MonitoringStore interface {
	CreateSession(ctx context.Context, session *model.MonitoringSession) error
	GetSession(ctx context.Context, sessionID string) (*model.MonitoringSession, error)
	UpdateSummary(ctx context.Context, sessionID string, summary model.SessionSummary) error
	// MarkEnded sets end_time only when it is still unset and returns the
	// stored record afterwards.
	MarkEnded(ctx context.Context, sessionID string, at time.Time) (*model.MonitoringSession, error)
	SaveReport(ctx context.Context, sessionID, report string) error
	// ListUserSessions returns newest first; limit <= 0 means all.
	ListUserSessions(ctx context.Context, userID string, limit int64) ([]*model.MonitoringSession, error)
}

type SnapshotStore interface {
	AppendSnapshot(ctx context.Context, point *model.SessionData) error
	// ListSnapshots returns the log ordered by timestamp ascending.
	ListSnapshots(ctx context.Context, sessionID string) ([]*model.SessionData, error)
}

type TodoStore interface {
	CreateTodo(ctx context.Context, todo *model.TodoItem) error
	GetTodo(ctx context.Context, todoID string) (*model.TodoItem, error)
	// ListUserTodos orders by due date; pendingOnly drops completed items.
	ListUserTodos(ctx context.Context, userID string, pendingOnly bool, limit int64) ([]*model.TodoItem, error)
	SetCompleted(ctx context.Context, todoID string, completed bool) error
	DeleteTodo(ctx context.Context, todoID string) error
}

type LoginSessionStore interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error)
	TouchSession(ctx context.Context, sessionID string) error
	EndSession(ctx context.Context, sessionID string) error
	EndAllUserSessions(ctx context.Context, userID string) error
	EndLeastActiveSession(ctx context.Context, userID string) error
}

// ActiveMonitorTracker remembers which monitoring session a user is
// currently feeding. The marker is advisory and lives outside the session
// record.
type ActiveMonitorTracker interface {
	SetActive(ctx context.Context, userID, sessionID string) error
	// Active returns "" when the user has no running session.
	Active(ctx context.Context, userID string) (string, error)
	Clear(ctx context.Context, userID string) error
}

// TextGenerator turns a prompt into generated text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ChatGenerator continues a seeded conversation with one more user message.
type ChatGenerator interface {
	Chat(ctx context.Context, history []model.ChatTurn, message string) (string, error)
}
