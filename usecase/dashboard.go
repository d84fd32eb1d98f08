package usecase

import (
	"context"
	"fmt"

	"wellbeing/model"
)

const (
	dashboardRecentSessions = 3
	dashboardUpcomingTodos  = 5
)

type Dashboard struct {
	User           *model.User
	RecentSessions []*model.MonitoringSession
	UpcomingTodos  []*model.TodoItem
	Plant          PlantHealth
}

type DashboardService struct {
	users    UserStore
	sessions MonitoringStore
	todos    TodoStore
	logins   LoginSessionStore
}

func NewDashboardService(users UserStore, sessions MonitoringStore, todos TodoStore, logins LoginSessionStore) *DashboardService {
	return &DashboardService{users: users, sessions: sessions, todos: todos, logins: logins}
}

func (s *DashboardService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	recent, err := s.sessions.ListUserSessions(ctx, userID, dashboardRecentSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent sessions: %w", err)
	}
	upcoming, err := s.todos.ListUserTodos(ctx, userID, true, dashboardUpcomingTodos)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming todos: %w", err)
	}

	var last *model.MonitoringSession
	if len(recent) > 0 {
		last = recent[0]
	}

	return &Dashboard{
		User:           user,
		RecentSessions: recent,
		UpcomingTodos:  upcoming,
		Plant:          ComputePlantHealth(last),
	}, nil
}

// Stats aggregates the user's lifetime numbers.
func (s *DashboardService) Stats(ctx context.Context, userID string) (*model.UserStats, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	stats := &model.UserStats{}

	sessions, err := s.sessions.ListUserSessions(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	stats.MonitoringStats.TotalSessions = len(sessions)
	for _, session := range sessions {
		stats.MonitoringStats.TotalBlinks += session.TotalBlinks
		if session.Report != nil {
			stats.MonitoringStats.Reports++
		}
	}
	stats.MonitoringStats.AvgBlinks = roundTo(meanBlinks(sessions), 1)

	todos, err := s.todos.ListUserTodos(ctx, userID, false, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	stats.TodoStats.Total = len(todos)
	for _, todo := range todos {
		if todo.IsCompleted {
			stats.TodoStats.Completed++
		}
	}
	stats.TodoStats.Pending = stats.TodoStats.Total - stats.TodoStats.Completed

	logins, err := s.logins.GetUserActiveSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list login sessions: %w", err)
	}
	stats.ActivityStats.CalibrationThreshold = user.CalibrationThreshold
	stats.ActivityStats.IsCalibrated = user.IsCalibrated
	stats.ActivityStats.ActiveLogins = len(logins)

	return stats, nil
}
