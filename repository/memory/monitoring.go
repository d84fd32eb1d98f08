package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"wellbeing/model"
)

type InMemoryMonitoringRepo struct {
	items map[string]model.MonitoringSession
	mu    sync.RWMutex
}

func NewMonitoringRepo() *InMemoryMonitoringRepo {
	return &InMemoryMonitoringRepo{items: make(map[string]model.MonitoringSession)}
}

// clone detaches the pointer fields so callers cannot mutate stored state.
func clone(s model.MonitoringSession) *model.MonitoringSession {
	if s.EndTime != nil {
		end := *s.EndTime
		s.EndTime = &end
	}
	if s.Report != nil {
		report := *s.Report
		s.Report = &report
	}
	return &s
}

func (r *InMemoryMonitoringRepo) CreateSession(ctx context.Context, session *model.MonitoringSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.SessionID == "" || session.UserID == "" {
		return errors.New("invalid monitoring session: missing required fields")
	}
	r.items[session.SessionID] = *clone(*session)
	return nil
}

func (r *InMemoryMonitoringRepo) GetSession(ctx context.Context, sessionID string) (*model.MonitoringSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[sessionID]
	if !ok {
		return nil, nil
	}
	return clone(s), nil
}

func (r *InMemoryMonitoringRepo) UpdateSummary(ctx context.Context, sessionID string, summary model.SessionSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[sessionID]
	if !ok {
		return errors.New("monitoring session not found")
	}
	s.TotalBlinks = summary.TotalBlinks
	s.KeyboardActivity = summary.KeyboardActivity
	s.MouseActivity = summary.MouseActivity
	s.AvgEAR = summary.AvgEAR
	r.items[sessionID] = s
	return nil
}

func (r *InMemoryMonitoringRepo) MarkEnded(ctx context.Context, sessionID string, at time.Time) (*model.MonitoringSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[sessionID]
	if !ok {
		return nil, nil
	}
	if s.EndTime == nil {
		s.EndTime = &at
		r.items[sessionID] = s
	}
	return clone(s), nil
}

func (r *InMemoryMonitoringRepo) SaveReport(ctx context.Context, sessionID, report string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[sessionID]
	if !ok {
		return errors.New("monitoring session not found")
	}
	s.Report = &report
	r.items[sessionID] = s
	return nil
}

func (r *InMemoryMonitoringRepo) ListUserSessions(ctx context.Context, userID string, limit int64) ([]*model.MonitoringSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := []*model.MonitoringSession{}
	for _, s := range r.items {
		if s.UserID == userID {
			sessions = append(sessions, clone(s))
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
	if limit > 0 && int64(len(sessions)) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}
