package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"wellbeing/model"
)

type InMemorySessionRepo struct {
	items map[string]model.Session
	mu    sync.RWMutex
	now   func() time.Time
}

func NewSessionRepo() *InMemorySessionRepo {
	return &InMemorySessionRepo{items: make(map[string]model.Session), now: time.Now}
}

func (r *InMemorySessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.SessionID == "" || session.UserID == "" {
		return errors.New("invalid session data: missing required fields")
	}
	r.items[session.SessionID] = *session
	return nil
}

func (r *InMemorySessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[sessionID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *InMemorySessionRepo) GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	sessions := []*model.Session{}
	for _, s := range r.items {
		if s.UserID == userID && s.IsActive && s.ExpiresAt.After(now) {
			session := s
			sessions = append(sessions, &session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastActivityAt.After(sessions[j].LastActivityAt)
	})
	return sessions, nil
}

func (r *InMemorySessionRepo) TouchSession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.items[sessionID]; ok {
		s.LastActivityAt = r.now()
		r.items[sessionID] = s
	}
	return nil
}

func (r *InMemorySessionRepo) EndSession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.items[sessionID]; ok {
		s.IsActive = false
		r.items[sessionID] = s
	}
	return nil
}

func (r *InMemorySessionRepo) EndAllUserSessions(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.items {
		if s.UserID == userID {
			s.IsActive = false
			r.items[id] = s
		}
	}
	return nil
}

func (r *InMemorySessionRepo) EndLeastActiveSession(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var oldest *model.Session
	for _, s := range r.items {
		if s.UserID != userID || !s.IsActive {
			continue
		}
		if oldest == nil || s.LastActivityAt.Before(oldest.LastActivityAt) {
			candidate := s
			oldest = &candidate
		}
	}
	if oldest != nil {
		oldest.IsActive = false
		r.items[oldest.SessionID] = *oldest
	}
	return nil
}
