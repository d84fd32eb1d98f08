package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"wellbeing/model"
	"wellbeing/utils"
)

// LoginSessionService tracks the devices a user is signed in on.
type LoginSessionService struct {
	repo      LoginSessionStore
	maxActive int
	ttl       time.Duration
	now       func() time.Time
}

func NewLoginSessionService(repo LoginSessionStore, maxActive int, ttl time.Duration) *LoginSessionService {
	return &LoginSessionService{repo: repo, maxActive: maxActive, ttl: ttl, now: time.Now}
}

// Open starts a login session, ending the least recently used ones while
// the user is at the limit.
func (s *LoginSessionService) Open(ctx context.Context, userID, userAgent, ip string) (*model.Session, error) {
	active, err := s.repo.GetUserActiveSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list login sessions: %w", err)
	}
	for i := len(active); s.maxActive > 0 && i >= s.maxActive; i-- {
		if err := s.repo.EndLeastActiveSession(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to end least active session: %w", err)
		}
	}

	now := s.now().UTC()
	session := &model.Session{
		SessionID:      utils.NewID(),
		UserID:         userID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.ttl),
		LastActivityAt: now,
		DeviceInfo:     utils.DeviceLabel(userAgent),
		IPAddress:      ip,
		IsActive:       true,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create login session: %w", err)
	}
	return session, nil
}

// Validate reports whether the login session is still usable and bumps its
// last activity.
func (s *LoginSessionService) Validate(ctx context.Context, sessionID string) bool {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil || session == nil {
		return false
	}
	if !session.IsActive || s.now().After(session.ExpiresAt) {
		return false
	}
	if err := s.repo.TouchSession(ctx, sessionID); err != nil {
		log.Printf("failed to update session activity: %v", err)
	}
	return true
}

func (s *LoginSessionService) Active(ctx context.Context, userID string) ([]*model.Session, error) {
	sessions, err := s.repo.GetUserActiveSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list login sessions: %w", err)
	}
	return sessions, nil
}

func (s *LoginSessionService) End(ctx context.Context, sessionID string) error {
	return s.repo.EndSession(ctx, sessionID)
}

func (s *LoginSessionService) EndAll(ctx context.Context, userID string) error {
	return s.repo.EndAllUserSessions(ctx, userID)
}
