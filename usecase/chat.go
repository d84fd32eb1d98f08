package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"wellbeing/model"
)

const chatRecentSessions = 5

type ChatService struct {
	users     UserStore
	sessions  MonitoringStore
	generator ChatGenerator
}

func NewChatService(users UserStore, sessions MonitoringStore, generator ChatGenerator) *ChatService {
	return &ChatService{users: users, sessions: sessions, generator: generator}
}

// Reply answers one coach message. Generation failures come back as the
// reply text so the conversation UI keeps working; only storage failures
// are returned as errors.
func (s *ChatService) Reply(ctx context.Context, userID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return "", ErrNotFound
	}

	recent, err := s.sessions.ListUserSessions(ctx, userID, chatRecentSessions)
	if err != nil {
		return "", fmt.Errorf("failed to list recent sessions: %w", err)
	}

	history := []model.ChatTurn{
		{Role: model.ChatRoleUser, Text: BuildChatContext(ChatContext{
			Username:       user.Username,
			RecentSessions: len(recent),
			AvgBlinks:      meanBlinks(recent),
		})},
		{Role: model.ChatRoleModel, Text: chatAcknowledgement},
	}

	reply, err := s.generator.Chat(ctx, history, message)
	if err != nil {
		log.Printf("coach chat failed for user %s: %v", userID, err)
		return fmt.Sprintf("AI Error: %v", err), nil
	}
	return reply, nil
}

func meanBlinks(sessions []*model.MonitoringSession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	total := 0
	for _, s := range sessions {
		total += s.TotalBlinks
	}
	return float64(total) / float64(len(sessions))
}
