package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wellbeing/model"
	"wellbeing/utils"

	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned by every call when no key was configured.
var ErrMissingAPIKey = errors.New("gemini api key missing")

// ServiceError wraps a failure reported by the generation service.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("generation %s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// GeminiClient calls the Gemini API for one-shot prompts and seeded chats.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient returns a usable client even without an API key; calls
// then fail with ErrMissingAPIKey so callers can degrade gracefully.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClient, error) {
	g := &GeminiClient{model: model, timeout: timeout}
	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *GeminiClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", ErrMissingAPIKey
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	timer := utils.TrackGeneration("report")
	defer timer.ObserveDuration()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &ServiceError{Op: "generate", Err: err}
	}
	return resp.Text(), nil
}

func (g *GeminiClient) Chat(ctx context.Context, history []model.ChatTurn, message string) (string, error) {
	if g.client == nil {
		return "", ErrMissingAPIKey
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	timer := utils.TrackGeneration("chat")
	defer timer.ObserveDuration()

	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == model.ChatRoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}

	chat, err := g.client.Chats.Create(ctx, g.model, nil, contents)
	if err != nil {
		return "", &ServiceError{Op: "chat", Err: err}
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", &ServiceError{Op: "chat", Err: err}
	}
	return resp.Text(), nil
}
