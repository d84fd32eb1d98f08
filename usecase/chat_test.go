package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"wellbeing/model"
)

func TestChatSeedsContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "alice")

	base := f.clock.Now()
	for i, blinks := range []int{10, 20, 30, 40, 50, 1000} {
		_ = f.sessions.CreateSession(ctx, &model.MonitoringSession{
			SessionID:   string(rune('a' + i)),
			UserID:      "u1",
			StartTime:   base.Add(time.Duration(i) * time.Hour),
			TotalBlinks: blinks,
		})
	}
	f.gen.text = "Take a break."

	chat := NewChatService(f.users, f.sessions, f.gen)
	reply, err := chat.Reply(ctx, "u1", "How am I doing?")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != "Take a break." {
		t.Errorf("reply = %q", reply)
	}

	if len(f.gen.history) != 1 {
		t.Fatalf("generator called %d times", len(f.gen.history))
	}
	history := f.gen.history[0]
	if len(history) != 2 || history[0].Role != model.ChatRoleUser || history[1].Role != model.ChatRoleModel {
		t.Fatalf("unexpected seeded history: %+v", history)
	}
	if history[1].Text != "Understood." {
		t.Errorf("model acknowledgement = %q", history[1].Text)
	}
	// Five newest sessions: 1000, 50, 40, 30, 20 -> mean 228.
	for _, want := range []string{"Name: alice", "Recent Sessions: 5", "Avg Blinks (Recent): 228.0"} {
		if !strings.Contains(history[0].Text, want) {
			t.Errorf("context missing %q:\n%s", want, history[0].Text)
		}
	}
	if f.gen.prompts[0] != "How am I doing?" {
		t.Errorf("message sent = %q", f.gen.prompts[0])
	}
}

func TestChatWithoutSessions(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", "alice")

	chat := NewChatService(f.users, f.sessions, f.gen)
	if _, err := chat.Reply(context.Background(), "u1", "hi"); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if !strings.Contains(f.gen.history[0][0].Text, "Recent Sessions: 0") ||
		!strings.Contains(f.gen.history[0][0].Text, "Avg Blinks (Recent): 0.0") {
		t.Errorf("unexpected context: %s", f.gen.history[0][0].Text)
	}
}

func TestChatGeneratorFailureBecomesReply(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", "alice")
	f.gen.err = errBoom

	chat := NewChatService(f.users, f.sessions, f.gen)
	reply, err := chat.Reply(context.Background(), "u1", "hi")
	if err != nil {
		t.Fatalf("Reply should not fail, got %v", err)
	}
	if reply != "AI Error: boom" {
		t.Errorf("reply = %q", reply)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", "alice")

	chat := NewChatService(f.users, f.sessions, f.gen)
	if _, err := chat.Reply(context.Background(), "u1", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v, want ErrEmptyMessage", err)
	}
}
