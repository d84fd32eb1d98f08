package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

func activeMonitorKey(userID string) string {
	return fmt.Sprintf("monitor:active:%s", userID)
}

// RedisActiveMonitor keeps the "currently monitoring" marker per user in
// Redis with a TTL so abandoned sessions do not stay active forever.
type RedisActiveMonitor struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisActiveMonitor(client *redis.Client, ttl time.Duration) *RedisActiveMonitor {
	return &RedisActiveMonitor{client: client, ttl: ttl}
}

func (m *RedisActiveMonitor) SetActive(ctx context.Context, userID, sessionID string) error {
	if userID == "" || sessionID == "" {
		return errors.New("userID and sessionID are required")
	}
	if err := m.client.Set(ctx, activeMonitorKey(userID), sessionID, m.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store active session: %w", err)
	}
	return nil
}

func (m *RedisActiveMonitor) Active(ctx context.Context, userID string) (string, error) {
	id, err := m.client.Get(ctx, activeMonitorKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read active session: %w", err)
	}
	return id, nil
}

func (m *RedisActiveMonitor) Clear(ctx context.Context, userID string) error {
	if err := m.client.Del(ctx, activeMonitorKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear active session: %w", err)
	}
	return nil
}

type activeEntry struct {
	sessionID string
	expiresAt time.Time
}

// MemoryActiveMonitor is the single-process tracker used without Redis.
type MemoryActiveMonitor struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]activeEntry
}

func NewMemoryActiveMonitor(ttl time.Duration) *MemoryActiveMonitor {
	return &MemoryActiveMonitor{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]activeEntry),
	}
}

func (m *MemoryActiveMonitor) SetActive(_ context.Context, userID, sessionID string) error {
	if userID == "" || sessionID == "" {
		return errors.New("userID and sessionID are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := activeEntry{sessionID: sessionID}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[userID] = entry
	return nil
}

func (m *MemoryActiveMonitor) Active(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[userID]
	if !ok {
		return "", nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.entries, userID)
		return "", nil
	}
	return entry.sessionID, nil
}

func (m *MemoryActiveMonitor) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}
