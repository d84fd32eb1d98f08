package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"wellbeing/model"
)

// InMemorySnapshotRepo keeps each session's log in append order.
type InMemorySnapshotRepo struct {
	items map[string][]model.SessionData
	mu    sync.RWMutex
}

func NewSnapshotRepo() *InMemorySnapshotRepo {
	return &InMemorySnapshotRepo{items: make(map[string][]model.SessionData)}
}

func (r *InMemorySnapshotRepo) AppendSnapshot(ctx context.Context, point *model.SessionData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if point.SessionID == "" {
		return errors.New("invalid snapshot: missing session id")
	}
	r.items[point.SessionID] = append(r.items[point.SessionID], *point)
	return nil
}

func (r *InMemorySnapshotRepo) ListSnapshots(ctx context.Context, sessionID string) ([]*model.SessionData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.items[sessionID]
	points := make([]*model.SessionData, len(stored))
	for i := range stored {
		p := stored[i]
		points[i] = &p
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points, nil
}
