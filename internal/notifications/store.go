package notifications

import (
	"context"
	"sort"
	"sync"
)

// Store keeps per-user notification inboxes.
type Store interface {
	Add(ctx context.Context, n Notification) error
	// List returns the user's notifications, newest first.
	List(ctx context.Context, userID string) ([]Notification, error)
	// MarkAllRead flags every unread notification and returns how many changed.
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]Notification
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]Notification)}
}

func (s *MemoryStore) Add(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[n.UserID] = append(s.items[n.UserID], n)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, userID string) ([]Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]Notification{}, s.items[userID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *MemoryStore) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := 0
	for i := range s.items[userID] {
		if !s.items[userID][i].Read {
			s.items[userID][i].Read = true
			changed++
		}
	}
	return changed, nil
}
