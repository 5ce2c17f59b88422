// Package lock provides per-key in-flight guards.
package lock

import (
	"context"
	"sync"
)

// Guard admits one holder per key at a time.
type Guard interface {
	// Acquire returns ok=false without error when the key is already held.
	Acquire(ctx context.Context, key string) (release func(), ok bool, err error)
	Held(ctx context.Context, key string) bool
}

// Memory is an in-process Guard.
type Memory struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemory constructs an empty in-process guard.
func NewMemory() *Memory {
	return &Memory{held: make(map[string]struct{})}
}

func (m *Memory) Acquire(ctx context.Context, key string) (func(), bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[key]; ok {
		return nil, false, nil
	}
	m.held[key] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
	}
	return release, true, nil
}

func (m *Memory) Held(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.held[key]
	return ok
}
