package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory RecordStore for tests and the worker's dry-run
// mode.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]string)}
}

// Fetch returns a copy of the user's lines.
func (s *MemoryStore) Fetch(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.files[userID]))
	copy(out, s.files[userID])
	return out, nil
}

// Replace stores a copy of the given lines as the user's snapshot.
func (s *MemoryStore) Replace(ctx context.Context, userID string, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := make([]string, len(lines))
	copy(snapshot, lines)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[userID] = snapshot
	return nil
}
