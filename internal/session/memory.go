package session

import (
	"context"
	"slices"
	"sync"
)

// memoryStore implements Store with a process-wide map. History is lost on
// restart; there is no expiry.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Message
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: make(map[string][]Message),
	}
}

// Get implements Store.
func (s *memoryStore) Get(ctx context.Context, id string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Copy so callers never observe a later append through the same slice.
	return slices.Clone(s.sessions[id]), nil
}

// Append implements Store.
func (s *memoryStore) Append(ctx context.Context, id string, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = append(s.sessions[id], msgs...)
	return nil
}

// Close implements Store.
func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string][]Message)
	return nil
}
