// Package audio holds synthesized speech until the client fetches it.
package audio

import (
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Blob is a stored audio payload. Immutable once stored.
type Blob struct {
	Data        []byte
	ContentType string
	StoredAt    time.Time
}

// Store is a process-wide map from opaque handle to audio blob. The handle is
// an identifier, not a capability token: anyone holding it may fetch the blob
// any number of times.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]Blob
}

// NewStore creates an empty blob store.
func NewStore() *Store {
	return &Store{
		blobs: make(map[string]Blob),
	}
}

// Put stores a payload and returns a freshly generated handle.
func (s *Store) Put(data []byte, contentType string) string {
	id := newHandle()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[id] = Blob{
		Data:        data,
		ContentType: contentType,
		StoredAt:    time.Now(),
	}
	return id
}

// Get returns the blob for a handle, reporting whether it exists.
func (s *Store) Get(id string) (Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[id]
	return blob, ok
}

// Len returns the number of stored blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.blobs)
}

// SweepOlderThan drops blobs stored before the cutoff and returns how many
// were removed. Used by the retention janitor.
func (s *Store) SweepOlderThan(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, blob := range s.blobs {
		if blob.StoredAt.Before(cutoff) {
			delete(s.blobs, id)
			removed++
		}
	}
	return removed
}

// newHandle returns a 32-char lowercase hex id.
func newHandle() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
