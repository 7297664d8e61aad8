// Package memory implements ports.ContextStore in process memory.
// Snapshots do not survive a restart; use the redis adapter when they must.
package memory

import (
	"context"
	"sync"

	"github.com/parley-dev/parley/pkg/domain"
)

// Store holds context snapshots in a map.
// Safe for concurrent use.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Save persists the snapshot, overwriting any previous one.
func (s *Store) Save(ctx context.Context, sessionID, serialized string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = serialized
	return nil
}

// Load retrieves the snapshot for a session.
func (s *Store) Load(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	serialized, ok := s.data[sessionID]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return serialized, nil
}

// Delete removes the snapshot for a session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the session IDs with a stored snapshot.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
