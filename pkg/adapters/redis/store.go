// Package redis implements ports.ContextStore on Redis, for hosts that need
// context snapshots to survive restarts or to be shared across instances.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parley-dev/parley/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "parley:context:"

// Store persists context snapshots as plain string keys.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the store.
type Option func(*Store)

// WithTTL sets an expiration on saved snapshots. Zero (the default) keeps
// them until deleted.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix overrides the key prefix, for namespacing a shared Redis.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// NewFromClient wraps an existing Redis client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New connects to addr and wraps the resulting client.
func New(addr string, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{Addr: addr})
	return NewFromClient(client, opts...)
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

// Save persists the snapshot, overwriting any previous one.
func (s *Store) Save(ctx context.Context, sessionID, serialized string) error {
	if err := s.client.Set(ctx, s.key(sessionID), serialized, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis save %q: %w", sessionID, err)
	}
	return nil
}

// Load retrieves the snapshot for a session.
func (s *Store) Load(ctx context.Context, sessionID string) (string, error) {
	serialized, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, backend.Nil) {
		return "", domain.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis load %q: %w", sessionID, err)
	}
	return serialized, nil
}

// Delete removes the snapshot for a session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete %q: %w", sessionID, err)
	}
	return nil
}

// Close releases the underlying client connection.
func (s *Store) Close() error {
	return s.client.Close()
}
