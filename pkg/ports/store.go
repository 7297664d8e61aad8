package ports

import "context"

// ContextStore persists serialized conversation-context snapshots between
// engine lifetimes. Hosts typically save the Shutdown sink's payload here and
// seed the next engine instance with it.
type ContextStore interface {
	// Save persists the snapshot for a session ID, overwriting any previous one.
	Save(ctx context.Context, sessionID, serialized string) error

	// Load retrieves the snapshot for a session ID.
	// Returns domain.ErrSessionNotFound if none exists.
	Load(ctx context.Context, sessionID string) (string, error)

	// Delete removes the snapshot for a session ID.
	Delete(ctx context.Context, sessionID string) error
}
