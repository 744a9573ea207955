package ports

import (
	"context"

	"github.com/aretw0/stepsort/pkg/domain"
)

// SessionStore persists session records.
//
// A record carries only what is needed to replay a run (algorithm, seed,
// original numbers and step count); sorter internals never reach the store.
type SessionStore interface {
	// Save persists the session under the given ID, replacing any previous record.
	Save(ctx context.Context, sessionID string, session *domain.Session) error

	// Load retrieves a session.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions, in no particular order.
	List(ctx context.Context) ([]string, error)
}
