package domain

import "time"

// Session is the durable record of a visualization run.
//
// Sorter internals are never persisted. A session is restored by creating a
// fresh sorter for Algorithm and replaying Steps against Original, which is
// exact because every sorter is deterministic for a given Seed.
type Session struct {
	ID        string    `json:"id"`
	Algorithm string    `json:"algorithm"`
	Seed      uint64    `json:"seed"`
	Original  []int     `json:"original"`
	Steps     int       `json:"steps"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted payload when the store encrypts at rest.
	// It is empty on every session handed to callers.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates a session that has not been stepped yet.
func NewSession(id, algorithm string, original []int, seed uint64) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Algorithm: algorithm,
		Seed:      seed,
		Original:  append([]int(nil), original...),
		Status:    StatusStart,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Original = append([]int(nil), s.Original...)
	return &cp
}
