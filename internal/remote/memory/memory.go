// Package memory is the in-process budget store: the default backend for
// local development and the test double for the sync engine.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bilancio/internal/core"
	"bilancio/internal/remote"
)

type Store struct {
	mu      sync.Mutex
	snap    core.Snapshot
	has     bool
	history []core.Snapshot
}

func New() *Store {
	return &Store{}
}

// NewSeeded starts the store with a snapshot already present, as if a
// previous session had pushed it.
func NewSeeded(s core.Snapshot) *Store {
	return &Store{snap: s, has: true}
}

// Fetch implements remote.Store.
func (s *Store) Fetch(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.has {
		return core.Snapshot{}, remote.ErrNotFound
	}
	return s.snap, nil
}

// Save implements remote.Store. Each save replaces the stored snapshot.
func (s *Store) Save(_ context.Context, snap core.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.has = true
	return nil
}

// Archive implements remote.Archiver with a synthetic row reference.
func (s *Store) Archive(_ context.Context, snap core.Snapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, snap)
	return fmt.Sprintf("mem:%d", len(s.history)), nil
}

// History returns the archived snapshots in order.
func (s *Store) History() []core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Snapshot, len(s.history))
	copy(out, s.history)
	return out
}
