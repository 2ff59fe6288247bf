// Package session owns the single budget session of a process: the
// aggregator plus the lock that serializes every snapshot read and write.
// The original design ran on one event loop; the mutex stands in for it.
package session

import (
	"sync"

	"bilancio/internal/core"
)

type Session struct {
	mu     sync.Mutex
	agg    *core.Aggregator
	notify func(core.Snapshot)
}

// New creates a session around a freshly constructed aggregator. Callers
// construct and own one session per process; there is no hidden singleton.
func New(agg *core.Aggregator) *Session {
	return &Session{agg: agg}
}

// SetNotify installs the hook invoked with the derived snapshot after every
// user edit. The sync engine registers its change observer here.
func (s *Session) SetNotify(fn func(core.Snapshot)) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// Registry returns the catalog behind the session's aggregator.
func (s *Session) Registry() *core.Registry {
	return s.agg.Registry()
}

// SetIncome applies a user edit and returns the recomputed snapshot. The
// notify hook runs under the session lock so observers see edits in the
// order they were applied; the hook must not call back into the session.
func (s *Session) SetIncome(v int64) core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.SetIncome(v)
	snap := s.agg.Snapshot()
	if s.notify != nil {
		s.notify(snap)
	}
	return snap
}

// SetCategoryAmount applies a user edit and returns the recomputed snapshot.
// Unknown ids are a no-op inside the aggregator but still notify, since the
// caller cannot tell the two apart and the observer deduplicates by equality.
// Notification ordering follows SetIncome: delivered under the session lock.
func (s *Session) SetCategoryAmount(id string, v int64) core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.SetCategoryAmount(id, v)
	snap := s.agg.Snapshot()
	if s.notify != nil {
		s.notify(snap)
	}
	return snap
}

// Snapshot returns the current derived snapshot.
func (s *Session) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agg.Snapshot()
}

// Overwrite replaces income and amounts wholesale, used by pull
// reconciliation. It does not run the notify hook; the sync engine handles
// the follow-up itself.
func (s *Session) Overwrite(snap core.Snapshot) {
	s.mu.Lock()
	s.agg.Restore(snap)
	s.mu.Unlock()
}
