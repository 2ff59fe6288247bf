// Package syncer keeps the remote copy of the budget approximately current:
// a debounced push after local edits and a periodic pull that reconciles
// remote changes back in. Both directions are best effort; failures are
// logged and swallowed, never surfaced to the user.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/remote"
)

// Source is the local side of the sync: the session's thread-safe view of
// the budget snapshot.
type Source interface {
	Snapshot() core.Snapshot
	Overwrite(core.Snapshot)
}

// Config holds the two timer settings of the engine.
type Config struct {
	// PushDebounce is the quiet period after the last change before one
	// push fires (trailing edge).
	PushDebounce time.Duration

	// PullInterval is the fixed period of the reconciliation loop.
	PullInterval time.Duration
}

// DefaultConfig returns the reference timings.
func DefaultConfig() Config {
	return Config{
		PushDebounce: 3 * time.Second,
		PullInterval: 30 * time.Second,
	}
}

// Engine owns the sync cursor and the two independent timers. Push and pull
// never block or cancel each other; in-flight requests are not cancelled
// once issued, since a push is an idempotent replacement of server state.
type Engine struct {
	store    remote.Store
	source   Source
	config   Config
	deferred Deferred

	// Cursor state. lastPushed tracks the newest intent, updated before
	// the network call fires, so equality checks always see the latest.
	mu         sync.Mutex
	lastPushed *core.Snapshot

	running bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates an engine for one session. A nil deferred gets the real
// timer-backed one; tests inject a manual fake.
func New(store remote.Store, source Source, config Config, deferred Deferred) *Engine {
	if deferred == nil {
		deferred = NewDeferred()
	}
	return &Engine{
		store:    store,
		source:   source,
		config:   config,
		deferred: deferred,
	}
}

// Start hydrates local state with one immediate, un-throttled pull and then
// runs the periodic pull loop until Stop. Returns an error if already
// running.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return fmt.Errorf("sync engine is already running")
	}
	e.running = true
	e.stopped = false
	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})
	e.mu.Unlock()

	// Hydrate before the user's first edit.
	e.pull(ctx)

	go e.runLoop(ctx)

	slog.InfoContext(ctx, "Sync engine started",
		"push_debounce", e.config.PushDebounce,
		"pull_interval", e.config.PullInterval)

	return nil
}

// Stop cancels the timers and abandons any pending push: best effort only,
// no flush-on-exit guarantee. Safe to call more than once; a repeat call
// after a timed-out first attempt returns nil without touching the channel.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.running || e.stopped {
		e.mu.Unlock()
		return nil
	}
	e.stopped = true
	e.mu.Unlock()

	close(e.stopCh)
	e.deferred.Stop()

	select {
	case <-e.doneCh:
		slog.InfoContext(ctx, "Sync engine stopped")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync engine stop timed out")
		return ctx.Err()
	}

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()

	return nil
}

// IsRunning reports whether the pull loop is active.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// OnSnapshot observes a snapshot change. Equal to the cursor means no-op:
// two identical consecutive snapshots schedule exactly one push. Different
// means record the new intent immediately and cancel-and-rearm the debounce
// timer, so the eventual push carries the newest value. Changes arriving
// after Stop are dropped; a pending push is abandoned, not replaced.
func (e *Engine) OnSnapshot(snap core.Snapshot) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	if e.lastPushed != nil && e.lastPushed.Equal(snap) {
		e.mu.Unlock()
		return
	}
	captured := snap
	e.lastPushed = &captured
	e.mu.Unlock()

	e.deferred.Arm(e.config.PushDebounce, func() {
		e.push(context.Background(), captured)
	})
}

func (e *Engine) runLoop(ctx context.Context) {
	defer close(e.doneCh)

	ticker := time.NewTicker(e.config.PullInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.pull(ctx)
		}
	}
}

// push sends one snapshot to the store. Failures are diagnostics only.
func (e *Engine) push(ctx context.Context, snap core.Snapshot) {
	if err := e.store.Save(ctx, snap); err != nil {
		slog.WarnContext(ctx, "Budget push failed, will retry on next change",
			"error", err)
		return
	}
	slog.DebugContext(ctx, "Budget pushed",
		"income", snap.Income,
		"total_expenses", snap.TotalExpenses)
}

// pull fetches the remote snapshot and overwrites local state when they
// differ (last-fetch-wins, no merge). An equal snapshot produces no
// observable change. The overwrite itself counts as a snapshot change and
// re-enters the debounce path, which no-ops when it matches the cursor.
func (e *Engine) pull(ctx context.Context) {
	remoteSnap, err := e.store.Fetch(ctx)
	if err != nil {
		slog.DebugContext(ctx, "Budget pull failed", "error", err)
		return
	}

	local := e.source.Snapshot()
	if remoteSnap.Equal(local) {
		return
	}

	slog.InfoContext(ctx, "Remote budget differs, reconciling local state",
		"remote_income", remoteSnap.Income,
		"local_income", local.Income)

	e.source.Overwrite(remoteSnap)
	e.OnSnapshot(e.source.Snapshot())
}
