package syncer

import (
	"sync"
	"time"
)

// Deferred is a single deferred action with cancel-and-rearm semantics:
// Arm schedules fn after d, cancelling whatever was armed before. The sync
// engine's debounce timer is injected through this interface so tests can
// drive it manually.
type Deferred interface {
	Arm(d time.Duration, fn func())
	Stop()
}

// timerDeferred is the wall-clock implementation on time.AfterFunc.
type timerDeferred struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewDeferred returns the real, timer-backed Deferred.
func NewDeferred() Deferred {
	return &timerDeferred{}
}

func (d *timerDeferred) Arm(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, fn)
}

func (d *timerDeferred) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
