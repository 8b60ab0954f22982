package services

import (
	"sync"
	"time"
)

// DefaultDebounceInterval is the quiet period applied to typed queries,
// matching the mobile client's 500ms debounce.
const DefaultDebounceInterval = 500 * time.Millisecond

// QueryDebouncer gates rapid repeated query pushes and emits only the last
// pushed value once the quiet period elapses with no newer push. Only the
// trailing call survives; a new push always supersedes a pending timer.
type QueryDebouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	emit     func(string)
	stopped  bool
}

// NewQueryDebouncer creates a debouncer emitting downstream via emit.
func NewQueryDebouncer(interval time.Duration, emit func(string)) *QueryDebouncer {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	return &QueryDebouncer{
		interval: interval,
		emit:     emit,
	}
}

// Push restarts the quiet-period timer with value as the pending emission.
func (d *QueryDebouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.emit(value)
	})
}

// Stop cancels any pending emission. Further pushes are ignored.
func (d *QueryDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
