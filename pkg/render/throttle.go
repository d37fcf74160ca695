package render

import (
	"sync"
	"time"
)

// FrameInterval approximates one animation frame.
const FrameInterval = 16 * time.Millisecond

// Throttle coalesces high-frequency update requests down to at most one
// execution per interval. A request arriving while one is pending
// replaces it rather than queuing behind it.
type Throttle struct {
	interval time.Duration

	mu      sync.Mutex
	pending func()
	timer   *time.Timer
	stopped bool
}

// NewThrottle returns a throttle firing at most once per interval.
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = FrameInterval
	}
	return &Throttle{interval: interval}
}

// Submit schedules fn for the next frame. If a function is already
// pending, fn replaces it.
func (t *Throttle) Submit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending = fn
	if t.timer == nil {
		t.timer = time.AfterFunc(t.interval, t.fire)
	}
}

// Flush runs the pending function immediately, if any. Used when a
// gesture ends and the final state must not wait for the next frame.
func (t *Throttle) Flush() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Stop discards any pending function and rejects further submissions.
func (t *Throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Throttle) fire() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	t.timer = nil
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}
