// Package countdown drives a deadline toward zero on a fixed tick, firing an
// edge-triggered warning and an exactly-once expiry callback.
package countdown

import (
	"sync"
	"time"
)

const (
	// DefaultInterval matches a one second UI tick.
	DefaultInterval = time.Second

	// WarningThreshold is when the low-time warning fires.
	WarningThreshold = time.Minute
)

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

// Callbacks receive timer events. They run on the timer goroutine outside
// the timer's lock, so they may call back into the Timer.
type Callbacks struct {
	OnTick    func(remaining time.Duration)
	OnWarning func()
	OnExpire  func()
}

type Option func(*Timer)

func WithInterval(d time.Duration) Option {
	return func(t *Timer) {
		t.interval = d
	}
}

func WithClock(c Clock) Option {
	return func(t *Timer) {
		t.clock = c
	}
}

// Timer ticks down to a deadline. Remaining time never goes negative: once
// the deadline passes, OnExpire fires exactly once and the loop stops.
// Extending the deadline back above the warning threshold re-arms the warning.
type Timer struct {
	mu       sync.Mutex
	deadline time.Time
	clock    Clock
	interval time.Duration
	cb       Callbacks

	stop    chan struct{}
	stopped bool
	warned  bool
	expired bool
	prev    time.Duration
}

func New(deadline time.Time, cb Callbacks, opts ...Option) *Timer {
	t := &Timer{
		deadline: deadline,
		clock:    time.Now,
		interval: DefaultInterval,
		cb:       cb,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.prev = t.remainingLocked()
	return t
}

// Remaining reports time left, clamped at zero.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remainingLocked()
}

func (t *Timer) remainingLocked() time.Duration {
	remaining := t.deadline.Sub(t.clock())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SetDeadline moves the deadline and re-arms warning and expiry if the new
// deadline leaves time on the clock.
func (t *Timer) SetDeadline(deadline time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.deadline = deadline
	remaining := t.remainingLocked()
	t.prev = remaining
	if remaining > WarningThreshold {
		t.warned = false
	}
	if remaining > 0 {
		t.expired = false
	}
}

// Start runs the tick loop until expiry or Stop. It returns immediately; the
// loop runs on its own goroutine.
func (t *Timer) Start() {
	go t.run()
}

// Stop halts the loop. Idempotent; once Stop returns no callback will fire.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true
	close(t.stop)
}

func (t *Timer) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if done := t.tick(); done {
				return
			}
		}
	}
}

// tick evaluates one observation and fires any due callbacks outside the
// lock. Returns true once expiry has fired.
func (t *Timer) tick() bool {
	t.mu.Lock()

	if t.stopped {
		t.mu.Unlock()
		return true
	}

	remaining := t.remainingLocked()

	// Warning fires only on the crossing, never when the timer started
	// below the threshold already.
	fireWarning := !t.warned && remaining <= WarningThreshold && remaining > 0 && t.prev > WarningThreshold
	if fireWarning {
		t.warned = true
	}

	t.prev = remaining

	fireExpiry := remaining == 0 && !t.expired
	if fireExpiry {
		t.expired = true
	}

	t.mu.Unlock()

	if t.cb.OnTick != nil {
		t.cb.OnTick(remaining)
	}
	if fireWarning && t.cb.OnWarning != nil {
		t.cb.OnWarning()
	}
	if fireExpiry {
		if t.cb.OnExpire != nil {
			t.cb.OnExpire()
		}
		return true
	}

	return false
}
