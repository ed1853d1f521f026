package countdown_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fuseroom/fuseroom/pkg/countdown"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const tick = 2 * time.Millisecond

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func assertQuiet(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("unexpected %s", what)
	case <-time.After(20 * tick):
	}
}

func newTestTimer(deadline time.Time, clock *fakeClock) (*countdown.Timer, chan struct{}, chan struct{}) {
	warnings := make(chan struct{}, 8)
	expiries := make(chan struct{}, 8)

	timer := countdown.New(deadline, countdown.Callbacks{
		OnWarning: func() { warnings <- struct{}{} },
		OnExpire:  func() { expiries <- struct{}{} },
	}, countdown.WithClock(clock.Now), countdown.WithInterval(tick))

	return timer, warnings, expiries
}

func TestWarningFiresOnceOnCrossing(t *testing.T) {
	base := time.Now()
	clock := newFakeClock(base)
	timer, warnings, _ := newTestTimer(base.Add(70*time.Second), clock)
	defer timer.Stop()

	timer.Start()

	assertQuiet(t, warnings, "warning while above threshold")

	clock.Advance(15 * time.Second) // remaining 55s
	waitFor(t, warnings, "warning after crossing the threshold")

	assertQuiet(t, warnings, "second warning without re-arming")
}

func TestNoWarningWhenStartedBelowThreshold(t *testing.T) {
	base := time.Now()
	clock := newFakeClock(base)
	timer, warnings, _ := newTestTimer(base.Add(30*time.Second), clock)
	defer timer.Stop()

	timer.Start()

	assertQuiet(t, warnings, "warning for a timer that never crossed")
}

func TestExpiryFiresExactlyOnce(t *testing.T) {
	base := time.Now()
	clock := newFakeClock(base)
	timer, _, expiries := newTestTimer(base.Add(10*time.Second), clock)
	defer timer.Stop()

	timer.Start()

	clock.Advance(time.Minute)
	waitFor(t, expiries, "expiry")
	assertQuiet(t, expiries, "second expiry")

	assert.Equal(t, time.Duration(0), timer.Remaining())
}

func TestSetDeadlineRearmsWarningAndExpiry(t *testing.T) {
	base := time.Now()
	clock := newFakeClock(base)
	timer, warnings, expiries := newTestTimer(base.Add(70*time.Second), clock)
	defer timer.Stop()

	timer.Start()

	clock.Advance(15 * time.Second)
	waitFor(t, warnings, "first warning")

	// An extension pushes the deadline back above the threshold.
	timer.SetDeadline(clock.Now().Add(5 * time.Minute))
	assertQuiet(t, warnings, "warning right after extension")

	clock.Advance(4*time.Minute + 10*time.Second) // remaining 50s
	waitFor(t, warnings, "re-armed warning")

	clock.Advance(time.Minute)
	waitFor(t, expiries, "expiry after extension")
}

func TestStopCancelsCallbacks(t *testing.T) {
	base := time.Now()
	clock := newFakeClock(base)
	timer, warnings, expiries := newTestTimer(base.Add(10*time.Second), clock)

	timer.Start()
	timer.Stop()

	clock.Advance(time.Minute)
	assertQuiet(t, warnings, "warning after stop")
	assertQuiet(t, expiries, "expiry after stop")

	// Stop is idempotent.
	timer.Stop()
}

func TestRemainingClampsAtZero(t *testing.T) {
	base := time.Now()
	clock := newFakeClock(base)
	timer, _, _ := newTestTimer(base.Add(5*time.Second), clock)

	assert.Equal(t, 5*time.Second, timer.Remaining())

	clock.Advance(time.Hour)
	assert.Equal(t, time.Duration(0), timer.Remaining())
}
