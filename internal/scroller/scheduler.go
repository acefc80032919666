package scroller

import "time"

// Default timings of the update scheduler.
const (
	DefaultScrollWait         = 100 * time.Millisecond
	DefaultScrollMaxWait      = 100 * time.Millisecond
	DefaultPositioningTimeout = 500 * time.Millisecond
)

// Scheduler is the timing surface supplied by the host. Every callback must
// run on the goroutine that owns the engine; none of the methods may run fn
// synchronously.
type Scheduler interface {
	// Frame runs fn before the next frame is drawn.
	Frame(fn func())
	// After runs fn once d has elapsed. stop prevents the call if it has
	// not happened yet and reports whether it did so.
	After(d time.Duration, fn func()) (stop func() bool)
	// Now returns the host's current time.
	Now() time.Time
}

// IdleScheduler is implemented by hosts that can tell when they have spare
// capacity.
type IdleScheduler interface {
	Scheduler
	// Idle runs fn when the host is idle, or after timeout at the latest. A
	// zero timeout waits for idleness indefinitely.
	Idle(fn func(), timeout time.Duration)
}

// idleOrFrame returns a schedule function that prefers idle time and falls
// back to frames.
func idleOrFrame(s Scheduler, timeout time.Duration) func(func()) {
	if is, ok := s.(IdleScheduler); ok {
		return func(fn func()) { is.Idle(fn, timeout) }
	}
	return s.Frame
}

// coalescer keeps at most one call of fn pending on its schedule.
type coalescer struct {
	schedule func(func())
	fn       func()
	pending  bool
}

func newCoalescer(schedule func(func()), fn func()) *coalescer {
	return &coalescer{schedule: schedule, fn: fn}
}

// Trigger schedules fn unless a call is already pending. It reports whether
// a new call was scheduled.
func (c *coalescer) Trigger() bool {
	if c.pending {
		return false
	}
	c.pending = true
	c.schedule(c.run)
	return true
}

func (c *coalescer) run() {
	c.pending = false
	c.fn()
}

// debouncer delays fn until calls stop for wait, but never by more than
// maxWait after the first call of a burst. maxWait is raised to wait, so a
// burst always fires within max(wait, maxWait).
type debouncer struct {
	sched   Scheduler
	wait    time.Duration
	maxWait time.Duration
	fn      func()

	pending bool
	first   time.Time
	last    time.Time
	stop    func() bool
}

func newDebouncer(s Scheduler, wait, maxWait time.Duration, fn func()) *debouncer {
	d := &debouncer{sched: s, fn: fn}
	d.setLimits(wait, maxWait)
	return d
}

// setLimits changes the limits. A pending burst keeps its timer and is judged
// by the new limits when it fires.
func (d *debouncer) setLimits(wait, maxWait time.Duration) {
	d.wait = wait
	d.maxWait = max(maxWait, wait)
}

// Call records a call. Only the first call of a burst arms a timer.
func (d *debouncer) Call() {
	now := d.sched.Now()
	d.last = now
	if d.pending {
		return
	}
	d.pending = true
	d.first = now
	d.arm(d.wait)
}

// Pending reports whether a call is waiting to fire.
func (d *debouncer) Pending() bool {
	return d.pending
}

// Cancel drops the pending call, if any.
func (d *debouncer) Cancel() {
	if d.stop != nil {
		d.stop()
	}
	d.stop = nil
	d.pending = false
}

func (d *debouncer) arm(delay time.Duration) {
	d.stop = d.sched.After(max(0, delay), d.fire)
}

func (d *debouncer) fire() {
	if !d.pending {
		return
	}
	now := d.sched.Now()
	sinceLast := now.Sub(d.last)
	sinceFirst := now.Sub(d.first)
	if sinceLast >= d.wait || sinceFirst >= d.maxWait {
		d.pending = false
		d.stop = nil
		d.fn()
		return
	}
	d.arm(min(d.wait-sinceLast, d.maxWait-sinceFirst))
}
