// Package scrollertest provides deterministic fakes for driving a
// scroller.Engine in tests and simulations.
package scrollertest

import (
	"slices"
	"time"

	"github.com/charmbracelet/turbo/internal/scroller"
)

var (
	_ scroller.Scheduler     = (*Scheduler)(nil)
	_ scroller.IdleScheduler = (*IdleScheduler)(nil)
)

// Epoch is the time every fake clock starts at.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

type timer struct {
	at      time.Time
	seq     int
	fn      func()
	stopped bool
}

// Scheduler is a scroller.Scheduler with a manual clock. Nothing runs until
// the test advances the clock or flushes frames.
type Scheduler struct {
	now    time.Time
	seq    int
	frames []func()
	timers []*timer
}

// NewScheduler returns a scheduler without idle support.
func NewScheduler() *Scheduler {
	return &Scheduler{now: Epoch}
}

// Frame implements scroller.Scheduler.
func (s *Scheduler) Frame(fn func()) {
	s.frames = append(s.frames, fn)
}

// After implements scroller.Scheduler.
func (s *Scheduler) After(d time.Duration, fn func()) func() bool {
	s.seq++
	t := &timer{at: s.now.Add(d), seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return func() bool {
		if t.stopped || !slices.Contains(s.timers, t) {
			return false
		}
		t.stopped = true
		return true
	}
}

// Now implements scroller.Scheduler.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// Advance moves the clock forward by d, firing due timers in order.
func (s *Scheduler) Advance(d time.Duration) {
	s.advance(d, nil)
}

func (s *Scheduler) advance(d time.Duration, due func()) {
	target := s.now.Add(d)
	for {
		t := s.nextTimer(target)
		if t == nil {
			break
		}
		s.now = t.at
		t.fn()
	}
	s.now = target
	if due != nil {
		due()
	}
}

// nextTimer removes and returns the earliest live timer due by target.
func (s *Scheduler) nextTimer(target time.Time) *timer {
	s.timers = slices.DeleteFunc(s.timers, func(t *timer) bool { return t.stopped })
	if len(s.timers) == 0 {
		return nil
	}
	i := 0
	for j, t := range s.timers {
		if t.at.Before(s.timers[i].at) || (t.at.Equal(s.timers[i].at) && t.seq < s.timers[i].seq) {
			i = j
		}
	}
	t := s.timers[i]
	if t.at.After(target) {
		return nil
	}
	s.timers = slices.Delete(s.timers, i, i+1)
	return t
}

// RunFrame runs the callbacks queued for the next frame. Callbacks they queue
// wait for the frame after. It returns the number of callbacks run.
func (s *Scheduler) RunFrame() int {
	batch := s.frames
	s.frames = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// PendingFrames returns the number of callbacks waiting for a frame.
func (s *Scheduler) PendingFrames() int {
	return len(s.frames)
}

// PendingTimers returns the number of armed timers.
func (s *Scheduler) PendingTimers() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Settle runs frames until none are left, giving up after limit rounds. It
// returns the number of rounds run.
func (s *Scheduler) Settle(limit int) int {
	rounds := 0
	for rounds < limit && s.RunFrame() > 0 {
		rounds++
	}
	return rounds
}

type idleTask struct {
	fn       func()
	deadline time.Time
}

// IdleScheduler is a Scheduler that also supports idle callbacks. Idle work
// runs on RunIdle, or on Advance once its timeout has passed.
type IdleScheduler struct {
	*Scheduler
	idles []idleTask
}

// NewIdleScheduler returns a scheduler with idle support.
func NewIdleScheduler() *IdleScheduler {
	return &IdleScheduler{Scheduler: NewScheduler()}
}

// Idle implements scroller.IdleScheduler.
func (s *IdleScheduler) Idle(fn func(), timeout time.Duration) {
	task := idleTask{fn: fn}
	if timeout > 0 {
		task.deadline = s.now.Add(timeout)
	}
	s.idles = append(s.idles, task)
}

// RunIdle runs every queued idle callback and returns how many ran.
func (s *IdleScheduler) RunIdle() int {
	batch := s.idles
	s.idles = nil
	for _, t := range batch {
		t.fn()
	}
	return len(batch)
}

// PendingIdle returns the number of queued idle callbacks.
func (s *IdleScheduler) PendingIdle() int {
	return len(s.idles)
}

// Advance moves the clock forward and runs idle callbacks whose timeout has
// expired.
func (s *IdleScheduler) Advance(d time.Duration) {
	s.advance(d, s.runExpired)
}

func (s *IdleScheduler) runExpired() {
	var expired []idleTask
	s.idles = slices.DeleteFunc(s.idles, func(t idleTask) bool {
		if !t.deadline.IsZero() && !t.deadline.After(s.now) {
			expired = append(expired, t)
			return true
		}
		return false
	})
	for _, t := range expired {
		t.fn()
	}
}

// Settle runs frames and idle callbacks until none are left, giving up after
// limit rounds.
func (s *IdleScheduler) Settle(limit int) int {
	rounds := 0
	for rounds < limit && s.RunFrame()+s.RunIdle() > 0 {
		rounds++
	}
	return rounds
}
