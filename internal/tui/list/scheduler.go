package list

import (
	"log/slog"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/turbo/internal/scroller"
)

const (
	frameInterval = time.Second / 60
	idleGap       = 50 * time.Millisecond
)

var _ scroller.IdleScheduler = (*Scheduler)(nil)

type (
	frameMsg struct{}
	idleMsg  struct{}
	timerMsg struct{ t *timer }
)

type timer struct {
	fn      func()
	t       *time.Timer
	fired   bool
	stopped bool
}

type idleTask struct {
	fn       func()
	deadline time.Time
}

// Scheduler runs engine callbacks inside the bubbletea update loop. Frames
// and idle checks are driven by ticks returned from Cmd; timers fire on
// their own goroutine and are pumped back into the program by Listen.
//
// Every method but Listen must be called from the program's update
// goroutine.
type Scheduler struct {
	now func() time.Time

	frames         []func()
	frameRequested bool

	idles         []idleTask
	idleRequested bool
	lastInput     time.Time

	msgs      chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

// NewScheduler returns a scheduler using the wall clock.
func NewScheduler() *Scheduler {
	return &Scheduler{
		now:  time.Now,
		msgs: make(chan tea.Msg, 64),
		done: make(chan struct{}),
	}
}

// Frame implements scroller.Scheduler.
func (s *Scheduler) Frame(fn func()) {
	s.frames = append(s.frames, fn)
}

// After implements scroller.Scheduler.
func (s *Scheduler) After(d time.Duration, fn func()) func() bool {
	tm := &timer{fn: fn}
	tm.t = time.AfterFunc(d, func() {
		select {
		case s.msgs <- timerMsg{tm}:
		case <-s.done:
		}
	})
	return func() bool {
		if tm.fired || tm.stopped {
			return false
		}
		tm.stopped = true
		tm.t.Stop()
		return true
	}
}

// Now implements scroller.Scheduler.
func (s *Scheduler) Now() time.Time {
	return s.now()
}

// Idle implements scroller.IdleScheduler. The program counts as idle once no
// input arrived for a short while.
func (s *Scheduler) Idle(fn func(), timeout time.Duration) {
	task := idleTask{fn: fn}
	if timeout > 0 {
		task.deadline = s.now().Add(timeout)
	}
	s.idles = append(s.idles, task)
}

// Input records user activity, which postpones idle work.
func (s *Scheduler) Input() {
	s.lastInput = s.now()
}

// Listen waits for the next timer. It must be issued again after every
// message it produced has been handled.
func (s *Scheduler) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.msgs:
			return msg
		case <-s.done:
			return nil
		}
	}
}

// Cmd returns the ticks needed to run pending frames and idle work.
func (s *Scheduler) Cmd() tea.Cmd {
	var cmds []tea.Cmd
	if len(s.frames) > 0 && !s.frameRequested {
		s.frameRequested = true
		cmds = append(cmds, tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} }))
	}
	if len(s.idles) > 0 && !s.idleRequested {
		s.idleRequested = true
		cmds = append(cmds, tea.Tick(idleGap, func(time.Time) tea.Msg { return idleMsg{} }))
	}
	return tea.Batch(cmds...)
}

// Handle runs the work msg stands for. It reports whether msg belonged to
// the scheduler and, for timers, returns the command to keep listening.
func (s *Scheduler) Handle(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		s.frameRequested = false
		s.runFrames()
		return true, nil
	case idleMsg:
		s.idleRequested = false
		s.runIdle()
		return true, nil
	case timerMsg:
		tm := msg.t
		if !tm.stopped && !tm.fired {
			tm.fired = true
			tm.fn()
		}
		return true, s.Listen()
	}
	return false, nil
}

// Close stops the timer pump. Pending work is dropped.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if n := len(s.frames) + len(s.idles); n > 0 {
			slog.Debug("Dropping scheduled work", "tasks", n)
		}
		s.frames = nil
		s.idles = nil
	})
}

// runFrames runs the frames queued so far. Frames queued while running wait
// for the next tick.
func (s *Scheduler) runFrames() {
	batch := s.frames
	s.frames = nil
	for _, fn := range batch {
		fn()
	}
}

func (s *Scheduler) runIdle() {
	now := s.now()
	quiet := now.Sub(s.lastInput) >= idleGap

	batch := s.idles
	s.idles = nil
	var waiting []idleTask
	for _, task := range batch {
		if quiet || (!task.deadline.IsZero() && !now.Before(task.deadline)) {
			task.fn()
			continue
		}
		waiting = append(waiting, task)
	}
	s.idles = append(waiting, s.idles...)
}
