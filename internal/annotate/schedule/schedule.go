// Package schedule runs analysis passes on a single-slot, cancellable
// timer.
//
// Every Debounce or Immediate call replaces whatever is pending and bumps
// the generation. A firing timer whose generation is no longer the latest
// does nothing, and passes never overlap: the task runs under a mutex on
// the timer's goroutine, so callers are never blocked by a pass.
package schedule

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/copyedit/internal/logging"
)

// DefaultDelay is the debounce interval after an edit.
const DefaultDelay = 300 * time.Millisecond

// ErrClosed is returned when scheduling on a closed scheduler.
var ErrClosed = errors.New("scheduler closed")

// Task is one analysis pass. gen identifies the request that triggered it.
type Task func(gen uint64)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithDelay sets the debounce interval. Non-positive values are ignored.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// Stats counts scheduler activity.
type Stats struct {
	Scheduled  int
	Canceled   int
	Superseded int
	Runs       int
	Panics     int
}

// Scheduler is safe for concurrent use.
type Scheduler struct {
	task  Task
	clock Clock
	log   *logging.Logger

	mu      sync.Mutex
	delay   time.Duration
	timer   Timer
	pending bool
	gen     uint64
	closed  bool
	stats   Stats

	runMu sync.Mutex
}

// New creates a scheduler for task.
func New(task Task, opts ...Option) *Scheduler {
	s := &Scheduler{
		task:  task,
		clock: RealClock{},
		delay: DefaultDelay,
		log:   logging.Null(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("scheduler")
	return s
}

// Debounce cancels any pending pass and schedules a new one after the
// debounce interval. It returns the new generation.
func (s *Scheduler) Debounce() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduleLocked(s.delay)
}

// Immediate cancels any pending pass and schedules a new one with no
// delay. It returns the new generation.
func (s *Scheduler) Immediate() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduleLocked(0)
}

// scheduleLocked replaces the pending timer (must hold lock).
func (s *Scheduler) scheduleLocked(d time.Duration) (uint64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.stopLocked() {
		s.stats.Superseded++
	}
	s.gen++
	gen := s.gen
	s.pending = true
	s.stats.Scheduled++
	s.timer = s.clock.AfterFunc(d, func() {
		s.fire(gen)
	})
	return gen, nil
}

// stopLocked stops the pending timer and reports whether one was pending
// (must hold lock).
func (s *Scheduler) stopLocked() bool {
	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	wasPending := s.pending
	s.pending = false
	return wasPending
}

// Cancel drops the pending pass, if any. A pass already running finishes.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopLocked() {
		s.stats.Canceled++
	}
	// A timer that already fired must not run its task.
	s.gen++
}

// Close cancels the pending pass and waits for a running one to finish.
// Nothing runs afterwards. Close is idempotent.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopLocked()
	s.gen++
	s.mu.Unlock()

	s.runMu.Lock()
	defer s.runMu.Unlock()
}

// Flush runs the pending pass now on the calling goroutine. It reports
// false when nothing was pending.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	if s.closed || !s.pending {
		s.mu.Unlock()
		return false
	}
	s.stopLocked()
	gen := s.gen
	s.mu.Unlock()

	s.run(gen)
	return true
}

// SetDelay changes the debounce interval for later calls.
func (s *Scheduler) SetDelay(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Delay returns the debounce interval.
func (s *Scheduler) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// Pending reports whether a pass is waiting on its timer.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Generation returns the latest generation handed out.
func (s *Scheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Stats returns a copy of the counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// fire is the timer callback.
func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.timer = nil
	s.mu.Unlock()

	s.run(gen)
}

// run executes the task unless a newer request arrived while waiting for
// the previous pass.
func (s *Scheduler) run(gen uint64) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		s.log.Debug("skipping superseded pass %d", gen)
		return
	}
	s.stats.Runs++
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.stats.Panics++
			s.mu.Unlock()
			s.log.Error("analysis pass %d panicked: %v", gen, r)
		}
	}()
	s.task(gen)
}
