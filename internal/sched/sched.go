// Package sched provides cancellable delayed callbacks that always fire on the
// owner's event loop, never on a timer goroutine.
package sched

import (
	"sync/atomic"
	"time"
)

// Task is a handle to a scheduled callback
type Task interface {
	// Cancel prevents the callback from running. It reports whether the task
	// was still pending.
	Cancel() bool
}

// Scheduler schedules callbacks after a delay
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Task
}

// Poster hands a function to an event loop
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a function to Poster
type PosterFunc func(fn func())

func (f PosterFunc) Post(fn func()) { f(fn) }

const (
	taskPending int32 = iota
	taskFired
	taskCancelled
)

type loopScheduler struct {
	poster Poster
}

// New returns a wall-clock Scheduler whose callbacks are delivered through poster.
// A task cancelled after its timer expired but before the loop ran it is still
// dropped: the pending check happens on the loop.
func New(poster Poster) Scheduler {
	return &loopScheduler{poster: poster}
}

func (s *loopScheduler) Now() time.Time { return time.Now() }

func (s *loopScheduler) AfterFunc(d time.Duration, fn func()) Task {
	t := &loopTask{}
	t.timer = time.AfterFunc(d, func() {
		s.poster.Post(func() {
			if t.state.CompareAndSwap(taskPending, taskFired) {
				fn()
			}
		})
	})
	return t
}

type loopTask struct {
	timer *time.Timer
	state atomic.Int32
}

func (t *loopTask) Cancel() bool {
	t.timer.Stop()
	return t.state.CompareAndSwap(taskPending, taskCancelled)
}

// Slot holds at most one pending task for a single purpose. Scheduling
// cancels whatever the slot held before. Not safe for concurrent use; it is
// meant to live in state owned by one event loop.
type Slot struct {
	task Task
	gen  uint64
}

// Schedule cancels the pending task, if any, and schedules fn after d
func (s *Slot) Schedule(sc Scheduler, d time.Duration, fn func()) {
	s.Cancel()
	s.gen++
	gen := s.gen
	s.task = sc.AfterFunc(d, func() {
		if s.gen == gen {
			s.task = nil
		}
		fn()
	})
}

// Cancel drops the pending task. It reports whether one was pending.
func (s *Slot) Cancel() bool {
	if s.task == nil {
		return false
	}
	t := s.task
	s.task = nil
	return t.Cancel()
}

// Pending reports whether a task is scheduled and has not fired
func (s *Slot) Pending() bool {
	return s.task != nil
}
