package sched

import "time"

// Manual is a virtual-clock Scheduler. Time only moves when Advance is called,
// and due callbacks run synchronously on the caller's goroutine in deadline
// order. Intended for tests and simulations driven from a single goroutine.
type Manual struct {
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	due       time.Time
	seq       uint64
	fn        func()
	cancelled bool
	fired     bool
}

func (t *manualTask) Cancel() bool {
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}

// NewManual creates a Manual scheduler starting at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time { return m.now }

func (m *Manual) AfterFunc(d time.Duration, fn func()) Task {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTask{due: m.now.Add(d), seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the clock forward by d, running every callback that falls due.
// Callbacks scheduled while advancing run too if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target, true)
		if next == nil {
			break
		}
		m.now = next.due
		next.fired = true
		next.fn()
	}
	m.now = target
	m.compact()
}

// RunPending advances just far enough to run every task scheduled so far
func (m *Manual) RunPending() {
	var last time.Time
	for _, t := range m.tasks {
		if !t.cancelled && !t.fired && t.due.After(last) {
			last = t.due
		}
	}
	if last.After(m.now) {
		m.Advance(last.Sub(m.now))
		return
	}
	m.Advance(0)
}

// Pending returns the number of scheduled callbacks that have not run
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.tasks {
		if !t.cancelled && !t.fired {
			n++
		}
	}
	return n
}

// NextDeadline returns the earliest pending deadline
func (m *Manual) NextDeadline() (time.Time, bool) {
	t := m.nextDue(time.Time{}, false)
	if t == nil {
		return time.Time{}, false
	}
	return t.due, true
}

func (m *Manual) nextDue(limit time.Time, bounded bool) *manualTask {
	var best *manualTask
	for _, t := range m.tasks {
		if t.cancelled || t.fired {
			continue
		}
		if bounded && t.due.After(limit) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.cancelled && !t.fired {
			live = append(live, t)
		}
	}
	m.tasks = live
}
