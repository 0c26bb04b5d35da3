// Package visibility owns the scrubber's shown/hidden state, its opacity
// transitions and the idle timeout that hides it again.
package visibility

import (
	"log"
	"time"

	"foliotui/internal/domain"
	"foliotui/internal/sched"
)

// Settings holds the timings of the show/hide cycle
type Settings struct {
	ShowSpeed time.Duration
	HideSpeed time.Duration
	HideDelay time.Duration
}

// DefaultSettings returns the stock timings
func DefaultSettings() Settings {
	return Settings{
		ShowSpeed: 600 * time.Millisecond,
		HideSpeed: 600 * time.Millisecond,
		HideDelay: time.Second,
	}
}

// Listener is told about every Hidden/Visible transition
type Listener func(domain.Visibility)

// Controller is owned by a single event loop; none of its methods are safe to
// call from other goroutines.
type Controller struct {
	sched    sched.Scheduler
	anim     Animator
	settings Settings

	state     domain.Visibility
	held      bool
	hide      sched.Slot
	deadline  time.Time
	listeners []Listener
	closed    bool
}

// New creates a hidden Controller
func New(s sched.Scheduler, anim Animator, settings Settings) *Controller {
	return &Controller{
		sched:    s,
		anim:     anim,
		settings: settings,
		state:    domain.Hidden,
	}
}

// OnChange registers a transition listener
func (c *Controller) OnChange(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Show makes the scrubber visible and (re)arms the idle timeout.
// From Hidden it fades in and arms the timeout once the fade completes.
// While held open nothing is armed.
func (c *Controller) Show() {
	if c.closed {
		return
	}
	c.CancelPendingHide()

	if c.state == domain.Hidden {
		c.setState(domain.Visible)
		c.anim.Animate(1, c.settings.ShowSpeed, c.fadeInDone)
		return
	}
	c.ScheduleHide()
}

// Hide makes the scrubber hidden immediately and fades it out.
// Calling it while already hidden only clears the pending timeout.
func (c *Controller) Hide() {
	if c.closed {
		return
	}
	c.CancelPendingHide()
	if c.state == domain.Hidden {
		return
	}
	c.setState(domain.Hidden)
	c.anim.Animate(0, c.settings.HideSpeed, nil)
}

// ScheduleHide replaces any pending timeout with one hideDelay from now.
// Ignored while hidden or held open.
func (c *Controller) ScheduleHide() {
	if c.closed || c.held || c.state == domain.Hidden {
		return
	}
	c.deadline = c.sched.Now().Add(c.settings.HideDelay)
	c.hide.Schedule(c.sched, c.settings.HideDelay, c.onTimeout)
}

// CancelPendingHide drops the pending timeout without changing visibility
func (c *Controller) CancelPendingHide() {
	c.hide.Cancel()
	c.deadline = time.Time{}
}

// Hold keeps the scrubber open (during a drag). Holding cancels the timeout;
// releasing does not re-arm it, callers follow up with ScheduleHide.
func (c *Controller) Hold(held bool) {
	c.held = held
	if held {
		c.CancelPendingHide()
	}
}

// Held reports whether the scrubber is held open
func (c *Controller) Held() bool { return c.held }

// State returns the current visibility
func (c *Controller) State() domain.Visibility { return c.state }

// Visible is shorthand for State() == domain.Visible
func (c *Controller) Visible() bool { return c.state == domain.Visible }

// Opacity returns the presented opacity
func (c *Controller) Opacity() float64 { return c.anim.Opacity() }

// HideDeadline returns when the pending timeout fires, if one is pending
func (c *Controller) HideDeadline() (time.Time, bool) {
	if !c.hide.Pending() {
		return time.Time{}, false
	}
	return c.deadline, true
}

// Close cancels every timer and animation; the controller ignores calls afterwards
func (c *Controller) Close() {
	c.CancelPendingHide()
	c.anim.Stop()
	c.closed = true
}

func (c *Controller) fadeInDone() {
	// A Show() during the fade may already have armed a later deadline
	if c.held || c.hide.Pending() {
		return
	}
	c.ScheduleHide()
}

func (c *Controller) onTimeout() {
	c.deadline = time.Time{}
	c.Hide()
}

func (c *Controller) setState(v domain.Visibility) {
	if c.state == v {
		return
	}
	c.state = v
	log.Printf("Scrubber: %s", v)
	for _, l := range c.listeners {
		l(v)
	}
}
