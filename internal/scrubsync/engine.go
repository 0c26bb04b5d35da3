// Package scrubsync keeps a content view's scroll offset and the scrubber
// control consistent with each other, and decides when the scrubber shows.
//
// The engine is driven by two independent sources: the content scrolling under
// the user's finger (or programmatically), and the user dragging the scrubber.
// While a drag is in progress the scrubber owns the position: content scroll
// callbacks never write the scrubber value, so the control does not fight the
// touch.
//
// An Engine belongs to one event loop. Its handlers must all be called from
// that loop; see Session for hosts that receive events on other goroutines.
package scrubsync

import (
	"log"
	"time"

	"foliotui/internal/domain"
	"foliotui/internal/position"
	"foliotui/internal/sched"
	"foliotui/internal/visibility"
)

// ContentView is the scrollable rendering surface
type ContentView interface {
	ScrollOffset(mode domain.DirectionMode) float64
	ViewportSize() domain.Size
	ContentSize() domain.Size
	SetScrollOffset(offset float64, animated bool)
}

// Scrubber is the position indicator control the engine writes to
type Scrubber interface {
	SetValue(fraction float64)
}

// ScrubberFunc adapts a function to Scrubber
type ScrubberFunc func(fraction float64)

func (f ScrubberFunc) SetValue(fraction float64) { f(fraction) }

// Settings configures an Engine
type Settings struct {
	Visibility         visibility.Settings
	MotionThreshold    float64
	BaselineResetDelay time.Duration
	FrameInterval      time.Duration
}

// DefaultSettings returns the stock engine settings
func DefaultSettings() Settings {
	return Settings{
		Visibility:         visibility.DefaultSettings(),
		MotionThreshold:    0.2,
		BaselineResetDelay: 500 * time.Millisecond,
		FrameInterval:      visibility.DefaultFrameInterval,
	}
}

// state is everything the handlers mutate
type state struct {
	dragging bool
	drag     Baseline
	motion   *MotionDetector
	reset    sched.Slot
	fraction float64
	closed   bool
}

// Engine is the scroll/scrubber synchronization state machine
type Engine struct {
	mode     domain.DirectionMode
	settings Settings
	sched    sched.Scheduler
	vis      *visibility.Controller
	scrubber Scrubber
	view     ContentView
	st       state
}

// New creates an Engine. The scrubber starts hidden and no content view is attached.
func New(mode domain.DirectionMode, settings Settings, s sched.Scheduler, anim visibility.Animator, scrubber Scrubber) *Engine {
	e := &Engine{
		mode:     mode,
		settings: settings,
		sched:    s,
		vis:      visibility.New(s, anim, settings.Visibility),
		scrubber: scrubber,
		st: state{
			motion: NewMotionDetector(settings.MotionThreshold),
		},
	}
	// Travel is measured afresh every time the scrubber appears or disappears
	e.vis.OnChange(func(domain.Visibility) { e.resetBaseline() })
	return e
}

// Mode returns the direction mode the engine maps with
func (e *Engine) Mode() domain.DirectionMode { return e.mode }

// OnVisibilityChange registers a listener for Hidden/Visible transitions
func (e *Engine) OnVisibilityChange(l visibility.Listener) {
	e.vis.OnChange(l)
}

// Attach connects the content view. Until a view is attached every handler is a no-op.
func (e *Engine) Attach(view ContentView) {
	if e.st.closed {
		return
	}
	e.view = view
	e.st.reset.Cancel()
	e.st.motion.Clear()
}

// Detach disconnects the content view
func (e *Engine) Detach() {
	e.view = nil
	e.st.reset.Cancel()
	e.st.motion.Clear()
}

// OnScrollBegin handles the user starting to drag the content
func (e *Engine) OnScrollBegin() {
	if !e.tracking() {
		return
	}
	e.st.reset.Cancel()
	e.st.motion.Capture(e.view.ScrollOffset(e.mode), e.sched.Now())
}

// OnScrollChanged handles every content offset change
func (e *Engine) OnScrollChanged(offset float64) {
	if !e.tracking() {
		return
	}

	if e.vis.Visible() && !e.st.dragging {
		e.writeScrubber(offset)
	}

	// Any opacity left, including a fade-out in progress, brings the scrubber back
	if e.vis.Opacity() > 0 {
		if !e.vis.Visible() && !e.st.dragging {
			e.writeScrubber(offset)
		}
		e.vis.Show()
		return
	}

	page := position.ViewportExtent(e.view.ViewportSize(), e.mode)
	if e.st.motion.Observe(offset, page, e.st.reset.Pending()) {
		if !e.st.dragging {
			e.writeScrubber(offset)
		}
		e.vis.Show()
		e.resetBaseline()
	}
}

// OnScrollDecelerationEnd handles inertial scrolling coming to rest
func (e *Engine) OnScrollDecelerationEnd() {
	if !e.tracking() {
		return
	}
	e.resetBaseline()
}

// OnScrollAnimationEnd handles the end of an animated programmatic scroll.
// The baseline reset is delayed so trailing callbacks of the animation do not
// count as significant motion.
func (e *Engine) OnScrollAnimationEnd() {
	if !e.tracking() {
		return
	}
	e.st.reset.Schedule(e.sched, e.settings.BaselineResetDelay, e.resetBaseline)
}

// OnContentSizeChanged re-syncs the scrubber after the content was re-laid out
func (e *Engine) OnContentSizeChanged() {
	if !e.tracking() {
		return
	}
	if e.vis.Visible() && !e.st.dragging {
		e.writeScrubber(e.view.ScrollOffset(e.mode))
	}
}

// OnScrubberDragStart gives the scrubber write authority and holds it open
func (e *Engine) OnScrubberDragStart() {
	if e.st.closed {
		return
	}
	e.st.dragging = true
	e.st.drag = Baseline{At: e.sched.Now()}
	if e.view != nil {
		e.st.drag.Offset = e.view.ScrollOffset(e.mode)
	}
	log.Printf("Scrubber: drag started at offset %.1f", e.st.drag.Offset)
	e.vis.Hold(true)
	e.vis.Show()
}

// OnScrubberValueChanged scrolls the content to the fraction the user picked
func (e *Engine) OnScrubberValueChanged(fraction float64) {
	if e.st.closed || e.view == nil {
		return
	}
	fraction = position.Clamp(fraction)
	e.st.fraction = fraction

	vp, cs := e.view.ViewportSize(), e.view.ContentSize()
	if position.ScrollableExtent(vp, cs, e.mode) <= 0 {
		return
	}
	e.view.SetScrollOffset(position.FractionToOffset(fraction, vp, cs, e.mode), false)
}

// OnScrubberDragEnd returns write authority to the content and arms the hide timeout
func (e *Engine) OnScrubberDragEnd() {
	if e.st.closed || !e.st.dragging {
		return
	}
	e.st.dragging = false
	log.Printf("Scrubber: drag ended after %s", e.sched.Now().Sub(e.st.drag.At))
	e.vis.Hold(false)
	e.vis.ScheduleHide()
}

// Show forces the scrubber visible
func (e *Engine) Show() {
	if e.st.closed {
		return
	}
	if e.view != nil && !e.st.dragging {
		e.writeScrubber(e.view.ScrollOffset(e.mode))
	}
	e.vis.Show()
}

// Hide forces the scrubber hidden
func (e *Engine) Hide() {
	e.vis.Hide()
}

// Close cancels every timer; the engine ignores all events afterwards
func (e *Engine) Close() {
	if e.st.closed {
		return
	}
	e.st.reset.Cancel()
	e.vis.Close()
	e.view = nil
	e.st.closed = true
}

// Dragging reports whether a scrubber drag is in progress
func (e *Engine) Dragging() bool { return e.st.dragging }

// Fraction returns the last fraction written to or picked on the scrubber
func (e *Engine) Fraction() float64 { return e.st.fraction }

// Opacity returns the scrubber's presented opacity
func (e *Engine) Opacity() float64 { return e.vis.Opacity() }

// Visible reports whether the scrubber is visible
func (e *Engine) Visible() bool { return e.vis.Visible() }

// Snapshot is a read-only copy of the engine state
type Snapshot struct {
	Mode         domain.DirectionMode
	Visibility   domain.Visibility
	Opacity      float64
	Dragging     bool
	Fraction     float64
	Baseline     Baseline
	HasBaseline  bool
	ResetPending bool
	HideDeadline time.Time
	HidePending  bool
}

// Snapshot captures the current state
func (e *Engine) Snapshot() Snapshot {
	b, ok := e.st.motion.Baseline()
	deadline, pending := e.vis.HideDeadline()
	return Snapshot{
		Mode:         e.mode,
		Visibility:   e.vis.State(),
		Opacity:      e.vis.Opacity(),
		Dragging:     e.st.dragging,
		Fraction:     e.st.fraction,
		Baseline:     b,
		HasBaseline:  ok,
		ResetPending: e.st.reset.Pending(),
		HideDeadline: deadline,
		HidePending:  pending,
	}
}

// tracking reports whether content scroll events should be processed
func (e *Engine) tracking() bool {
	return !e.st.closed && e.view != nil && e.mode.Supported()
}

func (e *Engine) writeScrubber(offset float64) {
	f := position.OffsetToFraction(offset, e.view.ViewportSize(), e.view.ContentSize(), e.mode)
	e.st.fraction = f
	if e.scrubber != nil {
		e.scrubber.SetValue(f)
	}
}

func (e *Engine) resetBaseline() {
	e.st.reset.Cancel()
	if e.view == nil {
		e.st.motion.Clear()
		return
	}
	e.st.motion.Reset(e.view.ScrollOffset(e.mode), e.sched.Now())
}
