package visibility

import (
	"time"

	"foliotui/internal/sched"
)

// Animator animates the scrubber's opacity
type Animator interface {
	// Opacity returns the value currently presented, in [0,1]
	Opacity() float64
	// Animate moves opacity from its current value to target over d. A new call
	// replaces the one in flight, whose done callback is then dropped.
	Animate(target float64, d time.Duration, done func())
	// Stop freezes the current value and drops any pending done callback
	Stop()
}

// DefaultFrameInterval is the step used when none is configured (about 30fps)
const DefaultFrameInterval = 33 * time.Millisecond

// Fade is a linear, frame-stepped Animator driven by a Scheduler
type Fade struct {
	sched   sched.Scheduler
	frame   time.Duration
	onFrame func(opacity float64)

	opacity float64
	from    float64
	to      float64
	start   time.Time
	dur     time.Duration
	done    func()
	step    sched.Slot
}

// NewFade creates a Fade starting fully transparent. onFrame, when set, is
// called after every opacity change so the host can repaint.
func NewFade(s sched.Scheduler, frame time.Duration, onFrame func(opacity float64)) *Fade {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	return &Fade{sched: s, frame: frame, onFrame: onFrame}
}

func (f *Fade) Opacity() float64 { return f.opacity }

// Animating reports whether a transition is in flight
func (f *Fade) Animating() bool { return f.step.Pending() }

func (f *Fade) Animate(target float64, d time.Duration, done func()) {
	f.step.Cancel()
	f.done = nil
	target = clamp(target)

	if d <= 0 || f.opacity == target {
		f.set(target)
		if done != nil {
			done()
		}
		return
	}

	f.from = f.opacity
	f.to = target
	f.start = f.sched.Now()
	f.dur = d
	f.done = done
	f.step.Schedule(f.sched, f.nextStep(0), f.advance)
}

func (f *Fade) Stop() {
	f.step.Cancel()
	f.done = nil
}

func (f *Fade) advance() {
	elapsed := f.sched.Now().Sub(f.start)
	if elapsed >= f.dur {
		f.set(f.to)
		done := f.done
		f.done = nil
		if done != nil {
			done()
		}
		return
	}
	progress := float64(elapsed) / float64(f.dur)
	f.set(f.from + (f.to-f.from)*progress)
	f.step.Schedule(f.sched, f.nextStep(elapsed), f.advance)
}

// nextStep lands the final frame exactly on the end of the transition
func (f *Fade) nextStep(elapsed time.Duration) time.Duration {
	remaining := f.dur - elapsed
	if remaining < f.frame {
		return remaining
	}
	return f.frame
}

func (f *Fade) set(v float64) {
	f.opacity = v
	if f.onFrame != nil {
		f.onFrame(v)
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
