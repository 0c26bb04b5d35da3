package visibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foliotui/internal/domain"
	"foliotui/internal/sched"
)

var epoch = time.Date(2024, 7, 14, 9, 0, 0, 0, time.UTC)

type fixture struct {
	clock *sched.Manual
	fade  *Fade
	ctrl  *Controller
	hides []time.Time
	shows []time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{clock: sched.NewManual(epoch)}
	f.fade = NewFade(f.clock, 50*time.Millisecond, nil)
	f.ctrl = New(f.clock, f.fade, DefaultSettings())
	f.ctrl.OnChange(func(v domain.Visibility) {
		if v == domain.Hidden {
			f.hides = append(f.hides, f.clock.Now())
		} else {
			f.shows = append(f.shows, f.clock.Now())
		}
	})
	return f
}

func (f *fixture) at(d time.Duration) time.Time { return epoch.Add(d) }

func TestShowFadesInThenHidesAfterDelay(t *testing.T) {
	f := newFixture(t)

	f.ctrl.Show()
	assert.Equal(t, domain.Visible, f.ctrl.State(), "state flips immediately")
	assert.Equal(t, 0.0, f.ctrl.Opacity())
	_, pending := f.ctrl.HideDeadline()
	assert.False(t, pending, "no timeout while fading in")

	f.clock.Advance(300 * time.Millisecond)
	assert.InDelta(t, 0.5, f.ctrl.Opacity(), 1e-9)

	f.clock.Advance(300 * time.Millisecond)
	assert.Equal(t, 1.0, f.ctrl.Opacity())
	deadline, pending := f.ctrl.HideDeadline()
	require.True(t, pending)
	assert.Equal(t, f.at(1600*time.Millisecond), deadline)

	f.clock.Advance(999 * time.Millisecond)
	assert.True(t, f.ctrl.Visible())

	f.clock.Advance(time.Millisecond)
	assert.False(t, f.ctrl.Visible())
	assert.Equal(t, []time.Time{f.at(1600 * time.Millisecond)}, f.hides)

	f.clock.Advance(600 * time.Millisecond)
	assert.Equal(t, 0.0, f.ctrl.Opacity())
}

func TestRepeatedShowDebouncesToOneHide(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Show()
	f.clock.Advance(600 * time.Millisecond) // fully visible

	last := time.Duration(0)
	for i := 0; i < 5; i++ {
		f.clock.Advance(200 * time.Millisecond)
		f.ctrl.Show()
		last = 600*time.Millisecond + time.Duration(i+1)*200*time.Millisecond
	}

	deadline, pending := f.ctrl.HideDeadline()
	require.True(t, pending)
	assert.Equal(t, f.at(last+time.Second), deadline)

	f.clock.Advance(time.Second - time.Millisecond)
	assert.Empty(t, f.hides)
	f.clock.Advance(5 * time.Second)
	assert.Equal(t, []time.Time{f.at(last + time.Second)}, f.hides, "exactly one hide, hideDelay after the last show")
}

func TestShowDuringFadeInKeepsLaterDeadline(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Show()
	f.clock.Advance(500 * time.Millisecond)
	f.ctrl.Show() // visible, still fading in

	f.clock.Advance(100 * time.Millisecond) // fade completes
	deadline, pending := f.ctrl.HideDeadline()
	require.True(t, pending)
	assert.Equal(t, f.at(1500*time.Millisecond), deadline)

	f.clock.Advance(5 * time.Second)
	assert.Equal(t, []time.Time{f.at(1500 * time.Millisecond)}, f.hides)
}

func TestHoldSuppressesTimeout(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Hold(true)
	f.ctrl.Show()
	f.clock.Advance(10 * time.Second)

	assert.True(t, f.ctrl.Visible())
	assert.Equal(t, 1.0, f.ctrl.Opacity())
	_, pending := f.ctrl.HideDeadline()
	assert.False(t, pending)

	f.ctrl.Show()
	f.ctrl.ScheduleHide()
	_, pending = f.ctrl.HideDeadline()
	assert.False(t, pending, "held controller arms nothing")

	f.ctrl.Hold(false)
	f.ctrl.ScheduleHide()
	f.clock.Advance(time.Second)
	assert.False(t, f.ctrl.Visible())
}

func TestHoldCancelsPendingTimeout(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Show()
	f.clock.Advance(700 * time.Millisecond)
	_, pending := f.ctrl.HideDeadline()
	require.True(t, pending)

	f.ctrl.Hold(true)
	f.clock.Advance(10 * time.Second)
	assert.True(t, f.ctrl.Visible(), "an early hide must not fire after the hold started")
}

func TestHideWhileHiddenIsNoop(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Hide()
	f.ctrl.Hide()
	assert.Empty(t, f.hides)
	assert.Equal(t, 0, f.clock.Pending())
}

func TestExplicitHideCancelsTimeout(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Show()
	f.clock.Advance(700 * time.Millisecond)
	f.ctrl.Hide()
	assert.Len(t, f.hides, 1)

	f.clock.Advance(5 * time.Second)
	assert.Len(t, f.hides, 1, "the old timeout must not hide again")
}

func TestShowDuringFadeOutReverses(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Show()
	f.clock.Advance(600 * time.Millisecond)
	f.ctrl.Hide()
	f.clock.Advance(300 * time.Millisecond)
	assert.InDelta(t, 0.5, f.ctrl.Opacity(), 1e-9)

	f.ctrl.Show()
	assert.True(t, f.ctrl.Visible())
	f.clock.Advance(600 * time.Millisecond)
	assert.Equal(t, 1.0, f.ctrl.Opacity())
	_, pending := f.ctrl.HideDeadline()
	assert.True(t, pending)
}

func TestCancelPendingHideKeepsVisibility(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Show()
	f.clock.Advance(600 * time.Millisecond)
	f.ctrl.CancelPendingHide()
	f.clock.Advance(time.Minute)
	assert.True(t, f.ctrl.Visible())
}

func TestCloseStopsEverything(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Show()
	f.clock.Advance(100 * time.Millisecond)
	f.ctrl.Close()
	f.clock.Advance(time.Minute)

	assert.Equal(t, 0, f.clock.Pending())
	f.ctrl.Show()
	f.ctrl.Hide()
	assert.Empty(t, f.hides)
}

func TestFadeReportsFrames(t *testing.T) {
	clock := sched.NewManual(epoch)
	var frames []float64
	fade := NewFade(clock, 100*time.Millisecond, func(o float64) { frames = append(frames, o) })

	done := false
	fade.Animate(1, 250*time.Millisecond, func() { done = true })
	assert.True(t, fade.Animating())
	clock.Advance(time.Second)

	assert.True(t, done)
	assert.False(t, fade.Animating())
	require.Len(t, frames, 3)
	assert.InDelta(t, 0.4, frames[0], 1e-9)
	assert.InDelta(t, 0.8, frames[1], 1e-9)
	assert.Equal(t, 1.0, frames[2])
}

func TestFadeZeroDurationCompletesSynchronously(t *testing.T) {
	clock := sched.NewManual(epoch)
	fade := NewFade(clock, 0, nil)
	done := false
	fade.Animate(1, 0, func() { done = true })
	assert.True(t, done)
	assert.Equal(t, 1.0, fade.Opacity())
	assert.Equal(t, 0, clock.Pending())
}

func TestFadeStopDropsCompletion(t *testing.T) {
	clock := sched.NewManual(epoch)
	fade := NewFade(clock, 10*time.Millisecond, nil)
	done := false
	fade.Animate(1, 100*time.Millisecond, func() { done = true })
	clock.Advance(50 * time.Millisecond)
	fade.Stop()
	clock.Advance(time.Second)
	assert.False(t, done)
	assert.InDelta(t, 0.5, fade.Opacity(), 1e-9)
}
