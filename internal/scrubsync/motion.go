package scrubsync

import "time"

// Baseline is the offset travel is measured from
type Baseline struct {
	Offset float64
	At     time.Time
}

// MotionDetector decides when a scroll has travelled far enough from its
// baseline to reveal the scrubber
type MotionDetector struct {
	threshold float64
	baseline  Baseline
	armed     bool
}

// NewMotionDetector creates a detector that fires once travel exceeds
// threshold times the page extent
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{threshold: threshold}
}

// Reset moves the baseline to offset
func (d *MotionDetector) Reset(offset float64, at time.Time) {
	d.baseline = Baseline{Offset: offset, At: at}
	d.armed = true
}

// Capture sets the baseline only if none is held
func (d *MotionDetector) Capture(offset float64, at time.Time) {
	if !d.armed {
		d.Reset(offset, at)
	}
}

// Clear forgets the baseline; Observe never fires until the next Reset or Capture
func (d *MotionDetector) Clear() {
	d.baseline = Baseline{}
	d.armed = false
}

// Baseline returns the current baseline and whether one is held
func (d *MotionDetector) Baseline() (Baseline, bool) {
	return d.baseline, d.armed
}

// Observe reports whether offset is further than the threshold from the
// baseline. suppressed, set while a delayed baseline reset is pending, only
// disables forward detection; travelling back past the threshold always fires.
func (d *MotionDetector) Observe(offset, pageExtent float64, suppressed bool) bool {
	if !d.armed || pageExtent <= 0 {
		return false
	}
	delta := offset - d.baseline.Offset
	limit := pageExtent * d.threshold
	return (!suppressed && delta > limit) || -delta > limit
}
