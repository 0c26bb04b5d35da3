// Package position maps between a content view's scroll offset and the
// normalized fraction shown by the scrubber.
package position

import "foliotui/internal/domain"

// ContentExtent returns the content dimension the mode scrolls along
func ContentExtent(content domain.Size, mode domain.DirectionMode) float64 {
	if mode.UsesWidth() {
		return content.Width
	}
	return content.Height
}

// ViewportExtent returns the viewport dimension the mode scrolls along
func ViewportExtent(viewport domain.Size, mode domain.DirectionMode) float64 {
	if mode.UsesWidth() {
		return viewport.Width
	}
	return viewport.Height
}

// ScrollableExtent is the distance the content can travel; never negative.
// Content that is not laid out yet (zero or negative sizes) yields 0.
func ScrollableExtent(viewport, content domain.Size, mode domain.DirectionMode) float64 {
	c := ContentExtent(content, mode)
	v := ViewportExtent(viewport, mode)
	if c <= 0 || v < 0 {
		return 0
	}
	extent := c - v
	if extent <= 0 {
		return 0
	}
	return extent
}

// OffsetToFraction converts a scroll offset into a fraction in [0,1]
func OffsetToFraction(offset float64, viewport, content domain.Size, mode domain.DirectionMode) float64 {
	extent := ScrollableExtent(viewport, content, mode)
	if extent == 0 {
		return 0
	}
	return Clamp(offset / extent)
}

// FractionToOffset converts a fraction into a target scroll offset.
// The fraction is clamped first so out-of-range input never escapes the content.
func FractionToOffset(fraction float64, viewport, content domain.Size, mode domain.DirectionMode) float64 {
	return Clamp(fraction) * ScrollableExtent(viewport, content, mode)
}

// Clamp pins v to [0,1]; NaN maps to 0
func Clamp(v float64) float64 {
	switch {
	case v != v:
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// AxisOffset projects a 2-D offset onto the mode's scroll axis
func AxisOffset(p domain.Point, mode domain.DirectionMode) float64 {
	if mode.UsesWidth() {
		return p.X
	}
	return p.Y
}

// PointFor builds the 2-D offset for a single-axis offset under mode
func PointFor(offset float64, mode domain.DirectionMode) domain.Point {
	if mode.UsesWidth() {
		return domain.Point{X: offset}
	}
	return domain.Point{Y: offset}
}
