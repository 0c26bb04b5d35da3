package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"foliotui/internal/position"
)

const (
	trackGlyphVertical   = "│"
	trackGlyphHorizontal = "─"
	thumbGlyph           = "█"
)

// Orientation is the axis the scrubber track runs along
type Orientation int

const (
	OrientVertical Orientation = iota
	OrientHorizontal
)

// Scrubber is the position indicator drawn along the edge of the reader. It
// only paints; show/hide decisions belong to the sync engine.
type Scrubber struct {
	orient     Orientation
	value      float64
	opacity    float64
	proportion float64 // visible part of the content, sizes the thumb

	background colorful.Color
	track      colorful.Color
	thumb      colorful.Color
}

// NewScrubber creates a scrubber using hex colors; invalid colors fall back to gray
func NewScrubber(orient Orientation, trackHex, thumbHex string) *Scrubber {
	return &Scrubber{
		orient:     orient,
		proportion: 1,
		background: colorful.Color{},
		track:      parseColor(trackHex, colorful.Color{R: 0.23, G: 0.23, B: 0.23}),
		thumb:      parseColor(thumbHex, colorful.Color{R: 0.6, G: 0.6, B: 0.6}),
	}
}

func parseColor(hex string, fallback colorful.Color) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return c
}

// SetValue moves the thumb; the engine calls this as content scrolls
func (s *Scrubber) SetValue(fraction float64) { s.value = position.Clamp(fraction) }

func (s *Scrubber) Value() float64 { return s.value }

// SetOpacity sets the presented opacity
func (s *Scrubber) SetOpacity(o float64) { s.opacity = position.Clamp(o) }

func (s *Scrubber) Opacity() float64 { return s.opacity }

// SetProportion sets the visible part of the content, between 0 and 1
func (s *Scrubber) SetProportion(p float64) {
	if math.IsNaN(p) || p <= 0 {
		p = 1
	}
	s.proportion = math.Min(p, 1)
}

func (s *Scrubber) Orientation() Orientation { return s.orient }

// thumbSpan returns the thumb length and its first cell on a track of length cells
func (s *Scrubber) thumbSpan(length int) (size, start int) {
	if length <= 0 {
		return 0, 0
	}
	size = int(math.Round(float64(length) * s.proportion))
	size = max(1, min(size, length))
	start = int(math.Round(s.value * float64(length-size)))
	return size, start
}

// FractionAt maps a cell on the track to a value, centring the thumb on it
func (s *Scrubber) FractionAt(cell, length int) float64 {
	size, _ := s.thumbSpan(length)
	free := length - size
	if free <= 0 {
		return 0
	}
	return position.Clamp((float64(cell) - float64(size-1)/2) / float64(free))
}

// cells renders the track as length styled cells
func (s *Scrubber) cells(length int) []string {
	out := make([]string, length)
	if s.opacity <= 0 {
		for i := range out {
			out[i] = " "
		}
		return out
	}

	trackGlyph := trackGlyphVertical
	if s.orient == OrientHorizontal {
		trackGlyph = trackGlyphHorizontal
	}
	trackStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.background.BlendRgb(s.track, s.opacity).Clamped().Hex()))
	thumbStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.background.BlendRgb(s.thumb, s.opacity).Clamped().Hex()))

	size, start := s.thumbSpan(length)
	for i := range out {
		if i >= start && i < start+size {
			out[i] = thumbStyle.Render(thumbGlyph)
		} else {
			out[i] = trackStyle.Render(trackGlyph)
		}
	}
	return out
}

// Column renders a vertical track of height rows, one cell per line
func (s *Scrubber) Column(height int) string {
	return strings.Join(s.cells(height), "\n")
}

// Row renders a horizontal track of width columns
func (s *Scrubber) Row(width int) string {
	return strings.Join(s.cells(width), "")
}
