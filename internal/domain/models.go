package domain

import (
	"fmt"
	"strings"
)

// DirectionMode selects the scroll axis and the dimension pair used for position mapping
type DirectionMode int

const (
	Vertical DirectionMode = iota
	Horizontal
	HorizontalWithVerticalContent
)

// String returns the config/flag spelling of the mode
func (m DirectionMode) String() string {
	switch m {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	case HorizontalWithVerticalContent:
		return "horizontal-vertical-content"
	default:
		return fmt.Sprintf("DirectionMode(%d)", int(m))
	}
}

// Supported reports whether the mode is one the scrubber knows how to track
func (m DirectionMode) Supported() bool {
	switch m {
	case Vertical, Horizontal, HorizontalWithVerticalContent:
		return true
	}
	return false
}

// UsesWidth reports whether the mode maps along the horizontal axis
func (m DirectionMode) UsesWidth() bool {
	return m == Horizontal
}

// ParseDirectionMode parses a mode name as written in config files and flags
func ParseDirectionMode(s string) (DirectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "v", "":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	case "horizontal-vertical-content", "horizontalwithverticalcontent", "hv":
		return HorizontalWithVerticalContent, nil
	}
	return Vertical, fmt.Errorf("unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (m DirectionMode) MarshalText() ([]byte, error) {
	if !m.Supported() {
		return nil, fmt.Errorf("unknown direction %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *DirectionMode) UnmarshalText(text []byte) error {
	mode, err := ParseDirectionMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Size is a 2-D extent in surface units
type Size struct {
	Width  float64
	Height float64
}

// Point is a 2-D scroll offset
type Point struct {
	X float64
	Y float64
}

// Visibility is the scrubber's show/hidden state
type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	if v == Visible {
		return "visible"
	}
	return "hidden"
}
