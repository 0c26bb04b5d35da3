package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"foliotui/internal/domain"
)

// KeyMap holds the reader key bindings
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	Scrub       key.Binding
	ScrubFinish key.Binding
	Show        key.Binding
	Hide        key.Binding
	Chapter     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// NewKeyMap returns the bindings for mode; Left/Right describe what they do there
func NewKeyMap(mode domain.DirectionMode) KeyMap {
	km := KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Left:        key.NewBinding(key.WithKeys("left", "h")),
		Right:       key.NewBinding(key.WithKeys("right", "l")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup/b", "page back")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", " ", "f"), key.WithHelp("pgdn/space", "page forward")),
		Home:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g/home", "go to start")),
		End:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "go to end")),
		Scrub:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "grab the scrubber")),
		ScrubFinish: key.NewBinding(key.WithKeys("enter", "esc", "s"), key.WithHelp("enter/esc", "release the scrubber")),
		Show:        key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "show scrubber")),
		Hide:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hide scrubber")),
		Chapter:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open chapter in pager")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}

	switch mode {
	case domain.Horizontal:
		km.Up.SetEnabled(false)
		km.Down.SetEnabled(false)
		km.Left.SetHelp("←/h", "scroll left")
		km.Right.SetHelp("→/l", "scroll right")
	case domain.HorizontalWithVerticalContent:
		km.Left.SetHelp("←/h", "previous chapter")
		km.Right.SetHelp("→/l", "next chapter")
	default:
		km.Left.SetEnabled(false)
		km.Right.SetEnabled(false)
	}
	return km
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PageDown, k.Scrub, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Scrub, k.ScrubFinish, k.Show, k.Hide},
		{k.Chapter, k.Help, k.Quit},
	}
}

// ScrubKeyMap is active while the scrubber is grabbed from the keyboard
type ScrubKeyMap struct {
	Back    key.Binding
	Forward key.Binding
	Finish  key.Binding
}

func newScrubKeyMap(k KeyMap) ScrubKeyMap {
	return ScrubKeyMap{
		Back:    key.NewBinding(key.WithKeys("up", "k", "left", "h"), key.WithHelp("←/↑", "back 5%")),
		Forward: key.NewBinding(key.WithKeys("down", "j", "right", "l"), key.WithHelp("→/↓", "forward 5%")),
		Finish:  k.ScrubFinish,
	}
}

func (k ScrubKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Forward, k.Finish}
}

func (k ScrubKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
