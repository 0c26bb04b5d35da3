package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Status        lipgloss.Style
	StatusKey     lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Scrubbing     lipgloss.Style
	Dim           lipgloss.Style
	Help          lipgloss.Style
	HelpSection   lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusKey:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Scrubbing:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Dim:           lipgloss.NewStyle().Faint(true),
		Help:          lipgloss.NewStyle().Faint(true),
		HelpSection: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1),
		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		HelpDesc: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}
