package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"

	"foliotui/internal/domain"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	styles *Styles
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(styles *Styles) *HelpRenderer {
	return &HelpRenderer{styles: styles}
}

// Render builds the help page for the pager
func (r *HelpRenderer) Render(keys KeyMap, mode domain.DirectionMode) string {
	var help strings.Builder

	help.WriteString(r.styles.Title.Render("foliotui Help"))
	help.WriteString("\n")
	help.WriteString(r.styles.Dim.Render(fmt.Sprintf("  reading direction: %s", mode)))
	help.WriteString("\n")

	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Reading", []key.Binding{keys.Up, keys.Down, keys.Left, keys.Right, keys.PageUp, keys.PageDown, keys.Home, keys.End}},
		{"Scrubber", []key.Binding{keys.Scrub, keys.ScrubFinish, keys.Show, keys.Hide}},
		{"Other", []key.Binding{keys.Chapter, keys.Help, keys.Quit}},
	}
	for _, sec := range sections {
		help.WriteString(r.styles.HelpSection.Render(sec.title))
		help.WriteString("\n")
		for _, b := range sec.bindings {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			help.WriteString(fmt.Sprintf("  %s  %s\n", r.styles.HelpKey.Render(fmt.Sprintf("%-12s", h.Key)), r.styles.HelpDesc.Render(h.Desc)))
		}
	}

	help.WriteString("\n")
	help.WriteString(r.styles.Dim.Render("  Drag the scrubber with the mouse to jump through the book."))
	help.WriteString("\n")
	help.WriteString(r.styles.Dim.Render("  It appears on its own after a long scroll and fades after a second of rest."))
	return help.String()
}

// PagerOps runs ov on the terminal bubbletea has released
type PagerOps struct {
	program *tea.Program
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{program: program}
}

// Show pages text with ov
func (h *PagerOps) Show(text string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(text))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
