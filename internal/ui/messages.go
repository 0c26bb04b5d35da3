package ui

import (
	"foliotui/internal/content"
	"foliotui/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// runMsg carries a scheduled callback onto the UI loop
type runMsg func()

// DocumentReloadedMsg hands a document re-read in the background to the UI loop
type DocumentReloadedMsg struct {
	Document *content.Document
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	what string
	err  error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
