package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"foliotui/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventScrollBegan          = domain.EventScrollBegan
	EventScrollChanged        = domain.EventScrollChanged
	EventScrollDecelerated    = domain.EventScrollDecelerated
	EventScrollAnimationEnded = domain.EventScrollAnimationEnded
	EventContentSizeChanged   = domain.EventContentSizeChanged
	EventScrubberDragStarted  = domain.EventScrubberDragStarted
	EventScrubberValueChanged = domain.EventScrubberValueChanged
	EventScrubberDragEnded    = domain.EventScrubberDragEnded
	EventShowRequested        = domain.EventShowRequested
	EventHideRequested        = domain.EventHideRequested
	EventVisibilityChanged    = domain.EventVisibilityChanged
	EventDocumentLoaded       = domain.EventDocumentLoaded
	EventError                = domain.EventError
	EventConfigLoaded         = domain.EventConfigLoaded
	EventConfigSaved          = domain.EventConfigSaved
)

// Re-export domain event types
type ScrollBeganEvent = domain.ScrollBeganEvent
type ScrollChangedEvent = domain.ScrollChangedEvent
type ScrollDeceleratedEvent = domain.ScrollDeceleratedEvent
type ScrollAnimationEndedEvent = domain.ScrollAnimationEndedEvent
type ContentSizeChangedEvent = domain.ContentSizeChangedEvent
type ScrubberDragStartedEvent = domain.ScrubberDragStartedEvent
type ScrubberValueChangedEvent = domain.ScrubberValueChangedEvent
type ScrubberDragEndedEvent = domain.ScrubberDragEndedEvent
type ShowRequestedEvent = domain.ShowRequestedEvent
type HideRequestedEvent = domain.HideRequestedEvent
type VisibilityChangedEvent = domain.VisibilityChangedEvent
type DocumentLoadedEvent = domain.DocumentLoadedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the single inbound queue. Publish and Post may be called from any
// goroutine; handlers and posted functions all run on one dispatcher goroutine,
// one at a time, in submission order. Handlers may only Publish Lossy events.
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Post(fn func())
	Flush()
	Close()
}

type subscription struct {
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]*subscription
	queue    chan func()
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// New creates a new event bus and starts its dispatcher
func New() EventBus {
	b := &bus{
		handlers: make(map[EventType][]*subscription),
		queue:    make(chan func(), 1000),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go b.dispatch()

	return b
}

// Publish queues an event for all subscribers of its type
func (b *bus) Publish(event DomainEvent) {
	// Skip logging for high-frequency events
	switch event.Type() {
	case EventScrollChanged, EventScrubberValueChanged:
	default:
		log.Printf("EventBus: Publishing event %s", event.Type())
	}

	select {
	case <-b.quit:
		return
	default:
	}

	fn := func() { b.deliver(event) }
	if Lossy(event.Type()) {
		select {
		case b.queue <- fn:
		default:
			// Channel full, log and drop
			log.Printf("Event bus channel full, dropping event: %v", event.Type())
		}
		return
	}

	select {
	case <-b.quit:
	case b.queue <- fn:
	}
}

// Lossy reports whether Publish may drop events of this type when the queue is
// full. Only superseded-by-the-next-one updates and the notifications that
// handlers publish on the dispatcher goroutine are lossy; every other event
// blocks the publisher until there is room.
func Lossy(t EventType) bool {
	switch t {
	case EventScrollChanged, EventScrubberValueChanged, EventVisibilityChanged:
		return true
	}
	return false
}

// Post queues fn to run on the dispatcher goroutine. It blocks while the queue is
// full and returns immediately once the bus is closed. Must not be called from
// the dispatcher goroutine when the queue can fill up.
func (b *bus) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-b.quit:
	case b.queue <- fn:
	}
}

// Flush waits until everything queued before the call has run.
// Calling it from a handler deadlocks.
func (b *bus) Flush() {
	done := make(chan struct{})
	select {
	case <-b.quit:
		return
	case b.queue <- func() { close(done) }:
	}
	select {
	case <-done:
	case <-b.done:
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{handler: handler}
	b.handlers[eventType] = append(b.handlers[eventType], sub)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s == sub {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher; queued work that has not started is dropped
func (b *bus) Close() {
	b.once.Do(func() {
		close(b.quit)
		<-b.done
	})
}

func (b *bus) deliver(event DomainEvent) {
	b.mu.RLock()
	subs := make([]*subscription, len(b.handlers[event.Type()]))
	copy(subs, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, s := range subs {
		b.run(func() { s.handler(event) }, string(event.Type()))
	}
}

func (b *bus) run(fn func(), label string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event handler panic for %s: %v\nStack: %s", label, r, debug.Stack())
		}
	}()
	fn()
}

// dispatch runs queued work serially until Close
func (b *bus) dispatch() {
	defer close(b.done)

	for {
		select {
		case fn := <-b.queue:
			b.run(fn, "posted")
		case <-b.quit:
			// Drain remaining work without running it
			for {
				select {
				case <-b.queue:
				default:
					return
				}
			}
		}
	}
}
