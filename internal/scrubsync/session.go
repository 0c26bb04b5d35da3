package scrubsync

import (
	"log"

	"github.com/google/uuid"

	"foliotui/internal/domain"
	"foliotui/internal/eventbus"
	"foliotui/internal/sched"
	"foliotui/internal/visibility"
)

// Session runs an Engine behind an event bus so hosts can report events from
// any goroutine. Every engine handler, timer callback, animation frame and
// Scrubber.SetValue call happens on the bus dispatcher goroutine.
type Session struct {
	ID     string
	bus    eventbus.EventBus
	engine *Engine
	unsubs []func()
}

// NewSession wires a new Engine to bus. onFrame, when set, is called on the
// dispatcher goroutine for every opacity change.
func NewSession(bus eventbus.EventBus, mode domain.DirectionMode, settings Settings, scrubber Scrubber, onFrame func(opacity float64)) *Session {
	s := sched.New(bus)
	fade := visibility.NewFade(s, settings.FrameInterval, onFrame)
	engine := New(mode, settings, s, fade, scrubber)

	sess := &Session{
		ID:     uuid.NewString(),
		bus:    bus,
		engine: engine,
	}

	on := func(t eventbus.EventType, h func(eventbus.DomainEvent)) {
		sess.unsubs = append(sess.unsubs, bus.Subscribe(t, h))
	}
	on(eventbus.EventScrollBegan, func(eventbus.DomainEvent) { engine.OnScrollBegin() })
	on(eventbus.EventScrollChanged, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ScrollChangedEvent); ok {
			engine.OnScrollChanged(ev.Offset)
		}
	})
	on(eventbus.EventScrollDecelerated, func(eventbus.DomainEvent) { engine.OnScrollDecelerationEnd() })
	on(eventbus.EventScrollAnimationEnded, func(eventbus.DomainEvent) { engine.OnScrollAnimationEnd() })
	on(eventbus.EventContentSizeChanged, func(eventbus.DomainEvent) { engine.OnContentSizeChanged() })
	on(eventbus.EventScrubberDragStarted, func(eventbus.DomainEvent) { engine.OnScrubberDragStart() })
	on(eventbus.EventScrubberValueChanged, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ScrubberValueChangedEvent); ok {
			engine.OnScrubberValueChanged(ev.Fraction)
		}
	})
	on(eventbus.EventScrubberDragEnded, func(eventbus.DomainEvent) { engine.OnScrubberDragEnd() })
	on(eventbus.EventShowRequested, func(eventbus.DomainEvent) { engine.Show() })
	on(eventbus.EventHideRequested, func(eventbus.DomainEvent) { engine.Hide() })

	engine.OnVisibilityChange(func(v domain.Visibility) {
		bus.Publish(eventbus.VisibilityChangedEvent{Visibility: v})
	})

	log.Printf("Session %s: started in %s mode", sess.ID, mode)
	return sess
}

// Attach connects the content view on the dispatcher goroutine
func (s *Session) Attach(view ContentView) {
	s.bus.Post(func() { s.engine.Attach(view) })
}

// Detach disconnects the content view
func (s *Session) Detach() {
	s.bus.Post(s.engine.Detach)
}

func (s *Session) ScrollBegan()             { s.bus.Publish(eventbus.ScrollBeganEvent{}) }
func (s *Session) ScrollChanged(off float64) { s.bus.Publish(eventbus.ScrollChangedEvent{Offset: off}) }
func (s *Session) ScrollDecelerated()       { s.bus.Publish(eventbus.ScrollDeceleratedEvent{}) }
func (s *Session) ScrollAnimationEnded()    { s.bus.Publish(eventbus.ScrollAnimationEndedEvent{}) }
func (s *Session) ScrubberDragStarted()     { s.bus.Publish(eventbus.ScrubberDragStartedEvent{}) }
func (s *Session) ScrubberDragEnded()       { s.bus.Publish(eventbus.ScrubberDragEndedEvent{}) }
func (s *Session) Show()                    { s.bus.Publish(eventbus.ShowRequestedEvent{}) }
func (s *Session) Hide()                    { s.bus.Publish(eventbus.HideRequestedEvent{}) }

// ContentSizeChanged may be called from any goroutine, e.g. a layout worker
func (s *Session) ContentSizeChanged(size domain.Size) {
	s.bus.Publish(eventbus.ContentSizeChangedEvent{Size: size})
}

// ScrubberValueChanged reports the fraction under the user's finger
func (s *Session) ScrubberValueChanged(fraction float64) {
	s.bus.Publish(eventbus.ScrubberValueChangedEvent{Fraction: fraction})
}

// Snapshot reads the engine state on the dispatcher goroutine and waits for it
func (s *Session) Snapshot() Snapshot {
	ch := make(chan Snapshot, 1)
	s.bus.Post(func() { ch <- s.engine.Snapshot() })
	s.bus.Flush()
	select {
	case snap := <-ch:
		return snap
	default:
		return Snapshot{}
	}
}

// Close unsubscribes from the bus and tears the engine down. The bus itself
// stays open; it may be shared.
func (s *Session) Close() {
	for _, u := range s.unsubs {
		u()
	}
	s.unsubs = nil
	s.bus.Post(s.engine.Close)
	s.bus.Flush()
	log.Printf("Session %s: closed", s.ID)
}
