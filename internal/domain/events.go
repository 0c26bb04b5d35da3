package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventScrollBegan          EventType = "ScrollBegan"
	EventScrollChanged        EventType = "ScrollChanged"
	EventScrollDecelerated    EventType = "ScrollDecelerated"
	EventScrollAnimationEnded EventType = "ScrollAnimationEnded"
	EventContentSizeChanged   EventType = "ContentSizeChanged"
	EventScrubberDragStarted  EventType = "ScrubberDragStarted"
	EventScrubberValueChanged EventType = "ScrubberValueChanged"
	EventScrubberDragEnded    EventType = "ScrubberDragEnded"
	EventShowRequested        EventType = "ShowRequested"
	EventHideRequested        EventType = "HideRequested"
	EventVisibilityChanged    EventType = "VisibilityChanged"
	EventDocumentLoaded       EventType = "DocumentLoaded"
	EventError                EventType = "Error"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventConfigSaved          EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ScrollBeganEvent is emitted when the user starts dragging the content
type ScrollBeganEvent struct{}

func (e ScrollBeganEvent) Type() EventType { return EventScrollBegan }

// ScrollChangedEvent is emitted for every content offset change
type ScrollChangedEvent struct {
	Offset float64
}

func (e ScrollChangedEvent) Type() EventType { return EventScrollChanged }

// ScrollDeceleratedEvent is emitted when inertial scrolling comes to rest
type ScrollDeceleratedEvent struct{}

func (e ScrollDeceleratedEvent) Type() EventType { return EventScrollDecelerated }

// ScrollAnimationEndedEvent is emitted when a programmatic animated scroll completes
type ScrollAnimationEndedEvent struct{}

func (e ScrollAnimationEndedEvent) Type() EventType { return EventScrollAnimationEnded }

// ContentSizeChangedEvent is emitted when the content surface is re-laid out
type ContentSizeChangedEvent struct {
	Size Size
}

func (e ContentSizeChangedEvent) Type() EventType { return EventContentSizeChanged }

// ScrubberDragStartedEvent is emitted when the user grabs the scrubber
type ScrubberDragStartedEvent struct{}

func (e ScrubberDragStartedEvent) Type() EventType { return EventScrubberDragStarted }

// ScrubberValueChangedEvent carries the scrubber fraction chosen by the user
type ScrubberValueChangedEvent struct {
	Fraction float64
}

func (e ScrubberValueChangedEvent) Type() EventType { return EventScrubberValueChanged }

// ScrubberDragEndedEvent is emitted when the user lets go of the scrubber
type ScrubberDragEndedEvent struct{}

func (e ScrubberDragEndedEvent) Type() EventType { return EventScrubberDragEnded }

// ShowRequestedEvent forces the scrubber visible
type ShowRequestedEvent struct{}

func (e ShowRequestedEvent) Type() EventType { return EventShowRequested }

// HideRequestedEvent forces the scrubber hidden (e.g. on page turn)
type HideRequestedEvent struct{}

func (e HideRequestedEvent) Type() EventType { return EventHideRequested }

// VisibilityChangedEvent is emitted when the scrubber is shown or hidden
type VisibilityChangedEvent struct {
	Visibility Visibility
}

func (e VisibilityChangedEvent) Type() EventType { return EventVisibilityChanged }

// DocumentLoadedEvent is emitted when a document finished (re)loading
type DocumentLoadedEvent struct {
	Path  string
	Title string
	Bytes int64
}

func (e DocumentLoadedEvent) Type() EventType { return EventDocumentLoaded }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
