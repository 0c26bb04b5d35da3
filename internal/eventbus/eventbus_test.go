package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInOrderOnOneGoroutine(t *testing.T) {
	b := New()
	defer b.Close()

	var got []float64
	b.Subscribe(EventScrollChanged, func(e DomainEvent) {
		got = append(got, e.(ScrollChangedEvent).Offset)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			b.Publish(ScrollChangedEvent{Offset: float64(i)})
		}
	}()
	wg.Wait()
	b.Flush()

	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, float64(i), v)
	}
}

func TestPostRunsBetweenEvents(t *testing.T) {
	b := New()
	defer b.Close()

	var trace []string
	b.Subscribe(EventShowRequested, func(DomainEvent) { trace = append(trace, "show") })
	b.Subscribe(EventHideRequested, func(DomainEvent) { trace = append(trace, "hide") })

	b.Publish(ShowRequestedEvent{})
	b.Post(func() { trace = append(trace, "posted") })
	b.Publish(HideRequestedEvent{})
	b.Flush()

	assert.Equal(t, []string{"show", "posted", "hide"}, trace)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	defer b.Close()

	calls := 0
	unsubscribe := b.Subscribe(EventHideRequested, func(DomainEvent) { calls++ })
	other := 0
	b.Subscribe(EventHideRequested, func(DomainEvent) { other++ })

	b.Publish(HideRequestedEvent{})
	b.Flush()
	unsubscribe()
	b.Publish(HideRequestedEvent{})
	b.Flush()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	b := New()
	defer b.Close()

	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	after := false
	b.Subscribe(EventError, func(DomainEvent) { after = true })

	b.Publish(ErrorEvent{Message: "x"})
	b.Flush()

	assert.True(t, after, "later handlers still run after a panic")
}

func TestClosedBusIgnoresWork(t *testing.T) {
	b := New()
	b.Close()

	ran := false
	b.Post(func() { ran = true })
	b.Publish(ShowRequestedEvent{})
	b.Flush()
	b.Close()

	assert.False(t, ran)
}

// stall blocks the dispatcher until the returned func is called
func stall(b EventBus) func() {
	release := make(chan struct{})
	started := make(chan struct{})
	b.Post(func() {
		close(started)
		<-release
	})
	<-started
	return func() { close(release) }
}

func TestFullQueueDropsOnlyLossyEvents(t *testing.T) {
	b := New()
	defer b.Close()

	var offsets, hides int
	b.Subscribe(EventScrollChanged, func(DomainEvent) { offsets++ })
	b.Subscribe(EventHideRequested, func(DomainEvent) { hides++ })

	release := stall(b)
	for i := 0; i < 1100; i++ {
		b.Publish(ScrollChangedEvent{Offset: float64(i)})
	}

	published := make(chan struct{})
	go func() {
		defer close(published)
		b.Publish(HideRequestedEvent{})
	}()
	select {
	case <-published:
		t.Fatal("control event should wait for room in the queue")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	<-published
	b.Flush()

	assert.Equal(t, 1000, offsets, "updates beyond the queue size are dropped")
	assert.Equal(t, 1, hides)
}

func TestLossy(t *testing.T) {
	assert.True(t, Lossy(EventScrollChanged))
	assert.True(t, Lossy(EventScrubberValueChanged))
	assert.True(t, Lossy(EventVisibilityChanged))
	assert.False(t, Lossy(EventScrubberDragEnded))
	assert.False(t, Lossy(EventScrollAnimationEnded))
	assert.False(t, Lossy(EventError))
}
