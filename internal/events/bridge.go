package events

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// per-subscription channel buffer
	streamBuffer = 10
	// number of events kept for the recent-events endpoint
	historySize = 100
)

// Event is a single outbound notification consumed by the UI layer.
type Event struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Subscription is one consumer's view of the event stream.
type Subscription struct {
	id     string
	events chan Event
}

// Events returns the channel the subscription's events are delivered on.
// The channel is closed on unsubscribe.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Bridge distributes events to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the event, and with no subscribers
// attached events are dropped outright. The bridge is an observation surface,
// not a reliable delivery channel; the bounded history ring exists for
// diagnostics only.
type Bridge struct {
	eventMux     sync.Mutex
	eventStreams map[string]chan Event
	eventRing    *eventRing
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{
		eventStreams: make(map[string]chan Event),
		eventRing:    newEventRing(historySize),
	}
}

// Publish records an event in the ring and distributes it to all subscribers.
func (b *Bridge) Publish(name string, payload interface{}) {
	event := Event{
		ID:        uuid.New().String(),
		Name:      name,
		Timestamp: time.Now(),
		Payload:   payload,
	}

	b.eventMux.Lock()
	defer b.eventMux.Unlock()

	b.eventRing.add(event)

	for _, stream := range b.eventStreams {
		select {
		case stream <- event:
		default:
			log.Debugf("event stream buffer full, skipping event: %s", event.Name)
		}
	}

	log.Tracef("event published: %s", event.Name)
}

// Subscribe returns a new event subscription.
func (b *Bridge) Subscribe() *Subscription {
	b.eventMux.Lock()
	defer b.eventMux.Unlock()

	id := uuid.New().String()
	stream := make(chan Event, streamBuffer)
	b.eventStreams[id] = stream

	return &Subscription{
		id:     id,
		events: stream,
	}
}

// Unsubscribe removes an event subscription and closes its channel.
func (b *Bridge) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.eventMux.Lock()
	defer b.eventMux.Unlock()

	if stream, exists := b.eventStreams[sub.id]; exists {
		close(stream)
		delete(b.eventStreams, sub.id)
	}
}

// Recent returns the most recently published events, oldest first.
func (b *Bridge) Recent() []Event {
	return b.eventRing.getAll()
}

type eventRing struct {
	maxSize int
	events  []Event
	mutex   sync.RWMutex
}

func newEventRing(size int) *eventRing {
	return &eventRing{
		maxSize: size,
		events:  make([]Event, 0, size),
	}
}

func (q *eventRing) add(event Event) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.events = append(q.events, event)

	if len(q.events) > q.maxSize {
		q.events = q.events[len(q.events)-q.maxSize:]
	}
}

func (q *eventRing) getAll() []Event {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	return slices.Clone(q.events)
}
