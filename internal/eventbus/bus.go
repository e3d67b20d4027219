package eventbus

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType identifies what happened.
type EventType string

const (
	EventTypeRunCompleted       EventType = "run.completed"
	EventTypeDelegationFailed   EventType = "delegation.failed"
	EventTypeChecklistCompleted EventType = "checklist.completed"
	EventTypePostEnqueued       EventType = "post.enqueued"
)

// Event is the payload fanned out to subscribers.
type Event struct {
	ID         string
	Type       EventType
	ResourceID string
	Payload    string
	Metadata   map[string]string
	CreatedAt  time.Time
}

// Bus is an in-process publish/subscribe fan-out. Slow subscribers drop
// events rather than block publishers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan *Event
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[string]chan *Event),
	}
}

func (b *Bus) Subscribe(bufSize int) (string, <-chan *Event) {
	id := ulid.Make().String()
	ch := make(chan *Event, bufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// buffer full, drop event for this subscriber
		}
	}
}

func (b *Bus) PublishNew(eventType EventType, resourceID string, payload string, metadata map[string]string) {
	b.Publish(&Event{
		ID:         ulid.Make().String(),
		Type:       eventType,
		ResourceID: resourceID,
		Payload:    payload,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	})
}
