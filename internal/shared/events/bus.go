package events

import (
	"sync"
)

// Detail carries the structured payload of an event.
type Detail map[string]interface{}

// Event is a named notification with a structured payload.
type Event struct {
	Topic  string `json:"topic"`
	Detail Detail `json:"detail,omitempty"`
}

// Handler receives events published on a Bus.
type Handler func(Event)

// Bus is a synchronous publish/subscribe bus with named topics.
//
// Every stateful object in the desktop core owns a Bus; owning managers
// subscribe to their children's buses and re-publish on their own. Fan-out
// is synchronous: Emit returns after every handler has run.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string]map[int]Handler
	all      map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string]map[int]Handler),
		all:      make(map[int]Handler),
	}
}

// Subscribe registers a handler for a single topic and returns a function
// that removes the subscription. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	set, ok := b.handlers[topic]
	if !ok {
		set = make(map[int]Handler)
		b.handlers[topic] = set
	}
	set[id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if set, ok := b.handlers[topic]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(b.handlers, topic)
			}
		}
	}
}

// SubscribeAll registers a handler for every topic published on the bus.
func (b *Bus) SubscribeAll(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.all[id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.all, id)
	}
}

// Emit publishes an event to all topic subscribers and all wildcard
// subscribers. Handlers run synchronously on the caller's goroutine; a
// panicking handler is recovered so it cannot poison the publisher.
func (b *Bus) Emit(topic string, detail Detail) {
	b.mu.RLock()
	targets := make([]Handler, 0, len(b.handlers[topic])+len(b.all))
	for _, h := range b.handlers[topic] {
		targets = append(targets, h)
	}
	for _, h := range b.all {
		targets = append(targets, h)
	}
	b.mu.RUnlock()

	ev := Event{Topic: topic, Detail: detail}
	for _, h := range targets {
		safeCall(h, ev)
	}
}

// SubscriberCount returns the number of handlers registered for a topic,
// wildcard subscribers excluded.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[topic])
}

func safeCall(h Handler, ev Event) {
	defer func() {
		_ = recover()
	}()
	h(ev)
}
