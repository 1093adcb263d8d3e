// Package events implements the synchronous publish/subscribe bus that
// carries domain events from command handlers to quest and UI observers.
package events

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nathoo/fidoquest/types"
)

// Handler receives a published event.
type Handler func(types.Event)

type subscription struct {
	id      uint64
	handler Handler
	active  bool
}

// Bus dispatches events to subscribers in registration order. Delivery is
// synchronous and re-entrant: a handler may publish again from inside a
// callback. The bus does no cycle detection.
type Bus struct {
	mu     sync.Mutex
	subs   map[string][]*subscription
	nextID uint64

	// Now stamps published events. Defaults to time.Now.
	Now func() time.Time
	// Log receives recovered subscriber panics. nil discards them.
	Log *log.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *log.Logger) *Bus {
	return &Bus{
		subs: map[string][]*subscription{},
		Now:  time.Now,
		Log:  logger,
	}
}

// Subscribe registers handler for eventType (types.EventWildcard for all
// events) and returns a function that removes the registration.
func (b *Bus) Subscribe(eventType string, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	sub := &subscription{id: b.nextID, handler: handler, active: true}
	b.subs[eventType] = append(b.subs[eventType], sub)
	b.mu.Unlock()

	return func() { b.remove(eventType, sub) }
}

// SubscribeMultiple registers handler for each of eventTypes. The returned
// function removes all of them.
func (b *Bus) SubscribeMultiple(eventTypes []string, handler Handler) func() {
	unsubs := make([]func(), 0, len(eventTypes))
	for _, t := range eventTypes {
		unsubs = append(unsubs, b.Subscribe(t, handler))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Publish delivers an event to the exact-type subscribers and then to the
// wildcard subscribers. A panicking subscriber is logged and skipped.
func (b *Bus) Publish(eventType string, payload map[string]any) {
	data := make(map[string]any, len(payload))
	for k, v := range payload {
		data[k] = v
	}
	evt := types.Event{
		Type:      eventType,
		Timestamp: b.now().UnixMilli(),
		Data:      data,
	}

	// Snapshot so handlers can subscribe or unsubscribe mid-dispatch.
	b.mu.Lock()
	targets := append([]*subscription(nil), b.subs[eventType]...)
	if eventType != types.EventWildcard {
		targets = append(targets, b.subs[types.EventWildcard]...)
	}
	b.mu.Unlock()

	for _, sub := range targets {
		if !b.isActive(sub) {
			continue
		}
		b.deliver(sub, evt)
	}
}

// Clear removes every subscription.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, list := range b.subs {
		for _, sub := range list {
			sub.active = false
		}
	}
	b.subs = map[string][]*subscription{}
}

// SubscriberCount returns the number of live subscriptions for eventType.
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[eventType])
}

func (b *Bus) deliver(sub *subscription, evt types.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logf("events: subscriber %d panicked on %s: %v", sub.id, evt.Type, r)
		}
	}()
	sub.handler(evt)
}

func (b *Bus) remove(eventType string, target *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	target.active = false
	list := b.subs[eventType]
	for i, sub := range list {
		if sub == target {
			b.subs[eventType] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(b.subs[eventType]) == 0 {
		delete(b.subs, eventType)
	}
}

func (b *Bus) isActive(sub *subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sub.active
}

func (b *Bus) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Bus) logf(format string, args ...any) {
	if b.Log == nil {
		return
	}
	b.Log.Output(2, fmt.Sprintf(format, args...))
}
