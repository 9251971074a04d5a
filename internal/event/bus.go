// Package event is a small publish/subscribe registry keyed by event kind.
package event

import (
	"errors"
	"sync"
)

// Kind names an event type. Handlers subscribe per kind.
type Kind string

// Event is anything published on a Bus.
type Event interface {
	Kind() Kind
}

// Handler reacts to a published event.
type Handler func(Event) error

// Bus routes events to the handlers subscribed to their kind.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: map[Kind][]Handler{}}
}

// Subscribe registers h for events of kind k. Handlers run in subscription order.
func (b *Bus) Subscribe(k Kind, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[k] = append(b.handlers[k], h)
}

// On subscribes a handler typed to the concrete event type T.
func On[T Event](b *Bus, fn func(T) error) {
	var zero T
	b.Subscribe(zero.Kind(), func(e Event) error {
		typed, ok := e.(T)
		if !ok {
			return nil
		}
		return fn(typed)
	})
}

// Has reports whether any handler is subscribed to k.
func (b *Bus) Has(k Kind) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[k]) > 0
}

// Publish delivers e to every handler of its kind. All handlers run even when
// one fails; the returned error joins every handler error.
func (b *Bus) Publish(e Event) error {
	if e == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[e.Kind()]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
