// Package events provides Notifier implementations: an in-process bus for
// tests and single-binary runs, and a NATS publisher for external consumers.
package events

import (
	"context"
	"sync"

	"github.com/stratokube/strato/domain/model"
	"github.com/stratokube/strato/internal/logging"
)

// Handler consumes events delivered by a LocalBus.
type Handler func(ctx context.Context, ev *model.Event)

// LocalBus is an in-process Notifier that fans events out to subscribed
// handlers. Handlers run on the publisher's goroutine; keep them short.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	history  []*model.Event
	keep     int
}

// NewLocalBus creates a LocalBus retaining up to keep recent events
// (0 disables retention).
func NewLocalBus(keep int) *LocalBus {
	return &LocalBus{
		handlers: make(map[string][]Handler),
		keep:     keep,
	}
}

// Subscribe registers a handler for an event type, e.g. "cluster.created".
// The wildcard "*" receives every event.
func (b *LocalBus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Publish delivers ev to matching handlers. It never fails.
func (b *LocalBus) Publish(ctx context.Context, ev *model.Event) error {
	b.mu.Lock()
	if b.keep > 0 {
		b.history = append(b.history, ev)
		if len(b.history) > b.keep {
			b.history = b.history[len(b.history)-b.keep:]
		}
	}
	handlers := append([]Handler(nil), b.handlers[ev.Type()]...)
	handlers = append(handlers, b.handlers["*"]...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
	logging.FromContext(ctx).Debug(ctx, "event published",
		"topic", ev.Topic(), "type", ev.Type(), "resource_id", ev.ResourceID)
	return nil
}

// Recent returns up to the last keep events, oldest first.
func (b *LocalBus) Recent() []*model.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*model.Event(nil), b.history...)
}

var _ model.Notifier = (*LocalBus)(nil)
