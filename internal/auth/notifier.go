package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// EventType distinguishes identity changes published by the auth service.
type EventType string

const (
	EventLogin  EventType = "login"
	EventLogout EventType = "logout"
)

// Event describes one identity change.
type Event struct {
	Type   EventType
	UserID uuid.UUID
}

// Handler receives identity change events.
type Handler func(ctx context.Context, event Event)

// Notifier fans identity change events out to subscribers. Consumers
// subscribe instead of polling auth state.
type Notifier struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
}

func NewNotifier() *Notifier {
	return &Notifier{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns its unsubscribe function.
func (n *Notifier) Subscribe(handler Handler) func() {
	if handler == nil {
		return func() {}
	}

	n.mu.Lock()
	id := n.next
	n.next++
	n.handlers[id] = handler
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.handlers, id)
		n.mu.Unlock()
	}
}

// Publish invokes every subscribed handler synchronously.
func (n *Notifier) Publish(ctx context.Context, event Event) {
	n.mu.RLock()
	handlers := make([]Handler, 0, len(n.handlers))
	for _, h := range n.handlers {
		handlers = append(handlers, h)
	}
	n.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, event)
	}
}
