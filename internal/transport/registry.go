package transport

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sebas/hotline/internal/events"
)

// Registry maps event names to registered handlers and delivers events to
// them in registration order. Dispatch is sequential: a handler runs to
// completion before the next one is invoked, so trackers never observe
// overlapping events for the same transport.
type Registry struct {
	mu       sync.RWMutex
	handlers map[events.Name][]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[events.Name][]Handler),
	}
}

// On registers a handler for the named event.
func (r *Registry) On(name events.Name, h Handler) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = append(r.handlers[name], h)
}

// Dispatch delivers the event to every handler registered for its name.
// Events with no registered handler are dropped with a debug log.
func (r *Registry) Dispatch(ctx context.Context, evt events.Envelope) {
	r.mu.RLock()
	hs := r.handlers[evt.Name]
	r.mu.RUnlock()

	if len(hs) == 0 {
		slog.Debug("No handler for transport event", "event", evt.Name, "subject", evt.Subject())
		return
	}
	for _, h := range hs {
		h(ctx, evt)
	}
}

// HandlerCount returns the number of handlers registered for the event.
func (r *Registry) HandlerCount(name events.Name) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[name])
}
