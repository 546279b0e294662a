// Package event is a synchronous observer registry. Listeners are keyed by
// event name and pointer identity, so registering the same *Listener twice
// is a no-op.
package event

import (
	"log/slog"
	"slices"
	"sync"
)

// Name identifies an outward event.
type Name string

// Events emitted by the sheet.
const (
	Confirm Name = "confirm"
	Close   Name = "close"
)

// Handler receives an event payload. Close events carry nil.
type Handler func(payload any)

// Listener wraps a Handler so it has a stable identity for Off.
type Listener struct {
	fn Handler
}

// NewListener wraps fn.
func NewListener(fn Handler) *Listener {
	return &Listener{fn: fn}
}

// Registry holds listeners per event in registration order. It is safe for
// concurrent use; listeners run without the registry lock held.
type Registry struct {
	mu        sync.RWMutex
	listeners map[Name][]*Listener
	logger    *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger uses slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		listeners: make(map[Name][]*Listener),
		logger:    logger,
	}
}

// On registers l for name. It reports false if l was already registered or
// is nil.
func (r *Registry) On(name Name, l *Listener) bool {
	if l == nil || l.fn == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.listeners[name], l) {
		return false
	}
	r.listeners[name] = append(r.listeners[name], l)
	return true
}

// Off removes l from name. It reports whether l was registered.
func (r *Registry) Off(name Name, l *Listener) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls := r.listeners[name]
	i := slices.Index(ls, l)
	if i < 0 {
		return false
	}
	r.listeners[name] = slices.Delete(ls, i, i+1)
	if len(r.listeners[name]) == 0 {
		delete(r.listeners, name)
	}
	return true
}

// Count returns the number of listeners for name.
func (r *Registry) Count(name Name) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners[name])
}

// Emit calls every listener for name in registration order. Listeners added
// or removed during Emit take effect on the next Emit.
func (r *Registry) Emit(name Name, payload any) {
	r.mu.RLock()
	ls := slices.Clone(r.listeners[name])
	r.mu.RUnlock()
	r.logger.Debug("emit", "event", string(name), "listeners", len(ls))
	for _, l := range ls {
		l.fn(payload)
	}
}
