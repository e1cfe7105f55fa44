// Package navigation delivers navigation signals to the eviction
// controller. The host router calls Notify explicitly; monkey-patching a
// platform history API is replaced by this inversion.
package navigation

import (
	"sync"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

var _ ports.NavigationSource = (*Hub)(nil)

// Hub fans navigation events out to subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[int]func(domain.NavigationEvent)
	next int
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(domain.NavigationEvent))}
}

// Subscribe registers fn for future events. The returned cancel function
// is idempotent and removes exactly this subscription.
func (h *Hub) Subscribe(fn func(domain.NavigationEvent)) (cancel func()) {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Notify delivers ev to all current subscribers synchronously, in no
// particular order.
func (h *Hub) Notify(ev domain.NavigationEvent) {
	h.mu.Lock()
	fns := make([]func(domain.NavigationEvent), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
