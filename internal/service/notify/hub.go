// Package notify is the in-process change notification hub: a
// publish/subscribe registry keyed by page id that fans page-changed events
// out to long-lived client connections.
//
// Delivery is best-effort and at-most-once. Nothing is buffered for future
// subscribers, nothing survives a restart, and nothing crosses process
// boundaries; the client reconciliation loop is the safety net for anything
// a subscriber misses.
package notify

import (
	"sync"
	"time"
)

// Event tells a subscriber that a page's content or metadata changed.
// It carries no diff; interested clients refetch.
type Event struct {
	PageID    string    `json:"page_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// subscriberBuffer bounds each subscriber's channel. A consumer that falls
// further behind than this loses events instead of blocking Emit.
const subscriberBuffer = 16

type subscriber struct {
	ch chan Event
}

// Hub is a process-local registry of page subscribers. The zero value is
// not usable; call NewHub.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers for all future Emit calls on pageID. Multiple
// subscribers per page are allowed (one per open tab or viewer).
//
// The returned cancel func removes the registration and closes the channel.
// It is idempotent; the transport layer calls it both on explicit teardown
// and on connection abort, sometimes twice.
func (h *Hub) Subscribe(pageID string) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	set, ok := h.subs[pageID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[pageID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[pageID]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(h.subs, pageID)
				}
			}
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Emit delivers {pageID, updatedAt} to every currently registered
// subscriber of pageID. Sends are non-blocking: a full subscriber buffer
// drops the event for that subscriber only.
func (h *Hub) Emit(pageID string, updatedAt time.Time) {
	event := Event{PageID: pageID, UpdatedAt: updatedAt}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[pageID] {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// Subscribers reports how many handlers are registered for pageID.
func (h *Hub) Subscribers(pageID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[pageID])
}
