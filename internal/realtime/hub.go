package realtime

import (
	"log/slog"
	"sync"
	"time"
)

const subscriberBufferSize = 16

// Event is a change notification published after a database write so that
// connected clients can refresh their views.
type Event struct {
	Entity         string    `json:"entity"` // e.g. "orders", "workflow_progress", "stock_items"
	Action         string    `json:"action"` // e.g. "created", "updated"
	OrganizationID string    `json:"organizationId"`
	EntityID       string    `json:"entityId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Hub is an in-process publish/subscribe broker for change events. Publishing
// never blocks: subscribers that cannot keep up have events dropped.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	closed      bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber and returns its event channel along
// with a cancel function that must be called when the subscriber is done.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBufferSize)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subscribers[ch] = struct{}{}

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers the event to all current subscribers without blocking.
func (h *Hub) Publish(evt Event) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for ch := range h.subscribers {
		select {
		case ch <- evt:
		default:
			// Subscriber is not draining its channel; drop rather than block
			slog.Warn("dropping realtime event for slow subscriber",
				"entity", evt.Entity,
				"action", evt.Action,
			)
		}
	}
}

// Close shuts down the hub and closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
