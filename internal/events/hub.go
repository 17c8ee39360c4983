// Package events broadcasts collection changes to in-process subscribers.
// Delivery is best effort: a subscriber that falls behind misses
// notifications and should re-read the collections it shows.
package events

import (
	"log/slog"
	"sync"
)

// Change announces that the document under Key now has Version.
type Change struct {
	Key     string `json:"key"`
	Version int64  `json:"version"`
}

// Hub fans change notifications out to subscribers.
// The zero value is not usable; call NewHub.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Change
	nextID int
	logger *slog.Logger
}

// NewHub returns a Hub with no subscribers.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{subs: map[int]chan Change{}, logger: logger}
}

// Subscribe registers a subscriber with the given channel buffer. The
// returned function unsubscribes and closes the channel; it is safe to call
// more than once.
func (h *Hub) Subscribe(buffer int) (<-chan Change, func()) {
	ch := make(chan Change, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish sends a change to every subscriber without blocking.
func (h *Hub) Publish(key string, version int64) {
	c := Change{Key: key, Version: version}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- c:
		default:
			h.logger.Debug("change notification dropped", "subscriber", id, "key", key, "version", version)
		}
	}
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
