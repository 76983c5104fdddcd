package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Event is the wire frame pushed to connected clients.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Subscriber is one connected viewer. Its channel is buffered; a
// subscriber that cannot keep up loses frames instead of stalling the
// broadcaster.
type Subscriber struct {
	ch    chan []byte
	rooms map[string]struct{}
}

// Events returns the subscriber's outbound frame channel. It is closed
// on Unsubscribe.
func (s *Subscriber) Events() <-chan []byte {
	return s.ch
}

// Hub tracks the live set of connected subscribers. It holds no durable
// state; the set is rebuilt from scratch as clients reconnect.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber and returns it.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		ch:    make(chan []byte, 16),
		rooms: make(map[string]struct{}),
	}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	log.Printf("Socket connected (subscribers: %d)", count)
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subscribers, sub)
	count := len(h.subscribers)
	h.mu.Unlock()

	close(sub.ch)
	log.Printf("Socket disconnected (subscribers: %d)", count)
}

// Join adds the subscriber to a named room. Rooms only scope client-side
// interest today; every event is still broadcast globally.
func (h *Hub) Join(sub *Subscriber, room string) {
	h.mu.Lock()
	sub.rooms[room] = struct{}{}
	h.mu.Unlock()
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Broadcast pushes an event to every connected subscriber. Delivery is
// best effort: there is no ack, no retry and no queue for clients that
// are disconnected or slow.
func (h *Hub) Broadcast(event string, payload interface{}) {
	frame, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		select {
		case sub.ch <- frame:
		default:
			// Subscriber buffer full, drop the frame.
		}
	}
}
