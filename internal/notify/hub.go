// Package notify pushes invalidation events to connected clients over
// websockets so open sessions re-fetch instead of polling shared state.
// Events are scoped per handbook.
package notify

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types published by the API handlers.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventMemberChanged    = "member.changed"
)

// Event is a single invalidation message sent to subscribers.
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	EmittedAt time.Time `json:"emitted_at"`
}

const (
	writeWait = 5 * time.Second
	// Per-client buffered events; a client that falls further behind is dropped.
	clientBuffer = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to the websocket clients subscribed to each handbook.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{} // handbookID -> clients
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
	}
}

// Publish sends an event to every client subscribed to the handbook.
// Safe to call with a nil hub so handlers need no wiring in tests.
func (h *Hub) Publish(handbookID string, ev Event) {
	if h == nil {
		return
	}

	ev.EmittedAt = time.Now().UTC()
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("notify: failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for cl := range h.clients[handbookID] {
		select {
		case cl.send <- msg:
		default:
			// Slow client; closing the channel here would race with the
			// write pump, so just drop the event.
			log.Printf("notify: dropping event for slow client on handbook %s", handbookID)
		}
	}
}

// Subscribe registers a websocket connection for a handbook's events and
// services it until the connection dies. Blocks until disconnect.
func (h *Hub) Subscribe(handbookID string, conn *websocket.Conn) {
	cl := &client{
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}

	h.mu.Lock()
	if h.clients[handbookID] == nil {
		h.clients[handbookID] = make(map[*client]struct{})
	}
	h.clients[handbookID][cl] = struct{}{}
	h.mu.Unlock()

	defer conn.Close()

	// Write pump.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range cl.send {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Read pump: clients send nothing meaningful, but reading is required to
	// notice the close frame.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("notify: websocket error: %v", err)
			}
			break
		}
	}

	// Deregister before closing send: once the write lock is acquired every
	// in-flight Publish has finished its fan-out, so nothing can send on the
	// closed channel.
	h.mu.Lock()
	delete(h.clients[handbookID], cl)
	if len(h.clients[handbookID]) == 0 {
		delete(h.clients, handbookID)
	}
	h.mu.Unlock()

	close(cl.send)
	<-done
}
