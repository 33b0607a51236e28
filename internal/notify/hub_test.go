package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, hub *Hub, handbookID string) (*httptest.Server, string) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Subscribe(handbookID, conn)
	}))
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	srv, url := newHubServer(t, hub, "hb-1")
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The subscription is registered asynchronously by the server handler.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients["hb-1"]) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Publish("hb-1", Event{Type: EventBookingCreated})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), EventBookingCreated)
}

func TestPublishDuringDisconnectDoesNotPanic(t *testing.T) {
	hub := NewHub()
	srv, url := newHubServer(t, hub, "hb-1")
	defer srv.Close()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				hub.Publish("hb-1", Event{Type: EventBookingCancelled})
			}
		}
	}()

	// Churn connections while the publisher hammers the hub. A send on a
	// closed channel would panic the publisher goroutine and fail the run.
	for i := 0; i < 25; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		conn.Close()
	}

	close(stop)
	wg.Wait()

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestNilHubPublishIsNoop(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() {
		hub.Publish("hb-1", Event{Type: EventMemberChanged})
	})
}
