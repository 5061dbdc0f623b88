// Package driver implements the ambient, non-core layer that exposes a
// running world to external viewers: a websocket snapshot broadcaster
// used by the headless binary's -web mode.
package driver

import (
	"log"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/GoCodeAlone/terrarium/internal/metrics"
)

// Broadcaster fans a Snapshot out to every connected websocket client,
// dropping any client whose send fails.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewBroadcaster returns an empty broadcaster ready to accept clients.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*websocket.Conn]bool)}
}

// Handler returns the websocket.Handler to mount at the viewer endpoint.
func (b *Broadcaster) Handler() websocket.Handler {
	return websocket.Handler(b.handleConn)
}

func (b *Broadcaster) handleConn(ws *websocket.Conn) {
	defer ws.Close()

	b.mu.Lock()
	b.clients[ws] = true
	b.mu.Unlock()

	log.Printf("driver: client connected, total %d", b.count())

	// Block on client messages only to detect disconnection; the core
	// exposes no client-initiated controls beyond what the core
	// interface already provides, so any received message is ignored.
	for {
		var discard map[string]interface{}
		if err := websocket.JSON.Receive(ws, &discard); err != nil {
			break
		}
	}

	b.mu.Lock()
	delete(b.clients, ws)
	b.mu.Unlock()

	log.Printf("driver: client disconnected, total %d", b.count())
}

func (b *Broadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Publish sends snap to every connected client, unregistering any
// client whose send fails.
func (b *Broadcaster) Publish(snap metrics.Snapshot) {
	b.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	for _, c := range clients {
		if err := websocket.JSON.Send(c, snap); err != nil {
			b.mu.Lock()
			delete(b.clients, c)
			b.mu.Unlock()
		}
	}
}
