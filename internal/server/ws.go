package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/katana/internal/game"
)

const (
	writeWait  = 2 * time.Second
	clientSend = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// SnapshotHub broadcasts game snapshots to WebSocket clients. It implements
// app.Renderer, so browsers draw the same snapshots as the local UI.
// A client that falls behind loses snapshots rather than slowing the others.
type SnapshotHub struct {
	clients map[*client]bool
	mu      sync.RWMutex
}

// NewSnapshotHub creates an empty hub.
func NewSnapshotHub() *SnapshotHub {
	return &SnapshotHub{clients: make(map[*client]bool)}
}

// Render sends snap to every connected client.
func (h *SnapshotHub) Render(snap game.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(snap)
	if err != nil {
		log.Printf("Failed to encode snapshot: %v", err)
		return
	}

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *SnapshotHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SnapshotHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	c := &client{conn: conn, send: make(chan []byte, clientSend)}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	done := make(chan struct{})
	go h.writePump(c, done)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()
	<-done
}

func (h *SnapshotHub) writePump(c *client, done chan<- struct{}) {
	defer close(done)

	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.conn.Close()
			// Drain until the reader notices the closed connection.
			for range c.send {
			}
			return
		}
	}
}
