package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/poliscope/poliscope/internal/identity"
)

const wsWriteTimeout = 10 * time.Second

// ReviewEvent is one message pushed to connected review clients
type ReviewEvent struct {
	Type        string                  `json:"type"`
	Observation identity.Observation    `json:"observation"`
	Result      *identity.ResolveResult `json:"result"`
	At          time.Time               `json:"at"`
}

// ReviewHub fans review events out to connected WebSocket clients.
// Clients that fall behind are dropped rather than blocking the ingest path.
type ReviewHub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

// NewReviewHub creates an empty hub
func NewReviewHub() *ReviewHub {
	return &ReviewHub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// HandleWS upgrades the connection and registers it for review events.
// The read loop exists only to detect disconnects; clients do not send.
func (h *ReviewHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("review hub: upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("review hub: client connected (%d total)", count)

	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends an event to every connected client, dropping the ones
// whose writes fail.
func (h *ReviewHub) Broadcast(event ReviewEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("review hub: dropping client: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *ReviewHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *ReviewHub) remove(conn *websocket.Conn) {
	conn.Close()
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
	}
	h.mu.Unlock()
}
