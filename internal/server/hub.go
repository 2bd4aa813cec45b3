package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mass60/firebridge/internal/visual"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Hub fans parameter records out to every connected WebSocket client.
// Clients subscribe by connecting; the detection pipeline is the only
// publisher. When the shutdown sentinel arrives the hub notifies all
// clients and stops.
type Hub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	done    chan struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		done:    make(chan struct{}),
	}
}

// Done is closed after the hub has broadcast the shutdown message.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Run consumes records until the shutdown sentinel, broadcasting each one.
func (h *Hub) Run(records <-chan visual.Params) {
	for rec := range records {
		if rec.Type == visual.TypeShutdown {
			h.broadcast(map[string]any{"type": visual.TypeShutdown})
			break
		}
		h.broadcast(rec.Payload())
	}

	h.mu.Lock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
	h.mu.Unlock()
	close(h.done)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	hello, _ := json.Marshal(map[string]any{
		"type":    "hello",
		"message": "firebridge-ready",
	})
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("Client connected (%d total)", n)

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		n := len(h.clients)
		h.mu.Unlock()
		log.Printf("Client disconnected (%d total)", n)
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends one JSON message to every connected client. A client
// whose write fails is dropped.
func (h *Hub) broadcast(payload map[string]any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error encoding record: %v", err)
		return
	}

	h.mu.Lock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
