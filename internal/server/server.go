// Package server exposes the firebridge WebSocket sink plus the HTTP
// preview and session endpoints.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mass60/firebridge/internal/pipeline"
	"github.com/mass60/firebridge/internal/server/api"
	"github.com/mass60/firebridge/internal/store"
)

// Config holds the server configuration.
type Config struct {
	// WSPath is where clients subscribe for parameter records.
	WSPath string

	Hub     *Hub
	Store   *store.Store
	Preview *pipeline.FrameBuffer
}

// Server represents the firebridge HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.WSPath == "" {
		config.WSPath = "/fireworks"
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Hub != nil {
		s.mux.Handle(s.config.WSPath, s.config.Hub)
	}

	if s.config.Store != nil {
		sessionsHandler := api.NewSessionsHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionsHandler)
		s.mux.Handle("/api/sessions/", sessionsHandler)
	}

	if s.config.Preview != nil {
		s.mux.Handle("/api/preview", NewPreviewHandler(s.config.Preview))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Hub != nil {
		response["clients"] = s.config.Hub.ClientCount()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
