// Package api provides HTTP handlers for recorded firebridge sessions.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mass60/firebridge/internal/store"
)

// SessionsHandler handles HTTP requests for session resources.
type SessionsHandler struct {
	store *store.Store
}

// NewSessionsHandler creates a new SessionsHandler with the given store.
func NewSessionsHandler(s *store.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

// ServeHTTP routes session requests.
// Paths: /api/sessions, /api/sessions/{id}, /api/sessions/{id}/events.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/events"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.events(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type sessionResponse struct {
	ID        string `json:"id"`
	Mode      string `json:"mode"`
	Source    string `json:"source"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at,omitempty"`
	Events    int    `json:"events"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type eventResponse struct {
	ID            int64   `json:"id"`
	Gesture       string  `json:"gesture"`
	Confidence    float64 `json:"confidence"`
	Hue           float64 `json:"hue"`
	LaunchPower   float64 `json:"launch_power"`
	SparkDensity  float64 `json:"spark_density"`
	Twist         float64 `json:"twist"`
	CenterX       float64 `json:"center_x"`
	CenterY       float64 `json:"center_y"`
	Spread        float64 `json:"spread"`
	PinchStrength float64 `json:"pinch_strength"`
	Handedness    string  `json:"handedness"`
	Style         string  `json:"style"`
	Timestamp     float64 `json:"timestamp"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Session plus its event count.
func (h *SessionsHandler) toResponse(s *store.Session) sessionResponse {
	count, err := h.store.Events().CountBySession(s.ID)
	if err != nil {
		count = 0
	}

	resp := sessionResponse{
		ID:        s.ID,
		Mode:      s.Mode,
		Source:    s.Source,
		StartedAt: s.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		Events:    count,
	}
	if s.EndedAt.Valid {
		resp.EndedAt = s.EndedAt.Time.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions.
func (h *SessionsHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, h.toResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}.
func (h *SessionsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(session))
}

// events handles GET /api/sessions/{id}/events.
func (h *SessionsHandler) events(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.store.Sessions().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	events, err := h.store.Events().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{
		Events: make([]eventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, eventResponse{
			ID:            e.ID,
			Gesture:       e.Gesture,
			Confidence:    e.Confidence,
			Hue:           e.Hue,
			LaunchPower:   e.LaunchPower,
			SparkDensity:  e.SparkDensity,
			Twist:         e.Twist,
			CenterX:       e.CenterX,
			CenterY:       e.CenterY,
			Spread:        e.Spread,
			PinchStrength: e.PinchStrength,
			Handedness:    e.Handedness,
			Style:         e.Style,
			Timestamp:     e.Timestamp,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Sessions().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
