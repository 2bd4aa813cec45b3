package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/mass60/firebridge/internal/store"
	"github.com/mass60/firebridge/internal/visual"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return New(Config{Store: st, Hub: NewHub()}), st
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %v", resp["status"])
	}
	if _, ok := resp["uptime"]; !ok {
		t.Error("expected an uptime field")
	}
}

func TestServer_HealthMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestServer_SessionsAPI(t *testing.T) {
	srv, st := newTestServer(t)

	session, err := st.Sessions().Create(store.ModeGesture, "webcam:0")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if err := st.Events().Insert(session.ID, visual.Params{
		Type: visual.TypeGesture, Gesture: "fist", Style: "meteor",
	}); err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}

	// List sessions.
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected status 200, got %d", w.Code)
	}
	var list struct {
		Sessions []struct {
			ID     string `json:"id"`
			Events int    `json:"events"`
		} `json:"sessions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list.Sessions) != 1 || list.Sessions[0].ID != session.ID {
		t.Fatalf("unexpected session list: %+v", list)
	}
	if list.Sessions[0].Events != 1 {
		t.Errorf("expected event count 1, got %d", list.Sessions[0].Events)
	}

	// Session events.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/"+session.ID+"/events", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("events: expected status 200, got %d", w.Code)
	}
	var events struct {
		Events []struct {
			Gesture string `json:"gesture"`
			Style   string `json:"style"`
		} `json:"events"`
	}
	if err := json.NewDecoder(w.Body).Decode(&events); err != nil {
		t.Fatalf("failed to decode events: %v", err)
	}
	if len(events.Events) != 1 || events.Events[0].Gesture != "fist" {
		t.Fatalf("unexpected events: %+v", events)
	}

	// Unknown session.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown session, got %d", w.Code)
	}

	// Delete.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+session.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204 on delete, got %d", w.Code)
	}
}
