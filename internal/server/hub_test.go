package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mass60/firebridge/internal/feature"
	"github.com/mass60/firebridge/internal/visual"
)

func dialHub(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to decode message %q: %v", data, err)
	}
	return msg
}

func TestHub_HelloOnConnect(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(hub)
	defer ts.Close()

	conn := dialHub(t, ts)
	msg := readJSON(t, conn)

	if msg["type"] != "hello" {
		t.Errorf("expected hello message, got %+v", msg)
	}
	if msg["message"] != "firebridge-ready" {
		t.Errorf("expected firebridge-ready greeting, got %+v", msg)
	}
}

func TestHub_BroadcastsRecords(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(hub)
	defer ts.Close()

	records := make(chan visual.Params, 4)
	go hub.Run(records)

	conn := dialHub(t, ts)
	readJSON(t, conn) // hello

	records <- visual.Params{
		Type:       visual.TypeGesture,
		Gesture:    "peace",
		Confidence: 0.842,
		Hue:        48.123,
		Center:     feature.Point{X: 0.5, Y: 0.5},
		Style:      "galaxy",
	}

	msg := readJSON(t, conn)
	if msg["type"] != "gesture" || msg["gesture"] != "peace" {
		t.Fatalf("unexpected broadcast: %+v", msg)
	}
	if msg["hue"].(float64) != 48.12 {
		t.Errorf("expected hue rounded to 48.12, got %v", msg["hue"])
	}
	if msg["style"] != "galaxy" {
		t.Errorf("expected style galaxy, got %v", msg["style"])
	}

	records <- visual.ShutdownRecord()
	msg = readJSON(t, conn)
	if msg["type"] != "shutdown" {
		t.Fatalf("expected shutdown broadcast, got %+v", msg)
	}

	select {
	case <-hub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected the hub to stop after the shutdown sentinel")
	}
}

func TestHub_ClientCount(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(hub)
	defer ts.Close()

	conn := dialHub(t, ts)
	readJSON(t, conn)

	if got := hub.ClientCount(); got != 1 {
		t.Errorf("expected 1 client, got %d", got)
	}
}
