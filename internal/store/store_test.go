package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/mass60/firebridge/internal/feature"
	"github.com/mass60/firebridge/internal/visual"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testParams() visual.Params {
	return visual.Params{
		Type:          visual.TypeGesture,
		Gesture:       "open_palm",
		Confidence:    0.92,
		Hue:           160,
		LaunchPower:   0.5,
		SparkDensity:  1.2,
		Twist:         0.1,
		Center:        feature.Point{X: 0.5, Y: 0.5},
		Spread:        1.1,
		PinchStrength: 0.0,
		Handedness:    "right",
		Style:         "nebula",
		Timestamp:     1724457600.5,
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	session, err := s.Sessions().Create(ModeGesture, "webcam:0")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected a generated session ID")
	}

	got, err := s.Sessions().GetByID(session.ID)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if got.Mode != ModeGesture || got.Source != "webcam:0" {
		t.Errorf("unexpected session fields: %+v", got)
	}
	if got.EndedAt.Valid {
		t.Error("expected a fresh session to have no end time")
	}
}

func TestSessionRepository_Finish(t *testing.T) {
	s := newTestStore(t)

	session, err := s.Sessions().Create(ModeExpression, "http://cam/stream")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	if err := s.Sessions().Finish(session.ID); err != nil {
		t.Fatalf("failed to finish session: %v", err)
	}

	got, err := s.Sessions().GetByID(session.ID)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if !got.EndedAt.Valid {
		t.Error("expected finished session to have an end time")
	}

	if err := s.Sessions().Finish("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown session, got %v", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.Sessions().Create(ModeGesture, "webcam:0"); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
	}

	sessions, err := s.Sessions().List()
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("expected 3 sessions, got %d", len(sessions))
	}
}

func TestEventRepository_InsertAndList(t *testing.T) {
	s := newTestStore(t)

	session, err := s.Sessions().Create(ModeGesture, "webcam:0")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	p := testParams()
	for i := 0; i < 4; i++ {
		if err := s.Events().Insert(session.ID, p); err != nil {
			t.Fatalf("failed to insert event: %v", err)
		}
	}

	events, err := s.Events().ListBySession(session.ID)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}

	e := events[0]
	if e.Gesture != "open_palm" || e.Style != "nebula" || e.Handedness != "right" {
		t.Errorf("unexpected event fields: %+v", e)
	}
	if e.Hue != 160 || e.CenterX != 0.5 || e.Timestamp != 1724457600.5 {
		t.Errorf("unexpected event numerics: %+v", e)
	}

	count, err := s.Events().CountBySession(session.ID)
	if err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	if count != 4 {
		t.Errorf("expected count 4, got %d", count)
	}
}

func TestSessionRepository_DeleteCascadesEvents(t *testing.T) {
	s := newTestStore(t)

	session, err := s.Sessions().Create(ModeGesture, "webcam:0")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if err := s.Events().Insert(session.ID, testParams()); err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}

	if err := s.Sessions().Delete(session.ID); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}

	if _, err := s.Sessions().GetByID(session.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	count, err := s.Events().CountBySession(session.ID)
	if err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	if count != 0 {
		t.Errorf("expected events to cascade on delete, found %d", count)
	}
}
