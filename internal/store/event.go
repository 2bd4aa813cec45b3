package store

import (
	"database/sql"

	"github.com/mass60/firebridge/internal/visual"
)

// Event is one emitted parameter record persisted for a session.
type Event struct {
	ID            int64
	SessionID     string
	Gesture       string
	Confidence    float64
	Hue           float64
	LaunchPower   float64
	SparkDensity  float64
	Twist         float64
	CenterX       float64
	CenterY       float64
	Spread        float64
	PinchStrength float64
	Handedness    string
	Style         string
	Timestamp     float64
}

// EventRepository provides operations for emitted parameter events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Insert records one emitted parameter record against a session.
func (r *EventRepository) Insert(sessionID string, p visual.Params) error {
	_, err := r.db.Exec(
		`INSERT INTO events (
			session_id, gesture, confidence, hue, launch_power, spark_density,
			twist, center_x, center_y, spread, pinch_strength, handedness,
			style, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, p.Gesture, p.Confidence, p.Hue, p.LaunchPower, p.SparkDensity,
		p.Twist, p.Center.X, p.Center.Y, p.Spread, p.PinchStrength, p.Handedness,
		p.Style, p.Timestamp,
	)
	return err
}

// ListBySession retrieves all events for a session in emission order.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, gesture, confidence, hue, launch_power,
			spark_density, twist, center_x, center_y, spread, pinch_strength,
			handedness, style, timestamp
		 FROM events WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		err := rows.Scan(&e.ID, &e.SessionID, &e.Gesture, &e.Confidence, &e.Hue,
			&e.LaunchPower, &e.SparkDensity, &e.Twist, &e.CenterX, &e.CenterY,
			&e.Spread, &e.PinchStrength, &e.Handedness, &e.Style, &e.Timestamp)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountBySession returns how many events a session recorded.
func (r *EventRepository) CountBySession(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM events WHERE session_id = ?`, sessionID,
	).Scan(&count)
	return count, err
}
