package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Mode values for a recorded session.
const (
	ModeGesture    = "gesture"
	ModeExpression = "expression"
)

// Session represents one detection run.
type Session struct {
	ID        string
	Mode      string
	Source    string
	StartedAt time.Time
	EndedAt   sql.NullTime
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create starts a new session and returns it with a generated ID.
func (r *SessionRepository) Create(mode, source string) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		Mode:      mode,
		Source:    source,
		StartedAt: time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, mode, source, started_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.Mode, session.Source, session.StartedAt,
	)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Finish marks a session as ended.
func (r *SessionRepository) Finish(id string) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ? WHERE id = ?`,
		time.Now(), id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	session := &Session{}

	err := r.db.QueryRow(
		`SELECT id, mode, source, started_at, ended_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&session.ID, &session.Mode, &session.Source, &session.StartedAt, &session.EndedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return session, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, mode, source, started_at, ended_at FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session := &Session{}
		err := rows.Scan(&session.ID, &session.Mode, &session.Source,
			&session.StartedAt, &session.EndedAt)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session and, via cascade, its events.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
