package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per detection run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL CHECK(mode IN ('gesture', 'expression')),
			source TEXT NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		)`,

		// Events table - emitted parameter records
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			gesture TEXT NOT NULL,
			confidence REAL NOT NULL,
			hue REAL NOT NULL,
			launch_power REAL NOT NULL,
			spark_density REAL NOT NULL,
			twist REAL NOT NULL,
			center_x REAL NOT NULL,
			center_y REAL NOT NULL,
			spread REAL NOT NULL,
			pinch_strength REAL NOT NULL,
			handedness TEXT NOT NULL DEFAULT 'unknown',
			style TEXT NOT NULL,
			timestamp REAL NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_gesture ON events(gesture)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
