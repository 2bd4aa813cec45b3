package pipeline

import (
	"log"

	"github.com/mass60/firebridge/internal/store"
	"github.com/mass60/firebridge/internal/visual"
)

// Recorder persists emitted parameter records against a store session.
// Persistence failures are logged, never propagated: recording is a side
// channel and must not stall the detection loop.
type Recorder struct {
	store   *store.Store
	session *store.Session
}

// NewRecorder opens a new session in the store.
func NewRecorder(st *store.Store, mode Mode, source string) (*Recorder, error) {
	session, err := st.Sessions().Create(string(mode), source)
	if err != nil {
		return nil, err
	}
	log.Printf("Recording session %s", session.ID)
	return &Recorder{store: st, session: session}, nil
}

// SessionID returns the ID of the session being recorded.
func (r *Recorder) SessionID() string {
	return r.session.ID
}

// Record persists one emitted record. The shutdown sentinel is skipped.
func (r *Recorder) Record(rec visual.Params) {
	if rec.Type == visual.TypeShutdown {
		return
	}
	if err := r.store.Events().Insert(r.session.ID, rec); err != nil {
		log.Printf("Error recording event: %v", err)
	}
}

// Close marks the session as finished.
func (r *Recorder) Close() error {
	return r.store.Sessions().Finish(r.session.ID)
}
