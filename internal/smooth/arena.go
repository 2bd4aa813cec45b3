package smooth

// Arena owns one Smoother per tracked subject, keyed by a caller-chosen
// subject ID (handedness for hands, face index for faces). Like Smoother
// itself, an Arena belongs to a single goroutine; it exists so multiple
// subjects never share smoothing state.
type Arena struct {
	cfg      Config
	subjects map[string]*Smoother
}

// NewArena creates an empty arena; every smoother it creates shares cfg.
func NewArena(cfg Config) *Arena {
	return &Arena{
		cfg:      cfg,
		subjects: make(map[string]*Smoother),
	}
}

// Get returns the smoother for the subject, creating it on first use.
func (a *Arena) Get(subject string) *Smoother {
	s, ok := a.subjects[subject]
	if !ok {
		s = New(a.cfg)
		a.subjects[subject] = s
	}
	return s
}

// Len returns the number of tracked subjects.
func (a *Arena) Len() int {
	return len(a.subjects)
}

// Subjects returns the tracked subject IDs in unspecified order.
func (a *Arena) Subjects() []string {
	keys := make([]string, 0, len(a.subjects))
	for k := range a.subjects {
		keys = append(keys, k)
	}
	return keys
}
