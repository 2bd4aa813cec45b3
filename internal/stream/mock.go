package stream

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back pre-recorded frames for testing.
type MockSource struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
}

// NewMockSource creates a source over the given frames. When loop is true
// playback restarts from the first frame after the last.
func NewMockSource(frames []*gocv.Mat, loop bool) *MockSource {
	return &MockSource{
		frames: frames,
		loop:   loop,
	}
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.index = 0
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

func (s *MockSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrSourceClosed
	}

	if len(s.frames) == 0 {
		return nil, fmt.Errorf("no frames available")
	}

	if s.index >= len(s.frames) {
		if s.loop {
			s.index = 0
		} else {
			return nil, fmt.Errorf("no more frames")
		}
	}

	// Clone the frame so the original isn't modified
	frame := s.frames[s.index].Clone()
	s.index++

	return &frame, nil
}

// Reset restarts playback from the beginning.
func (s *MockSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}
