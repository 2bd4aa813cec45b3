// Package stream provides video frame sources: a local webcam via GoCV and
// a networked MJPEG stream in the style served by ESP32 camera boards.
package stream

import (
	"errors"
	"time"

	"gocv.io/x/gocv"
)

// ErrSourceClosed is returned when reading from a source that is not open.
var ErrSourceClosed = errors.New("stream source is not open")

// Source supplies a sequence of video frames. Implementations handle their
// own reconnection; ReadFrame blocks until a frame is available or the
// source fails permanently.
type Source interface {
	Open() error
	Close() error

	// ReadFrame returns the next frame. The caller owns the returned Mat
	// and must Close it.
	ReadFrame() (*gocv.Mat, error)
}

// FrameRateTracker estimates frames per second over a sliding window of
// observed frame times.
type FrameRateTracker struct {
	timestamps []time.Time
	window     int
}

// NewFrameRateTracker creates a tracker averaging over the last n frames.
func NewFrameRateTracker(n int) *FrameRateTracker {
	if n < 2 {
		n = 30
	}
	return &FrameRateTracker{window: n}
}

// Update records a frame arrival and returns the current FPS estimate.
// Returns 0 until at least two frames have been seen.
func (t *FrameRateTracker) Update() float64 {
	now := time.Now()
	t.timestamps = append(t.timestamps, now)
	if len(t.timestamps) > t.window {
		t.timestamps = t.timestamps[1:]
	}
	if len(t.timestamps) < 2 {
		return 0
	}

	elapsed := t.timestamps[len(t.timestamps)-1].Sub(t.timestamps[0]).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(len(t.timestamps)-1) / elapsed
}
