package stream

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Default webcam settings
const (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultFPS    = 30
)

// Webcam captures frames from a local camera device using GoCV.
type Webcam struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
}

// NewWebcam creates a webcam source for the given device ID.
func NewWebcam(deviceID int) *Webcam {
	return &Webcam{deviceID: deviceID}
}

// Open opens the camera device and sets the capture resolution.
func (w *Webcam) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(w.deviceID)
	if err != nil {
		return err
	}

	// Set resolution for performance
	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	capture.Set(gocv.VideoCaptureFPS, DefaultFPS)

	w.capture = capture
	w.running = true

	return nil
}

// Close closes the camera and releases resources.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running || w.capture == nil {
		w.running = false
		return nil
	}

	err := w.capture.Close()
	w.capture = nil
	w.running = false

	return err
}

// ReadFrame reads a single frame from the camera.
// The caller is responsible for closing the returned Mat.
func (w *Webcam) ReadFrame() (*gocv.Mat, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running || w.capture == nil {
		return nil, ErrSourceClosed
	}

	mat := gocv.NewMat()
	if ok := w.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// IsOpen returns true if the camera is currently open.
func (w *Webcam) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
