package detector

import "gocv.io/x/gocv"

// HandDetector analyzes video frames and returns detected hand landmarks.
type HandDetector interface {
	// DetectHands returns landmarks for every hand found in the frame.
	// Returns an empty slice if no hands are detected.
	DetectHands(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// FaceDetector analyzes video frames and returns detected face landmarks.
type FaceDetector interface {
	// DetectFaces returns landmarks for every face found in the frame.
	// Returns an empty slice if no faces are detected.
	DetectFaces(frame *gocv.Mat) ([]FaceLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for landmark detection.
type Config struct {
	// MaxSubjects is the maximum number of hands or faces to detect (default: 1).
	MaxSubjects int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxSubjects:     1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
