// Package detector provides hand and face landmark detection interfaces and types.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist            = 0
	ThumbCMC         = 1
	ThumbMCP         = 2
	ThumbIP          = 3
	ThumbTip         = 4
	IndexMCP         = 5
	IndexPIP         = 6
	IndexDIP         = 7
	IndexTip         = 8
	MiddleMCP        = 9
	MiddlePIP        = 10
	MiddleDIP        = 11
	MiddleTip        = 12
	RingMCP          = 13
	RingPIP          = 14
	RingDIP          = 15
	RingTip          = 16
	PinkyMCP         = 17
	PinkyPIP         = 18
	PinkyDIP         = 19
	PinkyTip         = 20
	NumHandLandmarks = 21
)

// Point3D represents a normalized landmark position. X and Y are in [0,1]
// image coordinates; Z is depth relative to the wrist (hands only).
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumHandLandmarks]Point3D `json:"points"`
	Handedness string                    `json:"handedness"` // "Left" or "Right"
	Score      float64                   `json:"score"`
}
