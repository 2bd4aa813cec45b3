// Package feature derives normalized geometric observations from raw
// landmark detections. All ratios are scaled by a body-size reference (palm
// span for hands, cheek-to-cheek width for faces) so they are invariant to
// how close the subject stands to the camera.
package feature

import "math"

// Ratio keys shared between the extractors and the classifiers.
const (
	// Hand ratios
	RatioPinchStrength = "pinch_strength"
	RatioTipSpread     = "tip_spread"
	RatioTwist         = "twist"
	RatioFingerCount   = "finger_count"
	RatioThumb         = "thumb"
	RatioIndex         = "index"
	RatioMiddle        = "middle"
	RatioRing          = "ring"
	RatioPinky         = "pinky"
	RatioThumbRaise    = "thumb_raise"

	// Face ratios
	RatioMouthWidth  = "mouth_width"
	RatioMouthHeight = "mouth_height"
	RatioLipGap      = "lip_gap"
	RatioEyeOpen     = "eye_open"
	RatioBrowGap     = "brow_gap"
	RatioMouthAngle  = "mouth_angle"
)

// Point is a 2-D point in [0,1]x[0,1] image-normalized coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Observation is the per-frame geometric feature set for one subject.
// It is ephemeral: created, classified, and discarded every frame.
type Observation struct {
	Center     Point
	Handedness string
	Ratios     map[string]float64
}

// Ratio returns the named ratio, or zero if the extractor did not set it.
func (o Observation) Ratio(name string) float64 {
	return o.Ratios[name]
}

func dist(ax, ay, bx, by float64) float64 {
	dx := ax - bx
	dy := ay - by
	return math.Sqrt(dx*dx + dy*dy)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
