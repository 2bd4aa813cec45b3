// Package classify turns geometric observations into discrete gesture or
// expression labels with a confidence score. Two strategies exist: an
// ordered first-match rule list (gestures) and a score-everything table
// with a neutral penalty (expressions). Both are pure: no hidden state, no
// side effects, and exactly one label with confidence in [0,1] per call.
package classify

import "github.com/mass60/firebridge/internal/feature"

// Gesture labels produced by the first-match strategy.
const (
	LabelOpenPalm = "open_palm"
	LabelFist     = "fist"
	LabelPeace    = "peace"
	LabelPinch    = "pinch"
	LabelThumbsUp = "thumbs_up"
	LabelPoint    = "point"
	LabelMixed    = "mixed"
	LabelIdle     = "idle"
)

// Expression labels produced by the score-table strategy.
const (
	LabelHappy     = "happy"
	LabelSurprised = "surprised"
	LabelAngry     = "angry"
	LabelSad       = "sad"
	LabelNeutral   = "neutral"
)

// Result is one classification of one subject in one frame. Immutable once
// produced.
type Result struct {
	Label      string
	Confidence float64
	Center     feature.Point
	Handedness string

	// Ratios carries the raw observation through to the output payload
	// (spread, pinch strength, twist).
	Ratios map[string]float64
}

// Strategy classifies observations into labels. Implementations must be
// pure and safe for reuse across subjects.
type Strategy interface {
	// Classify maps one observation to exactly one label with a
	// confidence clamped to [0,1].
	Classify(obs feature.Observation) Result

	// Idle returns the no-subject sentinel result for this strategy.
	Idle() Result
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
