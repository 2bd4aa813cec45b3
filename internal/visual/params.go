// Package visual maps stable labels to the continuous control parameters
// consumed by the fireworks visual, and defines the broadcast record.
package visual

import (
	"math"

	"github.com/mass60/firebridge/internal/feature"
)

// Record types on the wire.
const (
	TypeGesture  = "gesture"
	TypeShutdown = "shutdown"
)

// Params is one visual-control record. Immutable once constructed;
// serialized via Payload and handed to the publish sink.
type Params struct {
	Type          string
	Gesture       string
	Confidence    float64
	Hue           float64 // degrees, [0,360)
	LaunchPower   float64 // [0,1]
	SparkDensity  float64 // [0.2,1.9]
	Twist         float64 // [-1,1]
	Center        feature.Point
	Spread        float64
	PinchStrength float64
	Handedness    string
	Style         string
	Timestamp     float64 // unix seconds
}

// ShutdownRecord returns the sentinel record that tells the publish sink
// to terminate its consume loop.
func ShutdownRecord() Params {
	return Params{Type: TypeShutdown}
}

// Payload converts the record to its wire form with fixed precision:
// hue at 2 decimal places, everything else at 3.
func (p Params) Payload() map[string]any {
	if p.Type == TypeShutdown {
		return map[string]any{"type": TypeShutdown}
	}

	return map[string]any{
		"type":           TypeGesture,
		"gesture":        p.Gesture,
		"confidence":     round(p.Confidence, 3),
		"hue":            round(p.Hue, 2),
		"launch_power":   round(p.LaunchPower, 3),
		"spark_density":  round(p.SparkDensity, 3),
		"twist":          round(p.Twist, 3),
		"handedness":     p.Handedness,
		"center":         map[string]any{"x": round(p.Center.X, 3), "y": round(p.Center.Y, 3)},
		"spread":         round(p.Spread, 3),
		"pinch_strength": round(p.PinchStrength, 3),
		"style":          p.Style,
		"timestamp":      p.Timestamp,
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
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
