package visual

import (
	"math"

	"github.com/mass60/firebridge/internal/feature"
)

// entry is one row of the label lookup table.
type entry struct {
	hue     float64
	density float64
	twist   float64
	style   string
}

// Mapper converts a stable label plus spatial center and confidence into a
// visual parameter record. Pure and idempotent: identical arguments yield
// identical output. Unknown labels resolve to the fallback entry, never an
// error.
type Mapper struct {
	table    map[string]entry
	fallback string
}

// NewGestureMapper builds the lookup table for the hand-gesture labels.
func NewGestureMapper() *Mapper {
	return &Mapper{
		table: map[string]entry{
			"open_palm": {hue: 160, density: 1.0, twist: 0.1, style: "nebula"},
			"fist":      {hue: 20, density: 1.2, twist: -0.15, style: "meteor"},
			"peace":     {hue: 300, density: 0.9, twist: 0.2, style: "galaxy"},
			"pinch":     {hue: 210, density: 0.7, twist: 0.05, style: "stardust"},
			"thumbs_up": {hue: 90, density: 1.1, twist: 0.15, style: "aurora"},
			"point":     {hue: 45, density: 0.8, twist: 0.0, style: "comet"},
			"mixed":     {hue: 120, density: 0.6, twist: 0.0, style: "spark"},
			"idle":      {hue: 210, density: 0.3, twist: 0.0, style: "embers"},
		},
		fallback: "idle",
	}
}

// NewExpressionMapper builds the lookup table for the expression labels.
func NewExpressionMapper() *Mapper {
	return &Mapper{
		table: map[string]entry{
			"happy":     {hue: 50, density: 1.4, twist: 0.15, style: "nebula"},
			"surprised": {hue: 200, density: 1.6, twist: 0.25, style: "galaxy"},
			"angry":     {hue: 0, density: 1.2, twist: -0.2, style: "meteor"},
			"sad":       {hue: 220, density: 0.6, twist: -0.1, style: "stardust"},
			"neutral":   {hue: 180, density: 0.8, twist: 0.0, style: "embers"},
		},
		fallback: "neutral",
	}
}

// Map converts a label, center, and confidence into a parameter record.
//
// The hue drifts with the horizontal position so moving the subject paints
// across the palette; launch power grows as the subject rises in the frame;
// density is the table base modulated multiplicatively by confidence within
// a fixed band.
func (m *Mapper) Map(label string, center feature.Point, confidence float64) Params {
	e, ok := m.table[label]
	if !ok {
		label = m.fallback
		e = m.table[m.fallback]
	}

	confidence = clamp(confidence, 0, 1)
	hue := math.Mod(e.hue+center.X*120, 360)
	if hue < 0 {
		hue += 360
	}

	return Params{
		Type:         TypeGesture,
		Gesture:      label,
		Confidence:   confidence,
		Hue:          hue,
		LaunchPower:  clamp(1-center.Y, 0.15, 0.95),
		SparkDensity: clamp(e.density*(0.7+0.6*confidence), 0.2, 1.9),
		Twist:        e.twist,
		Center:       center,
		Style:        e.style,
	}
}

// StyleFor returns the style tag for a label, falling back like Map does.
func (m *Mapper) StyleFor(label string) string {
	if e, ok := m.table[label]; ok {
		return e.style
	}
	return m.table[m.fallback].style
}
