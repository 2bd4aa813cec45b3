package feature

import (
	"strings"

	"github.com/mass60/firebridge/internal/detector"
)

// minPalmReference guards the normalization denominator against degenerate
// detections where the palm collapses to a point.
const minPalmReference = 1e-3

// FromHand derives a geometric observation from one detected hand.
//
// The reference measurement is the palm span: wrist-to-middle-MCP plus
// index-MCP-to-pinky-MCP. Finger extension uses tip-above-PIP tests in
// image coordinates, with the thumb tested laterally according to
// handedness.
func FromHand(h *detector.HandLandmarks) Observation {
	p := h.Points

	wrist := p[detector.Wrist]
	indexMCP := p[detector.IndexMCP]
	middleMCP := p[detector.MiddleMCP]
	pinkyMCP := p[detector.PinkyMCP]

	palmRef := dist(wrist.X, wrist.Y, middleMCP.X, middleMCP.Y) +
		dist(indexMCP.X, indexMCP.Y, pinkyMCP.X, pinkyMCP.Y)
	if palmRef < minPalmReference {
		palmRef = minPalmReference
	}

	states := fingerStates(p, h.Handedness)
	fingerCount := 0.0
	for _, up := range states {
		if up {
			fingerCount++
		}
	}

	thumbTip := p[detector.ThumbTip]
	indexTip := p[detector.IndexTip]
	pinchGap := dist(thumbTip.X, thumbTip.Y, indexTip.X, indexTip.Y)
	pinchStrength := clamp(1.0-pinchGap/(0.35*palmRef), 0.0, 1.0)

	tips := []detector.Point3D{
		p[detector.IndexTip], p[detector.MiddleTip],
		p[detector.RingTip], p[detector.PinkyTip],
	}
	spreadSum := 0.0
	for _, tip := range tips {
		spreadSum += dist(tip.X, tip.Y, middleMCP.X, middleMCP.Y)
	}
	tipSpread := clamp(spreadSum/(float64(len(tips))*palmRef), 0.0, 2.0)

	// Palm centroid from the four stable base points
	cx := (wrist.X + indexMCP.X + middleMCP.X + pinkyMCP.X) / 4
	cy := (wrist.Y + indexMCP.Y + middleMCP.Y + pinkyMCP.Y) / 4

	ringTip := p[detector.RingTip]
	twist := clamp((indexTip.X-ringTip.X)*0.6+(wrist.Y-indexTip.Y)*0.4, -0.8, 0.8)

	// Thumb-raise margin: positive only when the thumb alone is extended
	// and its tip sits above both the index MCP and the wrist.
	thumbRaise := 0.0
	if states["thumb"] && !states["index"] && !states["middle"] &&
		!states["ring"] && !states["pinky"] &&
		thumbTip.Y < indexMCP.Y && thumbTip.Y < wrist.Y {
		thumbRaise = indexMCP.Y - thumbTip.Y
	}

	return Observation{
		Center:     Point{X: clamp(cx, 0, 1), Y: clamp(cy, 0, 1)},
		Handedness: strings.ToLower(h.Handedness),
		Ratios: map[string]float64{
			RatioPinchStrength: pinchStrength,
			RatioTipSpread:     tipSpread,
			RatioTwist:         twist,
			RatioFingerCount:   fingerCount,
			RatioThumb:         boolRatio(states["thumb"]),
			RatioIndex:         boolRatio(states["index"]),
			RatioMiddle:        boolRatio(states["middle"]),
			RatioRing:          boolRatio(states["ring"]),
			RatioPinky:         boolRatio(states["pinky"]),
			RatioThumbRaise:    thumbRaise,
		},
	}
}

// fingerStates reports which fingers are extended. The thumb test is
// lateral and mirrored by handedness; the other four compare tip against
// PIP vertically with a small hysteresis margin.
func fingerStates(p [detector.NumHandLandmarks]detector.Point3D, handedness string) map[string]bool {
	states := make(map[string]bool, 5)

	thumbTip := p[detector.ThumbTip]
	thumbIP := p[detector.ThumbIP]
	if strings.EqualFold(handedness, "left") {
		states["thumb"] = thumbTip.X > thumbIP.X+0.01
	} else {
		states["thumb"] = thumbTip.X < thumbIP.X-0.01
	}

	pairs := []struct {
		name     string
		tip, pip int
	}{
		{"index", detector.IndexTip, detector.IndexPIP},
		{"middle", detector.MiddleTip, detector.MiddlePIP},
		{"ring", detector.RingTip, detector.RingPIP},
		{"pinky", detector.PinkyTip, detector.PinkyPIP},
	}
	for _, pair := range pairs {
		states[pair.name] = p[pair.tip].Y < p[pair.pip].Y-0.02
	}

	return states
}

func boolRatio(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
