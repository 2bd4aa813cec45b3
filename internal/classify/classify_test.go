package classify

import (
	"math"
	"testing"

	"github.com/mass60/firebridge/internal/detector"
	"github.com/mass60/firebridge/internal/feature"
)

func classifyHand(t *testing.T, c Strategy, lm detector.HandLandmarks) Result {
	t.Helper()
	obs := feature.FromHand(&lm)
	return c.Classify(obs)
}

func classifyFace(t *testing.T, c Strategy, lm detector.FaceLandmarks) Result {
	t.Helper()
	obs := feature.FromFace(&lm)
	return c.Classify(obs)
}

func TestGestureClassifier_Presets(t *testing.T) {
	c := NewGestureClassifier()

	tests := []struct {
		name    string
		hand    detector.HandLandmarks
		label   string
		conf    float64
		confTol float64
	}{
		{"open palm", detector.OpenPalmLandmarks(), LabelOpenPalm, 1.0, 1e-9},
		{"fist", detector.FistLandmarks(), LabelFist, 0.99, 0.01},
		{"peace", detector.PeaceLandmarks(), LabelPeace, 0.84, 0.01},
		{"pinch", detector.PinchLandmarks(), LabelPinch, 0.90, 0.01},
		{"thumbs up", detector.ThumbsUpLandmarks(), LabelThumbsUp, 0.81, 0.01},
		{"point", detector.PointLandmarks(), LabelPoint, 0.72, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := classifyHand(t, c, tt.hand)
			if res.Label != tt.label {
				t.Fatalf("expected label %q, got %q (conf %f)", tt.label, res.Label, res.Confidence)
			}
			if math.Abs(res.Confidence-tt.conf) > tt.confTol {
				t.Errorf("expected confidence near %f, got %f", tt.conf, res.Confidence)
			}
			if res.Confidence < 0 || res.Confidence > 1 {
				t.Errorf("confidence out of [0,1]: %f", res.Confidence)
			}
		})
	}
}

func TestGestureClassifier_PinchBeatsPoint(t *testing.T) {
	// A pinch pose also satisfies the point predicate through its extended
	// index finger; the rule order must resolve it to pinch.
	c := NewGestureClassifier()
	res := classifyHand(t, c, detector.PinchLandmarks())
	if res.Label != LabelPinch {
		t.Errorf("expected rule order to prefer pinch, got %q", res.Label)
	}
}

func TestGestureClassifier_Fallback(t *testing.T) {
	c := NewGestureClassifier()

	// Three extended fingers matches no rule: index+middle+ring is not
	// peace and not open palm.
	lm := detector.OpenPalmLandmarks()
	lm.Points[detector.PinkyTip] = detector.Point3D{X: 0.38, Y: 0.68}

	res := classifyHand(t, c, lm)
	if res.Label != LabelMixed {
		t.Fatalf("expected fallback label %q, got %q", LabelMixed, res.Label)
	}
	if res.Confidence != 0.6 {
		t.Errorf("expected fallback confidence 0.6, got %f", res.Confidence)
	}
}

func TestGestureClassifier_Idle(t *testing.T) {
	c := NewGestureClassifier()
	idle := c.Idle()

	if idle.Label != LabelIdle {
		t.Errorf("expected idle label %q, got %q", LabelIdle, idle.Label)
	}
	if idle.Confidence != 0.2 {
		t.Errorf("expected idle confidence 0.2, got %f", idle.Confidence)
	}
	if idle.Center.X != 0.5 || idle.Center.Y != 0.6 {
		t.Errorf("expected idle center (0.5, 0.6), got (%f, %f)", idle.Center.X, idle.Center.Y)
	}
}

func TestGestureClassifier_MonotoneScores(t *testing.T) {
	// A tighter pinch must never score lower than a looser one.
	c := NewGestureClassifier()

	loose := detector.PinchLandmarks()
	loose.Points[detector.ThumbTip] = detector.Point3D{X: 0.57, Y: 0.47}
	tight := detector.PinchLandmarks()

	looseRes := classifyHand(t, c, loose)
	tightRes := classifyHand(t, c, tight)
	if looseRes.Label != LabelPinch || tightRes.Label != LabelPinch {
		t.Fatalf("expected both poses to read as pinch, got %q and %q", looseRes.Label, tightRes.Label)
	}
	if tightRes.Confidence < looseRes.Confidence {
		t.Errorf("expected tighter pinch to score at least %f, got %f",
			looseRes.Confidence, tightRes.Confidence)
	}
}

func TestExpressionClassifier_Presets(t *testing.T) {
	c := NewExpressionClassifier()

	tests := []struct {
		name  string
		face  detector.FaceLandmarks
		label string
		conf  float64
	}{
		{"neutral", detector.NeutralFaceLandmarks(), LabelNeutral, 0.50},
		{"happy", detector.HappyFaceLandmarks(), LabelHappy, 0.57},
		{"surprised", detector.SurprisedFaceLandmarks(), LabelSurprised, 0.80},
		{"angry", detector.AngryFaceLandmarks(), LabelAngry, 0.60},
		{"sad", detector.SadFaceLandmarks(), LabelSad, 0.77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := classifyFace(t, c, tt.face)
			if res.Label != tt.label {
				t.Fatalf("expected label %q, got %q (conf %f)", tt.label, res.Label, res.Confidence)
			}
			if math.Abs(res.Confidence-tt.conf) > 0.01 {
				t.Errorf("expected confidence near %f, got %f", tt.conf, res.Confidence)
			}
		})
	}
}

func TestExpressionClassifier_NeutralPenalty(t *testing.T) {
	// When an expression scores strongly, the neutral baseline must be
	// suppressed below it even though neutral starts at 0.5.
	c := NewExpressionClassifier()
	res := classifyFace(t, c, detector.SurprisedFaceLandmarks())
	if res.Label == LabelNeutral {
		t.Error("expected a strong expression to beat the penalized neutral baseline")
	}
}

func TestScoreTable_TieResolvesToEarlierRule(t *testing.T) {
	rules := []ScoreRule{
		{Label: "first", Score: func(feature.Observation) float64 { return 0.7 }},
		{Label: "second", Score: func(feature.Observation) float64 { return 0.7 }},
	}
	c := NewScoreTable(rules, "neutral", 0.5, 0.6)

	res := c.Classify(feature.Observation{Ratios: map[string]float64{}})
	if res.Label != "first" {
		t.Errorf("expected tie to resolve to the earlier rule, got %q", res.Label)
	}
}

func TestScoreTable_NeutralWinsWhenNothingScores(t *testing.T) {
	rules := []ScoreRule{
		{Label: "never", Score: func(feature.Observation) float64 { return 0 }},
	}
	c := NewScoreTable(rules, "neutral", 0.5, 0.6)

	res := c.Classify(feature.Observation{Ratios: map[string]float64{}})
	if res.Label != "neutral" {
		t.Fatalf("expected neutral, got %q", res.Label)
	}
	if res.Confidence != 0.5 {
		t.Errorf("expected unpenalized neutral baseline 0.5, got %f", res.Confidence)
	}
}
