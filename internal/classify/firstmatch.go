package classify

import "github.com/mass60/firebridge/internal/feature"

// Rule is one entry in an ordered first-match rule list. Match decides
// whether the rule applies; Score converts how strongly the observation
// clears the rule's thresholds into a confidence. Scores must grow with
// the margin and are clamped to [0,1] by the classifier.
type Rule struct {
	Name  string
	Match func(o feature.Observation) bool
	Score func(o feature.Observation) float64
}

// FirstMatch evaluates rules in priority order and returns the first rule
// whose predicate holds. Order matters: specific poses (pinch, peace) are
// listed before the general ones they would otherwise shadow.
type FirstMatch struct {
	rules         []Rule
	fallbackLabel string
	fallbackScore float64
	idleLabel     string
}

// NewFirstMatch creates a first-match classifier over the given ordered
// rules with a catch-all fallback.
func NewFirstMatch(rules []Rule, fallbackLabel string, fallbackScore float64, idleLabel string) *FirstMatch {
	return &FirstMatch{
		rules:         rules,
		fallbackLabel: fallbackLabel,
		fallbackScore: fallbackScore,
		idleLabel:     idleLabel,
	}
}

// Classify returns the first matching rule's label, or the fallback.
func (c *FirstMatch) Classify(obs feature.Observation) Result {
	label := c.fallbackLabel
	confidence := c.fallbackScore

	for _, rule := range c.rules {
		if rule.Match(obs) {
			label = rule.Name
			confidence = clamp(rule.Score(obs), 0, 1)
			break
		}
	}

	return Result{
		Label:      label,
		Confidence: clamp(confidence, 0, 1),
		Center:     obs.Center,
		Handedness: obs.Handedness,
		Ratios:     obs.Ratios,
	}
}

// Idle returns the no-hand sentinel result.
func (c *FirstMatch) Idle() Result {
	return Result{
		Label:      c.idleLabel,
		Confidence: 0.2,
		Center:     feature.Point{X: 0.5, Y: 0.6},
		Handedness: "unknown",
		Ratios: map[string]float64{
			feature.RatioTipSpread:     0.1,
			feature.RatioPinchStrength: 0.0,
			feature.RatioTwist:         0.0,
		},
	}
}

// NewGestureClassifier builds the hand-gesture rule list. The ordering is
// part of the contract: pinch must beat point, peace must beat point, and
// everything must beat the mixed fallback.
func NewGestureClassifier() *FirstMatch {
	rules := []Rule{
		{
			Name: LabelPinch,
			Match: func(o feature.Observation) bool {
				return o.Ratio(feature.RatioIndex) > 0 &&
					o.Ratio(feature.RatioThumb) > 0 &&
					o.Ratio(feature.RatioPinchStrength) > 0.6
			},
			Score: func(o feature.Observation) float64 {
				return 0.55 + 0.4*o.Ratio(feature.RatioPinchStrength)
			},
		},
		{
			Name: LabelOpenPalm,
			Match: func(o feature.Observation) bool {
				return o.Ratio(feature.RatioFingerCount) >= 4 &&
					o.Ratio(feature.RatioPinchStrength) < 0.5
			},
			Score: func(o feature.Observation) float64 {
				return 0.7 + 0.4*o.Ratio(feature.RatioTipSpread)
			},
		},
		{
			Name: LabelFist,
			Match: func(o feature.Observation) bool {
				return o.Ratio(feature.RatioFingerCount) == 0 &&
					o.Ratio(feature.RatioPinchStrength) < 0.3
			},
			Score: func(o feature.Observation) float64 {
				return 0.85 + 0.5*(0.3-o.Ratio(feature.RatioPinchStrength))
			},
		},
		{
			Name: LabelPeace,
			Match: func(o feature.Observation) bool {
				return o.Ratio(feature.RatioIndex) > 0 &&
					o.Ratio(feature.RatioMiddle) > 0 &&
					o.Ratio(feature.RatioRing) == 0 &&
					o.Ratio(feature.RatioPinky) == 0
			},
			Score: func(o feature.Observation) float64 {
				return 0.78 + 0.1*o.Ratio(feature.RatioTipSpread)
			},
		},
		{
			Name: LabelThumbsUp,
			Match: func(o feature.Observation) bool {
				return o.Ratio(feature.RatioThumbRaise) > 0
			},
			Score: func(o feature.Observation) float64 {
				return 0.7 + 0.5*o.Ratio(feature.RatioThumbRaise)
			},
		},
		{
			Name: LabelPoint,
			Match: func(o feature.Observation) bool {
				return o.Ratio(feature.RatioFingerCount) == 1 &&
					o.Ratio(feature.RatioIndex) > 0
			},
			Score: func(o feature.Observation) float64 {
				return 0.68 + 0.1*o.Ratio(feature.RatioTipSpread)
			},
		},
	}

	return NewFirstMatch(rules, LabelMixed, 0.6, LabelIdle)
}
