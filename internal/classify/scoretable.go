package classify

import (
	"math"

	"github.com/mass60/firebridge/internal/feature"
)

// ScoreRule computes a raw score for one label. A zero score means the
// label does not apply at all.
type ScoreRule struct {
	Label string
	Score func(o feature.Observation) float64
}

// ScoreTable scores every label independently, penalizes the neutral
// baseline in proportion to the strongest competitor, and picks the
// argmax. Ties resolve to the earlier entry in the table, so the ordering
// of rules is deterministic and part of the contract.
type ScoreTable struct {
	rules        []ScoreRule
	neutralLabel string
	neutralBase  float64
	penalty      float64
}

// NewScoreTable creates a score-all classifier. neutralBase is the
// baseline score of the neutral label before the penalty; penalty scales
// how strongly the best competitor suppresses it.
func NewScoreTable(rules []ScoreRule, neutralLabel string, neutralBase, penalty float64) *ScoreTable {
	return &ScoreTable{
		rules:        rules,
		neutralLabel: neutralLabel,
		neutralBase:  neutralBase,
		penalty:      penalty,
	}
}

// Classify scores every label and returns the argmax.
func (c *ScoreTable) Classify(obs feature.Observation) Result {
	best := c.neutralLabel
	bestScore := 0.0
	maxOther := 0.0

	for _, rule := range c.rules {
		score := clamp(rule.Score(obs), 0, 1)
		if score > maxOther {
			maxOther = score
		}
		if score > bestScore {
			best = rule.Label
			bestScore = score
		}
	}

	neutral := math.Max(0, c.neutralBase-c.penalty*maxOther)
	if neutral > bestScore {
		best = c.neutralLabel
		bestScore = neutral
	}

	return Result{
		Label:      best,
		Confidence: clamp(bestScore, 0, 1),
		Center:     obs.Center,
		Handedness: obs.Handedness,
		Ratios:     obs.Ratios,
	}
}

// Idle returns the no-face sentinel result.
func (c *ScoreTable) Idle() Result {
	return Result{
		Label:      c.neutralLabel,
		Confidence: 0.2,
		Center:     feature.Point{X: 0.5, Y: 0.6},
		Handedness: "unknown",
		Ratios:     map[string]float64{},
	}
}

// NewExpressionClassifier builds the facial-expression score table. Each
// score grows with how far the mouth, eye, and brow ratios clear their
// thresholds; a label whose gate fails scores zero.
func NewExpressionClassifier() *ScoreTable {
	rules := []ScoreRule{
		{
			Label: LabelSurprised,
			Score: func(o feature.Observation) float64 {
				mh := o.Ratio(feature.RatioMouthHeight)
				eye := o.Ratio(feature.RatioEyeOpen)
				if mh <= 0.22 || eye <= 0.11 {
					return 0
				}
				return (mh-0.2)*8 + (eye-0.1)*8
			},
		},
		{
			Label: LabelHappy,
			Score: func(o feature.Observation) float64 {
				mw := o.Ratio(feature.RatioMouthWidth)
				mh := o.Ratio(feature.RatioMouthHeight)
				angle := o.Ratio(feature.RatioMouthAngle)
				if mw <= 0.42 || mh <= 0.10 || angle <= -0.05 {
					return 0
				}
				return (mw-0.4)*4 + math.Max(0, angle)*2 + math.Max(0, mh-0.1)*4
			},
		},
		{
			Label: LabelAngry,
			Score: func(o feature.Observation) float64 {
				brow := o.Ratio(feature.RatioBrowGap)
				eye := o.Ratio(feature.RatioEyeOpen)
				if brow >= 0.08 || eye >= 0.09 {
					return 0
				}
				return (0.1-brow)*10 + (0.1-eye)*8
			},
		},
		{
			Label: LabelSad,
			Score: func(o feature.Observation) float64 {
				angle := o.Ratio(feature.RatioMouthAngle)
				mh := o.Ratio(feature.RatioMouthHeight)
				if angle >= -0.08 || mh >= 0.12 {
					return 0
				}
				return (-angle-0.05)*4 + math.Max(0, 0.12-mh)*4
			},
		},
	}

	return NewScoreTable(rules, LabelNeutral, 0.5, 0.6)
}
