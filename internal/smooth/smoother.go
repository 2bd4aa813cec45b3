// Package smooth stabilizes the per-frame classification stream. A
// majority-vote window debounces label flips and an exponential moving
// average removes jitter from every continuous parameter.
package smooth

import (
	"github.com/bmharper/ringbuffer"
	"github.com/mass60/firebridge/internal/visual"
)

// Default tuning. A window of 8 with a switch count of 4 means a new label
// needs half the window behind it before the committed label moves.
const (
	DefaultWindow         = 8
	DefaultMinSwitchCount = 4
	DefaultMinConfidence  = 0.65
	DefaultAlpha          = 0.25
)

// Config holds the smoothing parameters for one subject.
type Config struct {
	// Window is the capacity of the label vote history.
	Window int

	// MinSwitchCount is how many votes a challenger label needs inside
	// the window before the committed label may switch to it.
	MinSwitchCount int

	// MinConfidence gates both vote admission and label switching. The
	// IdleLabel is exempt from the gate.
	MinConfidence float64

	// Alpha is the EMA coefficient: smoothed = smoothed*(1-a) + new*a.
	Alpha float64

	// IdleLabel bypasses the confidence gate entirely, so absence of a
	// subject is tracked like any other vote and can take over the
	// committed label even though idle observations carry low confidence.
	IdleLabel string

	// Style resolves the style tag for the committed label so the output
	// record stays internally consistent when a flip is rejected. When
	// nil the incoming style is passed through.
	Style func(label string) string
}

// DefaultConfig returns the standard smoothing parameters.
func DefaultConfig(idleLabel string) Config {
	return Config{
		Window:         DefaultWindow,
		MinSwitchCount: DefaultMinSwitchCount,
		MinConfidence:  DefaultMinConfidence,
		Alpha:          DefaultAlpha,
		IdleLabel:      idleLabel,
	}
}

// Smoother holds the temporal state for exactly one tracked subject.
//
// Ownership precondition: a Smoother belongs to the single goroutine that
// runs its subject's detection loop. It is not safe for concurrent use and
// takes no locks; use one instance per subject (see Arena).
type Smoother struct {
	cfg     Config
	history ringbuffer.RingP[string]
	current string
	haveCur bool
	state   visual.Params
	seeded  bool
}

// New creates a Smoother with the given configuration. Zero or negative
// fields fall back to the defaults.
func New(cfg Config) *Smoother {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.MinSwitchCount <= 0 {
		cfg.MinSwitchCount = DefaultMinSwitchCount
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = DefaultMinConfidence
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = DefaultAlpha
	}

	// RingP needs a power-of-2 size and stores one element fewer than it,
	// so allocate the next power of two above Window and cap the logical
	// window length in Update.
	ringSize := 2
	for ringSize < cfg.Window+1 {
		ringSize *= 2
	}

	return &Smoother{
		cfg:     cfg,
		history: ringbuffer.NewRingP[string](ringSize),
	}
}

// CurrentLabel returns the committed label, or "" before the first update.
func (s *Smoother) CurrentLabel() string {
	return s.current
}

// Update ingests one raw observation and returns the stabilized record.
//
// The committed label changes at most once per call, and only when the
// challenger has majority support in the vote window AND the incoming
// observation itself is confident (or is the idle label, which is exempt
// from the confidence gate). Every numeric field is smoothed
// independently by EMA; the first call seeds the state directly.
func (s *Smoother) Update(in visual.Params) visual.Params {
	// The idle label bypasses the confidence gate at both admission and
	// switch time: absence carries low confidence by construction, and the
	// committed label must still be able to decay to idle.
	confident := in.Confidence >= s.cfg.MinConfidence || in.Gesture == s.cfg.IdleLabel

	// Step 1: vote admission.
	if confident {
		s.history.Add(in.Gesture)
		for s.history.Len() > s.cfg.Window {
			s.history.Next()
		}
	}

	// Step 2: label decision.
	switch {
	case !s.haveCur:
		s.current = in.Gesture
		s.haveCur = true
	case in.Gesture != s.current:
		candidate, count := s.majority()
		if candidate != s.current &&
			count >= s.cfg.MinSwitchCount &&
			confident {
			s.current = candidate
		}
	}

	// Step 3: parameter smoothing.
	if !s.seeded {
		s.state = in
		s.seeded = true
	} else {
		a := s.cfg.Alpha
		s.state.Confidence = ema(s.state.Confidence, in.Confidence, a)
		s.state.Hue = ema(s.state.Hue, in.Hue, a)
		s.state.LaunchPower = ema(s.state.LaunchPower, in.LaunchPower, a)
		s.state.SparkDensity = ema(s.state.SparkDensity, in.SparkDensity, a)
		s.state.Twist = ema(s.state.Twist, in.Twist, a)
		s.state.Center.X = ema(s.state.Center.X, in.Center.X, a)
		s.state.Center.Y = ema(s.state.Center.Y, in.Center.Y, a)
		s.state.Spread = ema(s.state.Spread, in.Spread, a)
		s.state.PinchStrength = ema(s.state.PinchStrength, in.PinchStrength, a)
	}

	out := s.state
	out.Type = visual.TypeGesture
	out.Gesture = s.current
	out.Handedness = in.Handedness
	out.Timestamp = in.Timestamp
	if s.cfg.Style != nil {
		out.Style = s.cfg.Style(s.current)
	} else {
		out.Style = in.Style
	}
	out.Confidence = clamp(out.Confidence, 0, 1)

	return out
}

// majority tallies the vote window and returns the most frequent label and
// its count. Ties prefer the currently committed label; among other tied
// labels the lexicographically smallest wins, so the outcome never depends
// on map iteration order.
func (s *Smoother) majority() (string, int) {
	counts := make(map[string]int)
	for i := 0; i < s.history.Len(); i++ {
		counts[s.history.Peek(i)]++
	}

	best := ""
	bestCount := 0
	for label, count := range counts {
		switch {
		case count > bestCount:
			best = label
			bestCount = count
		case count == bestCount:
			if label == s.current || (best != s.current && label < best) {
				best = label
			}
		}
	}

	return best, bestCount
}

func ema(prev, next, alpha float64) float64 {
	return prev*(1-alpha) + next*alpha
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
