package pipeline

import (
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/mass60/firebridge/internal/classify"
	"github.com/mass60/firebridge/internal/feature"
	"github.com/mass60/firebridge/internal/overlay"
	"github.com/mass60/firebridge/internal/stream"
	"github.com/mass60/firebridge/internal/visual"
)

// run is the producer loop. It exits when the stop channel closes or the
// source reports it is closed.
func (p *Pipeline) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		frame, err := p.cfg.Source.ReadFrame()
		if err != nil {
			if errors.Is(err, stream.ErrSourceClosed) {
				return
			}
			log.Printf("Error reading frame: %v", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}

		p.processFrame(frame)
		frame.Close()
	}
}

// processFrame runs detection on one frame and emits the resulting
// records, rate-limited.
func (p *Pipeline) processFrame(frame *gocv.Mat) {
	now := time.Now()
	fps := p.fps.Update()

	results := p.classifyFrame(frame, now)

	var emitted []visual.Params
	for i, res := range results {
		key := subjectKey(p.cfg.Mode, res.Handedness, i)
		raw := p.mapResult(res, now)
		rec := p.arena.Get(key).Update(raw)

		if p.allowEmit(now) {
			p.emit(rec)
			p.record(rec)
			p.logChange(rec)
			emitted = append(emitted, rec)
		}
	}

	if p.cfg.Preview != nil {
		p.annotate(frame, emitted, fps)
	}
}

// classifyFrame detects subjects and classifies each one. When nothing is
// detected the idle result takes over, at reduced confidence while still
// inside the presence grace window.
func (p *Pipeline) classifyFrame(frame *gocv.Mat, now time.Time) []classify.Result {
	var observations []feature.Observation

	if p.cfg.Mode == ModeGesture {
		hands, err := p.cfg.Hands.DetectHands(frame)
		if err != nil {
			log.Printf("Hand detection error: %v", err)
		}
		for i := range hands {
			observations = append(observations, feature.FromHand(&hands[i]))
		}
	} else {
		faces, err := p.cfg.Faces.DetectFaces(frame)
		if err != nil {
			log.Printf("Face detection error: %v", err)
		}
		for i := range faces {
			observations = append(observations, feature.FromFace(&faces[i]))
		}
	}

	if len(observations) == 0 {
		idle := p.strategy.Idle()
		if now.Sub(p.lastPresence) < p.cfg.PresenceTimeout {
			// Still inside the grace window: vote idle softly so a
			// brief dropout cannot flip the committed label.
			idle.Confidence = 0.05
		}
		idle.Handedness = p.lastSubject
		return []classify.Result{idle}
	}

	p.lastPresence = now
	results := make([]classify.Result, 0, len(observations))
	for _, obs := range observations {
		results = append(results, p.strategy.Classify(obs))
	}
	p.lastSubject = results[0].Handedness
	return results
}

// mapResult turns one classification into a raw parameter record.
func (p *Pipeline) mapResult(res classify.Result, now time.Time) visual.Params {
	rec := p.mapper.Map(res.Label, res.Center, res.Confidence)
	rec.Spread = res.Ratios[feature.RatioTipSpread]
	rec.PinchStrength = res.Ratios[feature.RatioPinchStrength]
	rec.Handedness = res.Handedness
	rec.Timestamp = float64(now.UnixNano()) / 1e9

	// In gesture mode the hand geometry overrides the table twist, so the
	// rendered swirl follows the fingers rather than a canned value.
	if p.cfg.Mode == ModeGesture {
		if twist, ok := res.Ratios[feature.RatioTwist]; ok {
			rec.Twist = twist
		}
	}

	return rec
}

// allowEmit applies the output rate limit.
func (p *Pipeline) allowEmit(now time.Time) bool {
	interval := time.Duration(float64(time.Second) / p.cfg.Rate)
	if now.Sub(p.lastEmit) < interval {
		return false
	}
	p.lastEmit = now
	return true
}

// record persists the emitted record when a recorder is attached.
func (p *Pipeline) record(rec visual.Params) {
	if p.cfg.Recorder == nil {
		return
	}
	p.cfg.Recorder.Record(rec)
}

// logChange logs once each time the committed label changes.
func (p *Pipeline) logChange(rec visual.Params) {
	if rec.Gesture == p.lastLogged {
		return
	}
	p.lastLogged = rec.Gesture
	log.Printf("Gesture: %s (conf %.2f) -> hue %.0f, launch %.2f, density %.2f, style %s",
		rec.Gesture, rec.Confidence, rec.Hue, rec.LaunchPower, rec.SparkDensity, rec.Style)
}

// annotate draws the HUD on the frame and hands the JPEG to the preview
// buffer.
func (p *Pipeline) annotate(frame *gocv.Mat, records []visual.Params, fps float64) {
	lines := []string{fmt.Sprintf("FPS: %.1f", fps)}
	for _, rec := range records {
		lines = append(lines,
			fmt.Sprintf("%s (%.2f) %s", rec.Gesture, rec.Confidence, rec.Handedness),
			fmt.Sprintf("hue %.0f  launch %.2f  density %.2f  twist %.2f",
				rec.Hue, rec.LaunchPower, rec.SparkDensity, rec.Twist),
		)
	}

	overlay.DrawHUD(frame, lines, image.Pt(12, 28), overlay.AccentColor, 0.6)

	// Expression mode boxes the tracked face around its smoothed center.
	if p.cfg.Mode == ModeExpression {
		for _, rec := range records {
			cx := int(rec.Center.X * float64(frame.Cols()))
			cy := int(rec.Center.Y * float64(frame.Rows()))
			half := frame.Cols() / 8
			overlay.DrawBBox(frame, image.Rect(cx-half, cy-half, cx+half, cy+half),
				rec.Gesture, overlay.AccentColor)
		}
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		log.Printf("Error encoding preview frame: %v", err)
		return
	}
	p.cfg.Preview.Update(buf.GetBytes())
	buf.Close()
}
