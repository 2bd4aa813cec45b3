// Package pipeline runs the per-frame detection loop: frames in, stable
// visual parameter records out.
//
// The loop is single-threaded by design. Each smoother is owned by this
// loop's goroutine and must never be touched from outside; the only
// concurrency is the bounded record channel between this producer and the
// publish sink.
package pipeline

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mass60/firebridge/internal/classify"
	"github.com/mass60/firebridge/internal/detector"
	"github.com/mass60/firebridge/internal/smooth"
	"github.com/mass60/firebridge/internal/stream"
	"github.com/mass60/firebridge/internal/visual"
)

// Mode selects which landmark family drives the pipeline.
type Mode string

const (
	// ModeGesture classifies hand gestures.
	ModeGesture Mode = "gesture"
	// ModeExpression classifies facial expressions.
	ModeExpression Mode = "expression"
)

// Defaults for the emission stage.
const (
	DefaultGestureRate    = 20.0
	DefaultExpressionRate = 15.0
	DefaultQueueSize      = 4
	DefaultPresenceGrace  = 750 * time.Millisecond
)

// Config holds the pipeline wiring.
type Config struct {
	Mode   Mode
	Source stream.Source

	// Hands is required in gesture mode, Faces in expression mode.
	Hands detector.HandDetector
	Faces detector.FaceDetector

	// Rate is the maximum emitted records per second.
	Rate float64

	// PresenceTimeout is how long the subject may be absent before the
	// idle record replaces the last real observation.
	PresenceTimeout time.Duration

	// QueueSize bounds the outgoing record channel. When full, the
	// oldest pending record is dropped so the producer never blocks.
	QueueSize int

	// Smoothing configures every per-subject smoother.
	Smoothing smooth.Config

	// Recorder, when set, persists each emitted record.
	Recorder *Recorder

	// Preview, when set, receives annotated JPEG frames for the preview
	// endpoint.
	Preview *FrameBuffer
}

// Pipeline orchestrates one detection run.
type Pipeline struct {
	cfg      Config
	strategy classify.Strategy
	mapper   *visual.Mapper
	arena    *smooth.Arena
	out      chan visual.Params
	fps      *stream.FrameRateTracker

	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}

	lastPresence time.Time
	lastEmit     time.Time
	lastSubject  string
	lastLogged   string
}

// New creates a pipeline for the given configuration.
func New(cfg Config) (*Pipeline, error) {
	switch cfg.Mode {
	case ModeGesture:
		if cfg.Hands == nil {
			return nil, fmt.Errorf("gesture mode requires a hand detector")
		}
		if cfg.Rate <= 0 {
			cfg.Rate = DefaultGestureRate
		}
	case ModeExpression:
		if cfg.Faces == nil {
			return nil, fmt.Errorf("expression mode requires a face detector")
		}
		if cfg.Rate <= 0 {
			cfg.Rate = DefaultExpressionRate
		}
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	if cfg.Source == nil {
		return nil, fmt.Errorf("pipeline requires a frame source")
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.PresenceTimeout <= 0 {
		cfg.PresenceTimeout = DefaultPresenceGrace
	}

	var strategy classify.Strategy
	var mapper *visual.Mapper
	if cfg.Mode == ModeGesture {
		strategy = classify.NewGestureClassifier()
		mapper = visual.NewGestureMapper()
	} else {
		strategy = classify.NewExpressionClassifier()
		mapper = visual.NewExpressionMapper()
	}

	smoothing := cfg.Smoothing
	if smoothing.IdleLabel == "" {
		smoothing = smooth.DefaultConfig(strategy.Idle().Label)
	}
	if smoothing.Style == nil {
		smoothing.Style = mapper.StyleFor
	}

	return &Pipeline{
		cfg:      cfg,
		strategy: strategy,
		mapper:   mapper,
		arena:    smooth.NewArena(smoothing),
		out:      make(chan visual.Params, cfg.QueueSize),
		fps:      stream.NewFrameRateTracker(30),
	}, nil
}

// Records returns the channel of emitted parameter records. The channel
// carries a shutdown sentinel after Stop.
func (p *Pipeline) Records() <-chan visual.Params {
	return p.out
}

// Start opens the source and begins the detection loop.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopCh != nil {
		return nil
	}

	if err := p.cfg.Source.Open(); err != nil {
		return fmt.Errorf("open source: %w", err)
	}

	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.run(p.stopCh, p.doneCh)

	log.Printf("Detection pipeline started (%s mode)", p.cfg.Mode)
	return nil
}

// Stop halts the loop, closes the source, and emits the shutdown sentinel.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	stopCh, doneCh := p.stopCh, p.doneCh
	p.stopCh = nil
	p.doneCh = nil
	p.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	if err := p.cfg.Source.Close(); err != nil {
		log.Printf("Error closing source: %v", err)
	}
	<-doneCh

	p.emit(visual.ShutdownRecord())
	log.Printf("Detection pipeline stopped")
}

// emit enqueues a record without ever blocking the producer. When the
// queue is full the oldest pending record is dropped first.
func (p *Pipeline) emit(rec visual.Params) {
	for {
		select {
		case p.out <- rec:
			return
		default:
			select {
			case <-p.out:
			default:
			}
		}
	}
}

// subjectKey derives the smoother arena key for one detected subject.
func subjectKey(mode Mode, handedness string, index int) string {
	if mode == ModeGesture {
		h := strings.ToLower(handedness)
		if h == "" {
			h = "unknown"
		}
		return h
	}
	return "face" + strconv.Itoa(index)
}
