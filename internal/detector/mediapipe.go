package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Detection modes understood by the Python landmark service.
const (
	ModeHands = "hands"
	ModeFace  = "face"
)

// MediaPipeDetector implements HandDetector and FaceDetector using a Python
// MediaPipe subprocess. Frames are sent as length-prefixed JPEG bytes and
// landmarks come back as one JSON object per line.
type MediaPipeDetector struct {
	config    Config
	mode      string
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector for the given mode.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config, mode string) (*MediaPipeDetector, error) {
	if mode != ModeHands && mode != ModeFace {
		return nil, fmt.Errorf("unknown detection mode %q", mode)
	}

	scriptPath := findLandmarkScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("landmark_service.py not found")
	}

	return &MediaPipeDetector{
		config: config,
		mode:   mode,
	}, nil
}

// DetectHands analyzes a frame and returns detected hand landmarks.
func (d *MediaPipeDetector) DetectHands(frame *gocv.Mat) ([]HandLandmarks, error) {
	if d.mode != ModeHands {
		return nil, fmt.Errorf("detector running in %q mode", d.mode)
	}

	var response struct {
		Hands []jsonSubject `json:"hands"`
	}
	if err := d.process(frame, &response); err != nil {
		return nil, err
	}

	result := make([]HandLandmarks, len(response.Hands))
	for i, h := range response.Hands {
		result[i] = h.toHandLandmarks()
	}
	return result, nil
}

// DetectFaces analyzes a frame and returns detected face mesh landmarks.
func (d *MediaPipeDetector) DetectFaces(frame *gocv.Mat) ([]FaceLandmarks, error) {
	if d.mode != ModeFace {
		return nil, fmt.Errorf("detector running in %q mode", d.mode)
	}

	var response struct {
		Faces []jsonSubject `json:"faces"`
	}
	if err := d.process(frame, &response); err != nil {
		return nil, err
	}

	result := make([]FaceLandmarks, len(response.Faces))
	for i, f := range response.Faces {
		result[i] = f.toFaceLandmarks()
	}
	return result, nil
}

// process sends one frame to the Python service and decodes the JSON reply.
func (d *MediaPipeDetector) process(frame *gocv.Mat, response any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal([]byte(line), response); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	d.lastUsed = time.Now()
	d.resetIdleTimer()

	return nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := findLandmarkScript()
	if scriptPath == "" {
		return fmt.Errorf("landmark_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, scriptPath,
		"--mode", d.mode,
		"--max-subjects", fmt.Sprintf("%d", d.config.MaxSubjects),
		"--min-confidence", fmt.Sprintf("%.2f", d.config.MinConfidence),
		"--min-tracking-confidence", fmt.Sprintf("%.2f", d.config.MinTrackingConf),
	)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start landmark service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.lastUsed = time.Now()

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(30*time.Second, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func findLandmarkScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/landmark_service.py",
		"../scripts/landmark_service.py",
		filepath.Join(execDir, "scripts/landmark_service.py"),
		filepath.Join(os.Getenv("HOME"), ".firebridge/scripts/landmark_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".firebridge/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonSubject represents one detected hand or face from the Python service.
type jsonSubject struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness,omitempty"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (s jsonSubject) toHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: s.Handedness,
		Score:      s.Score,
	}

	for i := 0; i < NumHandLandmarks && i < len(s.Points); i++ {
		lm.Points[i] = Point3D{X: s.Points[i].X, Y: s.Points[i].Y, Z: s.Points[i].Z}
	}

	return lm
}

func (s jsonSubject) toFaceLandmarks() FaceLandmarks {
	// Always allocate the full mesh: the feature extractor indexes fixed
	// landmark positions, so a truncated reply pads out with zeros rather
	// than shrinking the slice.
	size := NumFaceLandmarks
	if len(s.Points) > size {
		size = len(s.Points)
	}

	lm := FaceLandmarks{
		Points: make([]Point3D, size),
		Score:  s.Score,
	}

	for i := range s.Points {
		lm.Points[i] = Point3D{X: s.Points[i].X, Y: s.Points[i].Y, Z: s.Points[i].Z}
	}

	return lm
}
