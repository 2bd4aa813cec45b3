package pipeline

import (
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/mass60/firebridge/internal/detector"
	"github.com/mass60/firebridge/internal/store"
	"github.com/mass60/firebridge/internal/stream"
	"github.com/mass60/firebridge/internal/visual"
)

func testFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		frames[i] = &mat
		t.Cleanup(func() { mat.Close() })
	}
	return frames
}

func TestPipeline_EmitDropsOldest(t *testing.T) {
	p := &Pipeline{out: make(chan visual.Params, 2)}

	p.emit(visual.Params{Gesture: "a"})
	p.emit(visual.Params{Gesture: "b"})
	p.emit(visual.Params{Gesture: "c"})

	first := <-p.out
	second := <-p.out
	if first.Gesture != "b" || second.Gesture != "c" {
		t.Errorf("expected the oldest record to be dropped, got %q then %q",
			first.Gesture, second.Gesture)
	}
	select {
	case rec := <-p.out:
		t.Errorf("expected an empty queue, got %q", rec.Gesture)
	default:
	}
}

func TestSubjectKey(t *testing.T) {
	if got := subjectKey(ModeGesture, "Right", 0); got != "right" {
		t.Errorf("expected %q, got %q", "right", got)
	}
	if got := subjectKey(ModeGesture, "", 0); got != "unknown" {
		t.Errorf("expected %q, got %q", "unknown", got)
	}
	if got := subjectKey(ModeExpression, "", 1); got != "face1" {
		t.Errorf("expected %q, got %q", "face1", got)
	}
}

func TestFrameBuffer_CopiesAndSequences(t *testing.T) {
	buf := NewFrameBuffer()

	if jpeg, seq := buf.Latest(); jpeg != nil || seq != 0 {
		t.Fatal("expected an empty buffer before the first update")
	}

	src := []byte{1, 2, 3}
	buf.Update(src)
	src[0] = 99

	jpeg, seq := buf.Latest()
	if seq != 1 {
		t.Errorf("expected sequence 1, got %d", seq)
	}
	if jpeg[0] != 1 {
		t.Error("expected the buffer to copy the frame data")
	}

	buf.Update([]byte{4})
	if _, seq := buf.Latest(); seq != 2 {
		t.Errorf("expected sequence 2, got %d", seq)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Mode: ModeGesture}); err == nil {
		t.Error("expected an error when the hand detector is missing")
	}
	if _, err := New(Config{Mode: "dance"}); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestPipeline_GestureFlow(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

	p, err := New(Config{
		Mode:   ModeGesture,
		Source: stream.NewMockSource(testFrames(t, 3), true),
		Hands:  det,
		Rate:   200,
	})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	if err := p.Start(); err != nil {
		t.Fatalf("failed to start pipeline: %v", err)
	}

	var rec visual.Params
	select {
	case rec = <-p.Records():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a record")
	}

	if rec.Type != visual.TypeGesture {
		t.Fatalf("expected a gesture record, got type %q", rec.Type)
	}
	if rec.Gesture != "open_palm" {
		t.Errorf("expected open_palm, got %q", rec.Gesture)
	}
	if rec.Handedness != "right" {
		t.Errorf("expected handedness right, got %q", rec.Handedness)
	}
	if rec.Style != "nebula" {
		t.Errorf("expected style nebula, got %q", rec.Style)
	}
	if rec.Timestamp == 0 {
		t.Error("expected a populated timestamp")
	}

	p.Stop()

	// The shutdown sentinel must survive the drop-oldest queue.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case rec = <-p.Records():
			if rec.Type == visual.TypeShutdown {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for the shutdown sentinel")
		}
	}
}

func TestPipeline_IdleWhenNothingDetected(t *testing.T) {
	det := detector.NewMockDetector() // no hands configured

	p, err := New(Config{
		Mode:            ModeGesture,
		Source:          stream.NewMockSource(testFrames(t, 2), true),
		Hands:           det,
		Rate:            200,
		PresenceTimeout: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	if err := p.Start(); err != nil {
		t.Fatalf("failed to start pipeline: %v", err)
	}
	defer p.Stop()

	select {
	case rec := <-p.Records():
		if rec.Gesture != "idle" {
			t.Errorf("expected idle record with no subject present, got %q", rec.Gesture)
		}
		if rec.Style != "embers" {
			t.Errorf("expected idle style embers, got %q", rec.Style)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the idle record")
	}
}

func TestPipeline_SubjectLeavingDecaysToIdle(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

	p, err := New(Config{
		Mode:            ModeGesture,
		Source:          stream.NewMockSource(testFrames(t, 2), true),
		Hands:           det,
		Rate:            500,
		PresenceTimeout: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	if err := p.Start(); err != nil {
		t.Fatalf("failed to start pipeline: %v", err)
	}
	defer p.Stop()

	// Wait for the gesture to commit.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case rec := <-p.Records():
			if rec.Gesture == "open_palm" {
				goto gone
			}
		case <-deadline:
			t.Fatal("timed out waiting for the committed gesture")
		}
	}

gone:
	// The subject leaves the frame. Once the presence timeout expires the
	// low-confidence idle observations must still take over the committed
	// label; the bridge may never broadcast the stale gesture forever.
	det.SetHands(nil)

	deadline = time.After(2 * time.Second)
	for {
		select {
		case rec := <-p.Records():
			if rec.Gesture == "idle" {
				if rec.Style != "embers" {
					t.Errorf("expected idle style embers, got %q", rec.Style)
				}
				return
			}
		case <-deadline:
			t.Fatal("committed label never decayed to idle after the subject left")
		}
	}
}

func TestPipeline_ExpressionPreviewFrames(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetFaces([]detector.FaceLandmarks{detector.HappyFaceLandmarks()})

	preview := NewFrameBuffer()
	p, err := New(Config{
		Mode:    ModeExpression,
		Source:  stream.NewMockSource(testFrames(t, 2), true),
		Faces:   det,
		Rate:    200,
		Preview: preview,
	})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	if err := p.Start(); err != nil {
		t.Fatalf("failed to start pipeline: %v", err)
	}
	defer p.Stop()

	select {
	case rec := <-p.Records():
		if rec.Gesture != "happy" {
			t.Errorf("expected happy record, got %q", rec.Gesture)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an expression record")
	}

	// The annotated preview must carry encoded frames.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if jpeg, seq := preview.Latest(); jpeg != nil && seq > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for a preview frame")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRecorder_PersistsRecords(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "rec.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer st.Close()

	recorder, err := NewRecorder(st, ModeGesture, "webcam:0")
	if err != nil {
		t.Fatalf("failed to create recorder: %v", err)
	}

	recorder.Record(visual.Params{Type: visual.TypeGesture, Gesture: "fist"})
	recorder.Record(visual.ShutdownRecord()) // must be skipped

	count, err := st.Events().CountBySession(recorder.SessionID())
	if err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 persisted event, got %d", count)
	}

	if err := recorder.Close(); err != nil {
		t.Fatalf("failed to close recorder: %v", err)
	}
	session, err := st.Sessions().GetByID(recorder.SessionID())
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if !session.EndedAt.Valid {
		t.Error("expected the session to be marked finished")
	}
}
