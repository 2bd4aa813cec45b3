package detector

import "testing"

func TestJSONSubject_ShortFaceReplyIsPadded(t *testing.T) {
	// A truncated subprocess reply must still yield a full mesh so the
	// fixed landmark indices stay in range downstream.
	s := jsonSubject{
		Points: []jsonPoint{{X: 0.1, Y: 0.2}, {X: 0.3, Y: 0.4}},
		Score:  0.8,
	}

	lm := s.toFaceLandmarks()
	if len(lm.Points) != NumFaceLandmarks {
		t.Fatalf("expected %d padded points, got %d", NumFaceLandmarks, len(lm.Points))
	}
	if lm.Points[0].X != 0.1 || lm.Points[1].Y != 0.4 {
		t.Errorf("expected the reply points to be preserved, got %+v", lm.Points[:2])
	}
	if lm.Points[RightCheek] != (Point3D{}) || lm.Points[RightIris] != (Point3D{}) {
		t.Error("expected the padded tail to be zeroed")
	}
	if lm.Score != 0.8 {
		t.Errorf("expected score 0.8, got %f", lm.Score)
	}
}

func TestJSONSubject_ShortHandReplyIsTolerated(t *testing.T) {
	s := jsonSubject{
		Points:     []jsonPoint{{X: 0.5, Y: 0.5}},
		Handedness: "Left",
		Score:      0.9,
	}

	lm := s.toHandLandmarks()
	if lm.Points[Wrist].X != 0.5 {
		t.Errorf("expected the wrist point to be copied, got %+v", lm.Points[Wrist])
	}
	if lm.Points[PinkyTip] != (Point3D{}) {
		t.Error("expected missing points to stay zeroed")
	}
	if lm.Handedness != "Left" {
		t.Errorf("expected handedness Left, got %q", lm.Handedness)
	}
}
