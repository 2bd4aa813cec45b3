package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of HandDetector and FaceDetector.
// It allows tests to control the detection results, including swapping
// them while a pipeline is running.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	faces []FaceLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by DetectHands.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetFaces sets the faces that will be returned by DetectFaces.
func (m *MockDetector) SetFaces(faces []FaceLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faces = faces
}

// SetError sets the error that will be returned by detection calls.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// DetectHands returns the pre-configured hands or error.
func (m *MockDetector) DetectHands(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// DetectFaces returns the pre-configured faces or error.
func (m *MockDetector) DetectFaces(frame *gocv.Mat) ([]FaceLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.faces, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm.
// All four fingers are extended; the thumb is out to the side.
func OpenPalmLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	lm.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	lm.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	lm.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	lm.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55}
	lm.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45}
	lm.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28}

	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68}
	lm.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55}
	lm.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45}
	lm.Points[RingTip] = Point3D{X: 0.42, Y: 0.35}

	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70}
	lm.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60}
	lm.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50}
	lm.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42}

	return lm
}

// FistLandmarks returns a preset HandLandmarks representing a closed fist.
// All fingers are curled and the thumb rests alongside them, away from the
// index tip so the pinch reading stays low.
func FistLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.85}

	lm.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.80}
	lm.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.76}
	lm.Points[ThumbIP] = Point3D{X: 0.61, Y: 0.76}
	lm.Points[ThumbTip] = Point3D{X: 0.60, Y: 0.75}

	lm.Points[IndexMCP] = Point3D{X: 0.56, Y: 0.64}
	lm.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.60, Z: -0.04}
	lm.Points[IndexDIP] = Point3D{X: 0.53, Y: 0.62, Z: -0.05}
	lm.Points[IndexTip] = Point3D{X: 0.51, Y: 0.66, Z: -0.03}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.62}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.58, Z: -0.04}
	lm.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.60, Z: -0.05}
	lm.Points[MiddleTip] = Point3D{X: 0.46, Y: 0.65, Z: -0.03}

	lm.Points[RingMCP] = Point3D{X: 0.46, Y: 0.64}
	lm.Points[RingPIP] = Point3D{X: 0.46, Y: 0.60, Z: -0.04}
	lm.Points[RingDIP] = Point3D{X: 0.43, Y: 0.62, Z: -0.05}
	lm.Points[RingTip] = Point3D{X: 0.43, Y: 0.66, Z: -0.03}

	lm.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.66}
	lm.Points[PinkyPIP] = Point3D{X: 0.42, Y: 0.63, Z: -0.04}
	lm.Points[PinkyDIP] = Point3D{X: 0.40, Y: 0.65, Z: -0.05}
	lm.Points[PinkyTip] = Point3D{X: 0.39, Y: 0.68, Z: -0.03}

	return lm
}

// PeaceLandmarks returns a preset HandLandmarks representing a peace sign.
// Index and middle fingers are extended; ring and pinky are curled.
func PeaceLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.82}

	lm.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.77}
	lm.Points[ThumbMCP] = Point3D{X: 0.59, Y: 0.73}
	lm.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.70}
	lm.Points[ThumbTip] = Point3D{X: 0.60, Y: 0.67}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.64}
	lm.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.52}
	lm.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.44}
	lm.Points[IndexTip] = Point3D{X: 0.59, Y: 0.36}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.62}
	lm.Points[MiddlePIP] = Point3D{X: 0.49, Y: 0.50}
	lm.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.41}
	lm.Points[MiddleTip] = Point3D{X: 0.48, Y: 0.33}

	lm.Points[RingMCP] = Point3D{X: 0.46, Y: 0.64}
	lm.Points[RingPIP] = Point3D{X: 0.46, Y: 0.60, Z: -0.04}
	lm.Points[RingDIP] = Point3D{X: 0.44, Y: 0.63, Z: -0.05}
	lm.Points[RingTip] = Point3D{X: 0.43, Y: 0.67, Z: -0.03}

	lm.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.66}
	lm.Points[PinkyPIP] = Point3D{X: 0.42, Y: 0.63, Z: -0.04}
	lm.Points[PinkyDIP] = Point3D{X: 0.40, Y: 0.66, Z: -0.05}
	lm.Points[PinkyTip] = Point3D{X: 0.39, Y: 0.69, Z: -0.03}

	return lm
}

// PinchLandmarks returns a preset HandLandmarks with thumb and index tips
// touching while the remaining fingers are curled.
func PinchLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	lm.Points[ThumbCMC] = Point3D{X: 0.57, Y: 0.76}
	lm.Points[ThumbMCP] = Point3D{X: 0.61, Y: 0.70}
	lm.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.52}
	lm.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.46}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.64}
	lm.Points[IndexPIP] = Point3D{X: 0.54, Y: 0.55}
	lm.Points[IndexDIP] = Point3D{X: 0.54, Y: 0.50}
	lm.Points[IndexTip] = Point3D{X: 0.55, Y: 0.45}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.62}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.58, Z: -0.04}
	lm.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.60, Z: -0.05}
	lm.Points[MiddleTip] = Point3D{X: 0.46, Y: 0.64, Z: -0.03}

	lm.Points[RingMCP] = Point3D{X: 0.46, Y: 0.64}
	lm.Points[RingPIP] = Point3D{X: 0.46, Y: 0.61, Z: -0.04}
	lm.Points[RingDIP] = Point3D{X: 0.43, Y: 0.63, Z: -0.05}
	lm.Points[RingTip] = Point3D{X: 0.43, Y: 0.66, Z: -0.03}

	lm.Points[PinkyMCP] = Point3D{X: 0.41, Y: 0.67}
	lm.Points[PinkyPIP] = Point3D{X: 0.41, Y: 0.64, Z: -0.04}
	lm.Points[PinkyDIP] = Point3D{X: 0.39, Y: 0.66, Z: -0.05}
	lm.Points[PinkyTip] = Point3D{X: 0.38, Y: 0.69, Z: -0.03}

	return lm
}

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up.
// The thumb is extended upward while the other fingers are curled.
func ThumbsUpLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.74}
	lm.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.66}
	lm.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.57}
	lm.Points[ThumbTip] = Point3D{X: 0.54, Y: 0.48}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70}
	lm.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.66, Z: -0.04}
	lm.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.68, Z: -0.05}
	lm.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.03}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.64, Z: -0.04}
	lm.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.66, Z: -0.05}
	lm.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.03}

	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70}
	lm.Points[RingPIP] = Point3D{X: 0.45, Y: 0.66, Z: -0.04}
	lm.Points[RingDIP] = Point3D{X: 0.42, Y: 0.68, Z: -0.05}
	lm.Points[RingTip] = Point3D{X: 0.41, Y: 0.72, Z: -0.03}

	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72}
	lm.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.69, Z: -0.04}
	lm.Points[PinkyDIP] = Point3D{X: 0.38, Y: 0.71, Z: -0.05}
	lm.Points[PinkyTip] = Point3D{X: 0.36, Y: 0.74, Z: -0.03}

	return lm
}

// PointLandmarks returns a preset HandLandmarks with only the index finger
// extended.
func PointLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	lm.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.75}
	lm.Points[ThumbMCP] = Point3D{X: 0.59, Y: 0.70}
	lm.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.67}
	lm.Points[ThumbTip] = Point3D{X: 0.60, Y: 0.64}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.64}
	lm.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.52}
	lm.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.44}
	lm.Points[IndexTip] = Point3D{X: 0.58, Y: 0.36}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.62}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.58, Z: -0.04}
	lm.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.60, Z: -0.05}
	lm.Points[MiddleTip] = Point3D{X: 0.46, Y: 0.64, Z: -0.03}

	lm.Points[RingMCP] = Point3D{X: 0.46, Y: 0.64}
	lm.Points[RingPIP] = Point3D{X: 0.46, Y: 0.61, Z: -0.04}
	lm.Points[RingDIP] = Point3D{X: 0.43, Y: 0.63, Z: -0.05}
	lm.Points[RingTip] = Point3D{X: 0.43, Y: 0.67, Z: -0.03}

	lm.Points[PinkyMCP] = Point3D{X: 0.41, Y: 0.66}
	lm.Points[PinkyPIP] = Point3D{X: 0.41, Y: 0.63, Z: -0.04}
	lm.Points[PinkyDIP] = Point3D{X: 0.39, Y: 0.65, Z: -0.05}
	lm.Points[PinkyTip] = Point3D{X: 0.38, Y: 0.68, Z: -0.03}

	return lm
}

// newFacePreset allocates a full face mesh with every point zeroed.
// Presets only fill the landmarks the expression geometry reads.
func newFacePreset() FaceLandmarks {
	return FaceLandmarks{
		Points: make([]Point3D, NumFaceLandmarks),
		Score:  0.9,
	}
}

// setFaceBase fills the landmarks shared by every face preset: cheeks at a
// 0.30 face width and relaxed eyes and brows.
func setFaceBase(f *FaceLandmarks) {
	f.Points[LeftCheek] = Point3D{X: 0.35, Y: 0.50}
	f.Points[RightCheek] = Point3D{X: 0.65, Y: 0.50}

	f.Points[LeftEyeTop] = Point3D{X: 0.43, Y: 0.47}
	f.Points[LeftEyeBottom] = Point3D{X: 0.43, Y: 0.50}
	f.Points[RightEyeTop] = Point3D{X: 0.57, Y: 0.47}
	f.Points[RightEyeBottom] = Point3D{X: 0.57, Y: 0.50}

	f.Points[LeftBrow] = Point3D{X: 0.43, Y: 0.44}
	f.Points[RightBrow] = Point3D{X: 0.57, Y: 0.44}
	f.Points[LeftIris] = Point3D{X: 0.43, Y: 0.485}
	f.Points[RightIris] = Point3D{X: 0.57, Y: 0.485}
}

// NeutralFaceLandmarks returns a preset face with a relaxed mouth and eyes.
func NeutralFaceLandmarks() FaceLandmarks {
	f := newFacePreset()
	setFaceBase(&f)

	f.Points[LeftMouth] = Point3D{X: 0.45, Y: 0.62}
	f.Points[RightMouth] = Point3D{X: 0.555, Y: 0.62}
	f.Points[UpperLip] = Point3D{X: 0.50, Y: 0.615}
	f.Points[LowerLip] = Point3D{X: 0.50, Y: 0.63}
	f.Points[LipTop] = Point3D{X: 0.50, Y: 0.60}
	f.Points[LipBottom] = Point3D{X: 0.50, Y: 0.645}

	return f
}

// HappyFaceLandmarks returns a preset face with a wide, level smile.
func HappyFaceLandmarks() FaceLandmarks {
	f := newFacePreset()
	setFaceBase(&f)

	f.Points[LeftMouth] = Point3D{X: 0.42, Y: 0.61}
	f.Points[RightMouth] = Point3D{X: 0.573, Y: 0.61}
	f.Points[UpperLip] = Point3D{X: 0.50, Y: 0.595}
	f.Points[LowerLip] = Point3D{X: 0.50, Y: 0.635}
	f.Points[LipTop] = Point3D{X: 0.50, Y: 0.58}
	f.Points[LipBottom] = Point3D{X: 0.50, Y: 0.65}

	// Smiles raise the brows slightly
	f.Points[LeftBrow] = Point3D{X: 0.43, Y: 0.43}
	f.Points[RightBrow] = Point3D{X: 0.57, Y: 0.43}

	return f
}

// SurprisedFaceLandmarks returns a preset face with a dropped jaw and wide
// open eyes.
func SurprisedFaceLandmarks() FaceLandmarks {
	f := newFacePreset()
	setFaceBase(&f)

	f.Points[LeftMouth] = Point3D{X: 0.45, Y: 0.61}
	f.Points[RightMouth] = Point3D{X: 0.55, Y: 0.61}
	f.Points[UpperLip] = Point3D{X: 0.50, Y: 0.58}
	f.Points[LowerLip] = Point3D{X: 0.50, Y: 0.66}
	f.Points[LipTop] = Point3D{X: 0.50, Y: 0.565}
	f.Points[LipBottom] = Point3D{X: 0.50, Y: 0.675}

	f.Points[LeftEyeTop] = Point3D{X: 0.43, Y: 0.465}
	f.Points[LeftEyeBottom] = Point3D{X: 0.43, Y: 0.505}
	f.Points[RightEyeTop] = Point3D{X: 0.57, Y: 0.465}
	f.Points[RightEyeBottom] = Point3D{X: 0.57, Y: 0.505}

	f.Points[LeftBrow] = Point3D{X: 0.43, Y: 0.42}
	f.Points[RightBrow] = Point3D{X: 0.57, Y: 0.42}

	return f
}

// AngryFaceLandmarks returns a preset face with lowered brows and narrowed
// eyes.
func AngryFaceLandmarks() FaceLandmarks {
	f := newFacePreset()
	setFaceBase(&f)

	f.Points[LeftMouth] = Point3D{X: 0.45, Y: 0.62}
	f.Points[RightMouth] = Point3D{X: 0.555, Y: 0.62}
	f.Points[UpperLip] = Point3D{X: 0.50, Y: 0.615}
	f.Points[LowerLip] = Point3D{X: 0.50, Y: 0.625}
	f.Points[LipTop] = Point3D{X: 0.50, Y: 0.60}
	f.Points[LipBottom] = Point3D{X: 0.50, Y: 0.64}

	f.Points[LeftEyeTop] = Point3D{X: 0.43, Y: 0.475}
	f.Points[LeftEyeBottom] = Point3D{X: 0.43, Y: 0.495}
	f.Points[RightEyeTop] = Point3D{X: 0.57, Y: 0.475}
	f.Points[RightEyeBottom] = Point3D{X: 0.57, Y: 0.495}

	f.Points[LeftBrow] = Point3D{X: 0.43, Y: 0.465}
	f.Points[RightBrow] = Point3D{X: 0.57, Y: 0.465}

	return f
}

// SadFaceLandmarks returns a preset face with a small, downturned mouth.
func SadFaceLandmarks() FaceLandmarks {
	f := newFacePreset()
	setFaceBase(&f)

	f.Points[LeftMouth] = Point3D{X: 0.44, Y: 0.625}
	f.Points[RightMouth] = Point3D{X: 0.56, Y: 0.605}
	f.Points[UpperLip] = Point3D{X: 0.50, Y: 0.615}
	f.Points[LowerLip] = Point3D{X: 0.50, Y: 0.628}
	f.Points[LipTop] = Point3D{X: 0.50, Y: 0.60}
	f.Points[LipBottom] = Point3D{X: 0.50, Y: 0.64}

	return f
}
