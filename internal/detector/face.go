package detector

// Face mesh landmark indices following MediaPipe convention, limited to the
// points the expression geometry needs. The full mesh has 468 points plus
// 10 refined iris points.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
const (
	LipTop           = 0
	UpperLip         = 13
	LowerLip         = 14
	LipBottom        = 17
	LeftMouth        = 61
	LeftBrow         = 70
	LeftEyeBottom    = 145
	LeftEyeTop       = 159
	LeftCheek        = 234
	RightMouth       = 291
	RightBrow        = 300
	RightEyeBottom   = 374
	RightEyeTop      = 386
	RightCheek       = 454
	LeftIris         = 468
	RightIris        = 473
	NumFaceLandmarks = 478
)

// FaceLandmarks represents the refined face mesh landmarks detected by MediaPipe.
type FaceLandmarks struct {
	Points []Point3D `json:"points"`
	Score  float64   `json:"score"`
}
