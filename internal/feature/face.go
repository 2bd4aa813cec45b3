package feature

import (
	"math"

	"github.com/mass60/firebridge/internal/detector"
)

// minFaceWidth guards the face-width denominator against degenerate meshes.
const minFaceWidth = 1e-6

// FromFace derives a geometric observation from one detected face mesh.
//
// Every ratio is normalized by the cheek-to-cheek face width. The mouth
// angle is the signed slope between the mouth corners in radians; the brow
// gap is the mean vertical distance between each brow and its iris.
func FromFace(f *detector.FaceLandmarks) Observation {
	// Tolerate truncated meshes: missing landmarks read as the origin
	// instead of panicking on a fixed index.
	points := f.Points
	if len(points) < detector.NumFaceLandmarks {
		padded := make([]detector.Point3D, detector.NumFaceLandmarks)
		copy(padded, points)
		points = padded
	}

	leftCheek := points[detector.LeftCheek]
	rightCheek := points[detector.RightCheek]

	faceWidth := dist(leftCheek.X, leftCheek.Y, rightCheek.X, rightCheek.Y)
	if faceWidth < minFaceWidth {
		faceWidth = minFaceWidth
	}

	leftMouth := points[detector.LeftMouth]
	rightMouth := points[detector.RightMouth]
	upperLip := points[detector.UpperLip]
	lowerLip := points[detector.LowerLip]
	lipTop := points[detector.LipTop]
	lipBottom := points[detector.LipBottom]

	mouthWidth := dist(leftMouth.X, leftMouth.Y, rightMouth.X, rightMouth.Y) / faceWidth
	mouthHeight := dist(upperLip.X, upperLip.Y, lowerLip.X, lowerLip.Y) / faceWidth
	lipGap := dist(lipTop.X, lipTop.Y, lipBottom.X, lipBottom.Y) / faceWidth

	leftEyeOpen := dist(
		points[detector.LeftEyeTop].X, points[detector.LeftEyeTop].Y,
		points[detector.LeftEyeBottom].X, points[detector.LeftEyeBottom].Y,
	) / faceWidth
	rightEyeOpen := dist(
		points[detector.RightEyeTop].X, points[detector.RightEyeTop].Y,
		points[detector.RightEyeBottom].X, points[detector.RightEyeBottom].Y,
	) / faceWidth
	eyeOpen := (leftEyeOpen + rightEyeOpen) / 2

	browLeftGap := math.Abs(points[detector.LeftBrow].Y-points[detector.LeftIris].Y) / faceWidth
	browRightGap := math.Abs(points[detector.RightBrow].Y-points[detector.RightIris].Y) / faceWidth
	browGap := (browLeftGap + browRightGap) / 2

	mouthAngle := math.Atan2(rightMouth.Y-leftMouth.Y, rightMouth.X-leftMouth.X)

	cx := (leftCheek.X + rightCheek.X) / 2
	cy := (leftCheek.Y + rightCheek.Y) / 2

	return Observation{
		Center:     Point{X: clamp(cx, 0, 1), Y: clamp(cy, 0, 1)},
		Handedness: "unknown",
		Ratios: map[string]float64{
			RatioMouthWidth:  mouthWidth,
			RatioMouthHeight: mouthHeight,
			RatioLipGap:      lipGap,
			RatioEyeOpen:     eyeOpen,
			RatioBrowGap:     browGap,
			RatioMouthAngle:  mouthAngle,
		},
	}
}
