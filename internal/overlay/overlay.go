// Package overlay draws HUD annotations on video frames for the preview
// stream.
package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// HUD layout defaults matching the preview styling.
const (
	lineHeight    = 22
	defaultScale  = 0.6
	defaultThick  = 1
	captionMargin = 8
)

// DefaultColor is the plain white used for status lines.
var DefaultColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// AccentColor highlights the gesture readout lines.
var AccentColor = color.RGBA{R: 255, G: 220, B: 120, A: 255}

// DrawHUD renders text lines starting at origin, one line per entry.
func DrawHUD(frame *gocv.Mat, lines []string, origin image.Point, clr color.RGBA, scale float64) {
	y := origin.Y
	for _, line := range lines {
		gocv.PutTextWithParams(frame, line, image.Pt(origin.X, y),
			gocv.FontHersheySimplex, scale, clr, defaultThick, gocv.LineAA, false)
		y += lineHeight
	}
}

// DrawBBox renders a labeled bounding box.
func DrawBBox(frame *gocv.Mat, box image.Rectangle, label string, clr color.RGBA) {
	gocv.Rectangle(frame, box, clr, 2)

	size := gocv.GetTextSize(label, gocv.FontHersheySimplex, 0.5, 1)
	labelX := box.Min.X
	labelY := box.Min.Y - captionMargin
	if labelY < size.Y+4 {
		labelY = size.Y + 4
	}

	bg := image.Rect(labelX, labelY-size.Y-6, labelX+size.X+4, labelY)
	gocv.RectangleWithParams(frame, bg, clr, -1, gocv.Line8, 0)
	gocv.PutTextWithParams(frame, label, image.Pt(labelX+2, labelY-2),
		gocv.FontHersheySimplex, 0.5, color.RGBA{A: 255}, 1, gocv.LineAA, false)
}
