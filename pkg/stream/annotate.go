package stream

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/checkin-charlie/frontdesk/pkg/vision"
)

const boxBorderWidth = 2

var (
	boxColor     = color.RGBA{B: 255, A: 255}
	captionColor = color.RGBA{G: 255, A: 255}
)

// annotate draws every detection's bounding box and a "label: confidence"
// caption onto a mutable copy of the frame. The input frame is left
// untouched.
func annotate(frame image.Image, detections []vision.Detection) *image.RGBA {
	bounds := frame.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, frame, bounds.Min, draw.Src)

	for _, det := range detections {
		drawBox(out, det.Box)
		drawCaption(out, det.Box, fmt.Sprintf("%s: %.2f", det.Emotion, det.Confidence))
	}
	return out
}

// drawBox outlines a rectangle with a fixed border width.
func drawBox(img *image.RGBA, r image.Rectangle) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+boxBorderWidth), // top
		image.Rect(r.Min.X, r.Max.Y-boxBorderWidth, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+boxBorderWidth, r.Max.Y), // left
		image.Rect(r.Max.X-boxBorderWidth, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, edge := range edges {
		draw.Draw(img, edge.Intersect(img.Bounds()), &image.Uniform{boxColor}, image.Point{}, draw.Src)
	}
}

// drawCaption renders text just above the box, or inside its top edge when
// the box touches the top of the frame.
func drawCaption(img *image.RGBA, box image.Rectangle, text string) {
	face := basicfont.Face7x13
	y := box.Min.Y - 4
	if y-face.Ascent < img.Bounds().Min.Y {
		y = box.Min.Y + face.Height + 2
	}

	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{captionColor},
		Face: face,
		Dot:  fixed.P(box.Min.X, y),
	}
	d.DrawString(text)
}
