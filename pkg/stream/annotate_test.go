package stream

import (
	"image"
	"image/color"
	"testing"

	"github.com/matryer/is"

	"github.com/checkin-charlie/frontdesk/pkg/vision"
)

func TestAnnotate_DoesNotMutateInput(t *testing.T) {
	is := is.New(t)

	frame := image.NewRGBA(image.Rect(0, 0, 40, 40))
	det := []vision.Detection{{Box: image.Rect(10, 10, 30, 30), Emotion: "happy", Confidence: 0.8}}

	out := annotate(frame, det)

	// Original stays black, the copy carries the box border.
	is.Equal(frame.RGBAAt(10, 10), color.RGBA{})
	is.Equal(out.RGBAAt(10, 10), boxColor)
	is.Equal(out.RGBAAt(29, 29), boxColor)
	is.Equal(out.RGBAAt(20, 20), color.RGBA{}) // interior untouched
}

func TestAnnotate_NoDetectionsIsACopy(t *testing.T) {
	is := is.New(t)

	frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
	frame.Set(3, 3, color.RGBA{R: 200, A: 255})

	out := annotate(frame, nil)
	is.Equal(out.RGBAAt(3, 3), color.RGBA{R: 200, A: 255})
	is.True(&out.Pix[0] != &frame.Pix[0]) // backing storage is distinct
}
