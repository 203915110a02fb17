package vision

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/matryer/is"
)

type stubFaces struct {
	boxes []image.Rectangle
	err   error
}

func (s *stubFaces) DetectFaces(frame image.Image) ([]image.Rectangle, error) {
	return s.boxes, s.err
}

type stubEmotions struct {
	label string
	conf  float64
	err   error
	crops []image.Rectangle
}

func (s *stubEmotions) Classify(face image.Image) (string, float64, error) {
	s.crops = append(s.crops, face.Bounds())
	if s.err != nil {
		return "", 0, s.err
	}
	return s.label, s.conf, nil
}

func testFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 5), 128, 255})
		}
	}
	return img
}

func TestDetectEmotions_NoFacesIsNotAnError(t *testing.T) {
	is := is.New(t)

	d := NewDetector(&stubFaces{}, &stubEmotions{label: "happy", conf: 0.9})
	dets, err := d.DetectEmotions(testFrame())
	is.NoErr(err)
	is.Equal(len(dets), 0)
}

func TestDetectEmotions_ClassifiesEveryFace(t *testing.T) {
	is := is.New(t)

	faces := &stubFaces{boxes: []image.Rectangle{
		image.Rect(2, 2, 20, 20),
		image.Rect(30, 10, 60, 40),
	}}
	emotions := &stubEmotions{label: "sad", conf: 0.72}

	d := NewDetector(faces, emotions)
	dets, err := d.DetectEmotions(testFrame())
	is.NoErr(err)
	is.Equal(len(dets), 2)
	is.Equal(dets[0].Emotion, "sad")
	is.Equal(dets[0].Confidence, 0.72)
	is.Equal(dets[0].Box, image.Rect(2, 2, 20, 20))
	is.Equal(len(emotions.crops), 2) // one classification per face
}

func TestDetectEmotions_ClampsBoxesToFrame(t *testing.T) {
	is := is.New(t)

	faces := &stubFaces{boxes: []image.Rectangle{
		image.Rect(50, 30, 200, 200), // runs past the frame edge
		image.Rect(100, 100, 120, 120), // entirely outside
	}}
	emotions := &stubEmotions{label: "happy", conf: 0.8}

	d := NewDetector(faces, emotions)
	dets, err := d.DetectEmotions(testFrame())
	is.NoErr(err)
	is.Equal(len(dets), 1) // fully out-of-frame box dropped
	is.Equal(emotions.crops[0], image.Rect(50, 30, 64, 48))
}

func TestDetectEmotions_PropagatesModelErrors(t *testing.T) {
	is := is.New(t)

	wantErr := errors.New("boom")
	d := NewDetector(&stubFaces{err: wantErr}, &stubEmotions{})
	_, err := d.DetectEmotions(testFrame())
	is.True(errors.Is(err, wantErr))
}

func TestSoftmax(t *testing.T) {
	is := is.New(t)

	probs := softmax([]float32{1, 2, 3})
	is.Equal(len(probs), 3)

	var sum float64
	for _, p := range probs {
		sum += p
	}
	is.True(math.Abs(sum-1) < 1e-9)
	is.True(probs[2] > probs[1] && probs[1] > probs[0])
}

func TestFaceTensor_ShapeAndNormalization(t *testing.T) {
	is := is.New(t)

	// A uniform mid-gray crop stays uniform through the resize and
	// normalizes to a constant per channel.
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{128, 128, 128, 255})
		}
	}

	tensor := faceTensor(img)
	is.Equal(len(tensor), 3*classifierInputSize*classifierInputSize)

	want := [3]float32{
		(float32(128)/255 - channelMean[0]) / channelStd[0],
		(float32(128)/255 - channelMean[1]) / channelStd[1],
		(float32(128)/255 - channelMean[2]) / channelStd[2],
	}
	plane := classifierInputSize * classifierInputSize
	for ch := 0; ch < 3; ch++ {
		got := tensor[ch*plane]
		is.True(math.Abs(float64(got-want[ch])) < 1e-3)
		mid := tensor[ch*plane+plane/2]
		is.True(math.Abs(float64(mid-want[ch])) < 1e-3)
	}
}

func TestResizeRGBA_PreservesGradientOrientation(t *testing.T) {
	is := is.New(t)

	// Left half red, right half blue; a stretch to a wider square must
	// keep red on the left and blue on the right.
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			if x < 3 {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}

	out := resizeRGBA(img, 32, 32)
	is.Equal(out.Bounds(), image.Rect(0, 0, 32, 32))

	left := out.RGBAAt(2, 16)
	right := out.RGBAAt(29, 16)
	is.True(left.R > left.B)
	is.True(right.B > right.R)
}

func TestDetectorTensor_ScalesToUnitRange(t *testing.T) {
	is := is.New(t)

	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 128, A: 255})
		}
	}

	tensor := detectorTensor(img)
	plane := detectorInputSize * detectorInputSize
	is.Equal(len(tensor), 3*plane)

	is.True(math.Abs(float64(tensor[0])-1) < 1e-3)               // R channel
	is.True(math.Abs(float64(tensor[plane])) < 1e-3)             // G channel
	is.True(math.Abs(float64(tensor[2*plane])-128.0/255) < 1e-3) // B channel
}

func TestNonMaxSuppress(t *testing.T) {
	is := is.New(t)

	boxes := []scoredBox{
		{rect: image.Rect(0, 0, 100, 100), score: 0.9},
		{rect: image.Rect(5, 5, 105, 105), score: 0.8}, // heavy overlap, suppressed
		{rect: image.Rect(200, 200, 300, 300), score: 0.7},
	}
	kept := nonMaxSuppress(boxes)
	is.Equal(len(kept), 2)
	is.Equal(kept[0], image.Rect(0, 0, 100, 100))
	is.Equal(kept[1], image.Rect(200, 200, 300, 300))
}

func TestDecodeBoxes_FiltersLowScores(t *testing.T) {
	is := is.New(t)

	raw := make([]float32, 5*detectorAnchors)
	// One confident detection centered at (320,320), 100x100 in model space.
	raw[0] = 320
	raw[detectorAnchors] = 320
	raw[2*detectorAnchors] = 100
	raw[3*detectorAnchors] = 100
	raw[4*detectorAnchors] = 0.95
	// A second anchor below threshold.
	raw[1] = 100
	raw[detectorAnchors+1] = 100
	raw[2*detectorAnchors+1] = 50
	raw[3*detectorAnchors+1] = 50
	raw[4*detectorAnchors+1] = 0.2

	got := decodeBoxes(raw, image.Rect(0, 0, 640, 640))
	is.Equal(len(got), 1)
	is.Equal(got[0], image.Rect(270, 270, 370, 370))
}
