// Package fake provides in-memory vision model implementations for tests.
package fake

import (
	"image"

	"github.com/checkin-charlie/frontdesk/pkg/vision"
)

// FaceDetector returns a scripted set of boxes for every frame.
type FaceDetector struct {
	Boxes []image.Rectangle
	Err   error

	Calls int
}

func (f *FaceDetector) DetectFaces(frame image.Image) ([]image.Rectangle, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Boxes, nil
}

// EmotionClassifier returns a fixed label for every crop.
type EmotionClassifier struct {
	Label      string
	Confidence float64
	Err        error

	Calls int
}

func (f *EmotionClassifier) Classify(face image.Image) (string, float64, error) {
	f.Calls++
	if f.Err != nil {
		return "", 0, f.Err
	}
	return f.Label, f.Confidence, nil
}

// Detector is a scripted vision.Detector replacement emitting a fixed
// detection sequence per frame.
type Detector struct {
	Detections []vision.Detection
	Err        error

	Calls int
}

func (f *Detector) DetectEmotions(frame image.Image) ([]vision.Detection, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Detections, nil
}
