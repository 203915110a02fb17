// Package vision wraps the face-detection and emotion-classification
// models behind a single per-frame call: frame in, detections out. The
// models themselves are black boxes behind small interfaces; concrete
// ONNX adapters live in onnx.go.
package vision

import (
	"errors"
	"fmt"
	"image"
)

// ErrModelLoad indicates a model failed to load. Treated as fatal at
// startup, never surfaced per-call.
var ErrModelLoad = errors.New("model load failed")

// Labels the emotion classifier was trained on, in output-index order.
var Labels = []string{"anger", "disgust", "fear", "happy", "sad", "surprise"}

// Detection is one face found in a frame together with its classified
// emotion. Confidence is the softmax probability of the argmax label.
type Detection struct {
	Box        image.Rectangle
	Emotion    string
	Confidence float64
}

// FaceDetector localizes faces within a frame.
type FaceDetector interface {
	DetectFaces(frame image.Image) ([]image.Rectangle, error)
}

// EmotionClassifier assigns an emotion label to a face crop.
type EmotionClassifier interface {
	Classify(face image.Image) (label string, confidence float64, err error)
}

// Detector composes face localization and emotion classification into the
// per-frame inference pass.
type Detector struct {
	faces    FaceDetector
	emotions EmotionClassifier
}

// NewDetector builds a Detector from the two model adapters.
func NewDetector(faces FaceDetector, emotions EmotionClassifier) *Detector {
	return &Detector{faces: faces, emotions: emotions}
}

// DetectEmotions runs face localization and classifies every region found.
// Zero faces is an empty result, not an error. The input frame is never
// mutated; callers draw on their own copy.
func (d *Detector) DetectEmotions(frame image.Image) ([]Detection, error) {
	boxes, err := d.faces.DetectFaces(frame)
	if err != nil {
		return nil, fmt.Errorf("face detection: %w", err)
	}

	detections := make([]Detection, 0, len(boxes))
	for _, box := range boxes {
		crop := cropFace(frame, box)
		if crop == nil {
			continue
		}
		label, conf, err := d.emotions.Classify(crop)
		if err != nil {
			return nil, fmt.Errorf("emotion classification: %w", err)
		}
		detections = append(detections, Detection{Box: box, Emotion: label, Confidence: conf})
	}
	return detections, nil
}

// cropFace extracts the sub-image for a face box, clamped to the frame
// bounds. Returns nil when the clamped box is empty.
func cropFace(frame image.Image, box image.Rectangle) image.Image {
	box = box.Intersect(frame.Bounds())
	if box.Empty() {
		return nil
	}

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if si, ok := frame.(subImager); ok {
		return si.SubImage(box)
	}

	// Fallback copy for image types without SubImage.
	crop := image.NewRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			crop.Set(x-box.Min.X, y-box.Min.Y, frame.At(x, y))
		}
	}
	return crop
}
