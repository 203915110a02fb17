package vision

import (
	"fmt"
	"image"
	"os"
	"runtime"
	"sort"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortOnce    sync.Once
	ortInitErr error
)

// ensureOrtEnv initializes the ONNX runtime environment exactly once per
// process, so the face detector and the emotion classifier can coexist
// without duplicate schema registration.
func ensureOrtEnv() error {
	ortOnce.Do(func() {
		if libPath := os.Getenv("ONNXRUNTIME_LIB"); libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		} else if runtime.GOOS == "darwin" {
			ort.SetSharedLibraryPath("/opt/homebrew/lib/libonnxruntime.dylib")
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// ONNXEmotionClassifier runs the emotion model over a fixed-shape
// [1,3,224,224] input producing one logit per label. The session and its
// bound tensors are created once at startup and reused under a mutex.
type ONNXEmotionClassifier struct {
	mu      sync.Mutex
	session *ort.Session[float32]
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewONNXEmotionClassifier loads the emotion model. Load failure is fatal
// at startup and wraps ErrModelLoad.
func NewONNXEmotionClassifier(modelPath string) (*ONNXEmotionClassifier, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: emotion model not found: %s", ErrModelLoad, modelPath)
	}
	if err := ensureOrtEnv(); err != nil {
		return nil, fmt.Errorf("%w: onnx runtime init: %v", ErrModelLoad, err)
	}

	inputShape := ort.NewShape(1, 3, classifierInputSize, classifierInputSize)
	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("%w: create input tensor: %v", ErrModelLoad, err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(Labels))))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("%w: create output tensor: %v", ErrModelLoad, err)
	}

	session, err := ort.NewSession[float32](
		modelPath,
		[]string{"input"},
		[]string{"output"},
		[]*ort.Tensor[float32]{input},
		[]*ort.Tensor[float32]{output},
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("%w: create emotion session: %v", ErrModelLoad, err)
	}

	return &ONNXEmotionClassifier{session: session, input: input, output: output}, nil
}

// Classify preprocesses the face crop and returns the argmax label with
// its softmax confidence.
func (c *ONNXEmotionClassifier) Classify(face image.Image) (string, float64, error) {
	tensor := faceTensor(face)

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.input.GetData(), tensor)
	if err := c.session.Run(); err != nil {
		return "", 0, fmt.Errorf("emotion inference: %w", err)
	}

	logits := c.output.GetData()
	if len(logits) != len(Labels) {
		return "", 0, fmt.Errorf("emotion model returned %d logits, want %d", len(logits), len(Labels))
	}
	probs := softmax(logits)
	idx := argmax(probs)
	return Labels[idx], probs[idx], nil
}

// Close releases the session and its tensors.
func (c *ONNXEmotionClassifier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Destroy()
	c.input.Destroy()
	c.output.Destroy()
}

// Face detector input/output geometry for YOLOv8-face exported to ONNX:
// [1,3,640,640] in, [1,5,8400] out (cx, cy, w, h, confidence per anchor).
const (
	detectorInputSize = 640
	detectorAnchors   = 8400
	detectorMinScore  = 0.5
	detectorNMSIoU    = 0.45
)

// ONNXFaceDetector localizes faces with a YOLO-family ONNX model.
type ONNXFaceDetector struct {
	mu      sync.Mutex
	session *ort.Session[float32]
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewONNXFaceDetector loads the face model. Load failure wraps ErrModelLoad.
func NewONNXFaceDetector(modelPath string) (*ONNXFaceDetector, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: face model not found: %s", ErrModelLoad, modelPath)
	}
	if err := ensureOrtEnv(); err != nil {
		return nil, fmt.Errorf("%w: onnx runtime init: %v", ErrModelLoad, err)
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, detectorInputSize, detectorInputSize))
	if err != nil {
		return nil, fmt.Errorf("%w: create input tensor: %v", ErrModelLoad, err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 5, detectorAnchors))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("%w: create output tensor: %v", ErrModelLoad, err)
	}

	session, err := ort.NewSession[float32](
		modelPath,
		[]string{"images"},
		[]string{"output0"},
		[]*ort.Tensor[float32]{input},
		[]*ort.Tensor[float32]{output},
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("%w: create face session: %v", ErrModelLoad, err)
	}

	return &ONNXFaceDetector{session: session, input: input, output: output}, nil
}

// DetectFaces runs the model and decodes confident anchors into frame
// coordinates, deduplicated with non-maximum suppression.
func (d *ONNXFaceDetector) DetectFaces(frame image.Image) ([]image.Rectangle, error) {
	bounds := frame.Bounds()
	tensor := detectorTensor(frame)

	d.mu.Lock()
	copy(d.input.GetData(), tensor)
	err := d.session.Run()
	var raw []float32
	if err == nil {
		raw = append([]float32(nil), d.output.GetData()...)
	}
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("face inference: %w", err)
	}

	return decodeBoxes(raw, bounds), nil
}

// Close releases the session and its tensors.
func (d *ONNXFaceDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session.Destroy()
	d.input.Destroy()
	d.output.Destroy()
}

// detectorTensor stretches the frame to the detector's input square,
// scaled to [0,1] in CHW layout.
func detectorTensor(frame image.Image) []float32 {
	const n = detectorInputSize
	resized := resizeRGBA(frame, n, n)

	tensor := make([]float32, 3*n*n)
	plane := n * n
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := resized.RGBAAt(x, y)
			idx := y*n + x
			tensor[idx] = float32(c.R) / 255
			tensor[plane+idx] = float32(c.G) / 255
			tensor[2*plane+idx] = float32(c.B) / 255
		}
	}
	return tensor
}

type scoredBox struct {
	rect  image.Rectangle
	score float32
}

// decodeBoxes converts raw [5,8400] model output into frame-space boxes.
func decodeBoxes(raw []float32, frame image.Rectangle) []image.Rectangle {
	if len(raw) < 5*detectorAnchors {
		return nil
	}
	scaleX := float64(frame.Dx()) / detectorInputSize
	scaleY := float64(frame.Dy()) / detectorInputSize

	var candidates []scoredBox
	for i := 0; i < detectorAnchors; i++ {
		score := raw[4*detectorAnchors+i]
		if score < detectorMinScore {
			continue
		}
		cx := float64(raw[i])
		cy := float64(raw[detectorAnchors+i])
		w := float64(raw[2*detectorAnchors+i])
		h := float64(raw[3*detectorAnchors+i])

		rect := image.Rect(
			frame.Min.X+int((cx-w/2)*scaleX),
			frame.Min.Y+int((cy-h/2)*scaleY),
			frame.Min.X+int((cx+w/2)*scaleX),
			frame.Min.Y+int((cy+h/2)*scaleY),
		).Intersect(frame)
		if rect.Empty() {
			continue
		}
		candidates = append(candidates, scoredBox{rect: rect, score: score})
	}

	return nonMaxSuppress(candidates)
}

// nonMaxSuppress keeps the highest-scoring box from each overlapping group.
func nonMaxSuppress(boxes []scoredBox) []image.Rectangle {
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].score > boxes[j].score })

	var kept []image.Rectangle
	for _, b := range boxes {
		overlaps := false
		for _, k := range kept {
			if iou(b.rect, k) > detectorNMSIoU {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, b.rect)
		}
	}
	return kept
}

func iou(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	interArea := float64(inter.Dx() * inter.Dy())
	union := float64(a.Dx()*a.Dy()+b.Dx()*b.Dy()) - interArea
	return interArea / union
}
