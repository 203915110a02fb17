package vision

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Classifier input statistics: 224x224 RGB, ImageNet per-channel
// normalization. These must match what the emotion model was trained with.
const classifierInputSize = 224

var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// resizeRGBA stretches src to w x h with bilinear filtering.
func resizeRGBA(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// faceTensor converts a face crop into the classifier's expected input:
// bilinear resize to 224x224, scale to [0,1], normalize per channel,
// laid out CHW (planar) as ONNX image models expect.
func faceTensor(face image.Image) []float32 {
	const n = classifierInputSize
	resized := resizeRGBA(face, n, n)

	tensor := make([]float32, 3*n*n)
	plane := n * n
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := resized.RGBAAt(x, y)
			idx := y*n + x
			tensor[idx] = (float32(c.R)/255 - channelMean[0]) / channelStd[0]
			tensor[plane+idx] = (float32(c.G)/255 - channelMean[1]) / channelStd[1]
			tensor[2*plane+idx] = (float32(c.B)/255 - channelMean[2]) / channelStd[2]
		}
	}
	return tensor
}

// softmax converts raw logits to a probability distribution.
func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(float64(v - maxLogit))
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// argmax returns the index of the largest value.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
