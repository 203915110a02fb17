// Package stream runs the per-connection frame loop: capture a frame,
// infer emotions, feed the aggregation window, draw overlays, JPEG-encode
// and emit. The loop is the only writer to the emotion window.
package stream

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"io"
	"log/slog"

	"github.com/checkin-charlie/frontdesk/pkg/capture"
	"github.com/checkin-charlie/frontdesk/pkg/vision"
)

// Detector is the per-frame inference pass (satisfied by *vision.Detector).
type Detector interface {
	DetectEmotions(frame image.Image) ([]vision.Detection, error)
}

// Observer receives one emotion sample per detection, in capture order.
type Observer interface {
	Observe(label string)
}

// Emit delivers one encoded frame to the requesting channel. A non-nil
// error stops the loop (the channel is gone).
type Emit func(jpegBytes []byte) error

const defaultJPEGQuality = 80

// Pipeline annotates and streams frames for one streaming request.
type Pipeline struct {
	detector Detector
	window   Observer
	logger   *slog.Logger
	encode   func(w io.Writer, img image.Image) error
}

// New builds a pipeline over the given inference pass and emotion window.
func New(detector Detector, window Observer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		detector: detector,
		window:   window,
		logger:   logger,
		encode: func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: defaultJPEGQuality})
		},
	}
}

// Run drives the loop until the source is exhausted, ctx is cancelled or
// emit fails. The source is released exactly once on every exit path.
// A failed inference pass degrades to zero detections for that frame; a
// failed encode skips the frame. Both keep the loop alive.
func (p *Pipeline) Run(ctx context.Context, src capture.Source, emit Emit) error {
	defer src.Close()

	for {
		frame, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil // capture exhausted, normal termination
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			return err
		}

		detections, err := p.detector.DetectEmotions(frame)
		if err != nil {
			p.logger.Error("frame inference failed", slog.String("error", err.Error()))
			detections = nil
		}
		for _, det := range detections {
			p.window.Observe(det.Emotion)
		}

		annotated := annotate(frame, detections)

		var buf bytes.Buffer
		if err := p.encode(&buf, annotated); err != nil {
			p.logger.Error("frame encode failed", slog.String("error", err.Error()))
			continue
		}

		if err := emit(buf.Bytes()); err != nil {
			return err
		}
	}
}
