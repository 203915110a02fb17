// Package capture abstracts frame acquisition for the streaming pipeline.
// A Source hands out frames one at a time and reports exhaustion with
// io.EOF, which the pipeline treats as normal termination.
package capture

import (
	"context"
	"image"
)

// Source produces frames in capture order. Next blocks until a frame is
// available, the source is exhausted (io.EOF) or ctx is cancelled.
// Implementations must tolerate Close being called concurrently with a
// blocked Next and must make Close idempotent.
type Source interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}
