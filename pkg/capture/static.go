package capture

import (
	"context"
	"image"
	"io"
	"sync"
)

// StaticSource serves a fixed sequence of in-memory frames, then reports
// exhaustion. Used in tests and for fixture playback.
type StaticSource struct {
	mu     sync.Mutex
	frames []image.Image
	next   int
	closed bool

	CloseCount int
}

// NewStaticSource builds a source over the given frames.
func NewStaticSource(frames ...image.Image) *StaticSource {
	return &StaticSource{frames: frames}
}

// Next returns the next frame or io.EOF once all frames are consumed or
// the source has been closed.
func (s *StaticSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.next >= len(s.frames) {
		return nil, io.EOF
	}
	img := s.frames[s.next]
	s.next++
	return img, nil
}

// Close marks the source exhausted. Idempotent; CloseCount records how
// many times it was invoked so tests can assert release discipline.
func (s *StaticSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.CloseCount++
	return nil
}
