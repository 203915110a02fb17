// Package fake provides an in-memory Transcriber for testing.
package fake

import (
	"context"
	"sync"
)

// Transcriber returns a fixed transcript (or error) and records the audio
// buffers it received.
type Transcriber struct {
	Text string
	Err  error

	mu      sync.Mutex
	Buffers [][]byte
}

func (f *Transcriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	f.mu.Lock()
	f.Buffers = append(f.Buffers, append([]byte(nil), audio...))
	f.mu.Unlock()

	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}
