// Package transcribe wraps the speech-to-text model behind a single call:
// raw audio buffer in, transcript text out.
package transcribe

import (
	"context"
	"errors"
)

// ErrTranscription indicates decoding or inference failed. The caller gets
// a distinct error payload; no conversation state is touched.
var ErrTranscription = errors.New("transcription failure")

// Transcriber converts a raw audio byte buffer into transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
