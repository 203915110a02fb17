package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperTranscriber implements Transcriber against the OpenAI Whisper
// audio API. The verbose JSON response format is requested so segment
// texts can be joined explicitly with single spaces.
type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

// NewWhisperTranscriber creates the adapter using the whisper-1 model.
func NewWhisperTranscriber(apiKey string) *WhisperTranscriber {
	return &WhisperTranscriber{
		client: openai.NewClient(apiKey),
		model:  openai.Whisper1,
	}
}

// Transcribe decodes the audio buffer remotely and concatenates all
// segment texts with single-space separators. An empty buffer yields an
// empty transcript without calling the service.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}

	req := openai.AudioRequest{
		Model:    w.model,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Reader:   bytes.NewReader(audio),
		FilePath: "clip.wav", // the API infers the container from this name
	}

	resp, err := w.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	if len(resp.Segments) == 0 {
		return strings.TrimSpace(resp.Text), nil
	}
	parts := make([]string, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
