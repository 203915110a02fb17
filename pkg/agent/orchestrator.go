// Package agent composes the vision, emotion, chat and transcription
// components into per-connection interaction state. The transport layer
// calls into one Connection per client; connections never share state.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/checkin-charlie/frontdesk/pkg/capture"
	"github.com/checkin-charlie/frontdesk/pkg/chat"
	"github.com/checkin-charlie/frontdesk/pkg/emotion"
	"github.com/checkin-charlie/frontdesk/pkg/stream"
	"github.com/checkin-charlie/frontdesk/pkg/transcribe"
)

// augmentedInputFormat appends the emotion-state clause the persona
// message tells the model to expect.
const augmentedInputFormat = "%s. The user's current emotion is %s."

// Orchestrator holds the shared collaborators (models and services built
// once at startup) and mints per-connection state.
type Orchestrator struct {
	llm         chat.LLM
	transcriber transcribe.Transcriber
	detector    stream.Detector
	logger      *slog.Logger
	windowCap   int
}

// Config wires the orchestrator's collaborators.
type Config struct {
	LLM            chat.LLM
	Transcriber    transcribe.Transcriber
	Detector       stream.Detector
	Logger         *slog.Logger
	WindowCapacity int
}

// New builds an Orchestrator. All collaborators must already be loaded;
// model construction failures are handled at startup, not here.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		llm:         cfg.LLM,
		transcriber: cfg.Transcriber,
		detector:    cfg.Detector,
		logger:      logger,
		windowCap:   cfg.WindowCapacity,
	}
}

// Connection is the interaction state for one client: a fresh conversation
// session seeded with the persona, and an empty emotion window. The frame
// pipeline writes the window; chat dispatch reads it.
type Connection struct {
	orch    *Orchestrator
	session *chat.Session
	window  *emotion.Window

	mu           sync.Mutex
	streamCancel context.CancelFunc
}

// Connect creates per-connection state. Corresponds to the connect event.
func (o *Orchestrator) Connect() *Connection {
	return &Connection{
		orch:    o,
		session: chat.NewSession(o.llm, o.logger),
		window:  emotion.NewWindow(o.windowCap),
	}
}

// Disconnect releases per-connection resources: any running frame stream
// is cancelled. There is no persisted side effect.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	cancel := c.streamCancel
	c.streamCancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// StartFrameStream runs the annotation pipeline over src until exhaustion,
// disconnect or emit failure. Blocks for the duration of the stream; the
// transport runs it on its own goroutine. Only one stream per connection
// is active at a time.
func (c *Connection) StartFrameStream(ctx context.Context, src capture.Source, emit stream.Emit) error {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.streamCancel != nil {
		c.mu.Unlock()
		cancel()
		src.Close()
		return fmt.Errorf("frame stream already running")
	}
	c.streamCancel = cancel
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.streamCancel = nil
		c.mu.Unlock()
		cancel()
	}()

	p := stream.New(c.orch.detector, c.window, c.orch.logger)
	return p.Run(ctx, src, emit)
}

// ChatMessage augments the user's text with the current dominant emotion,
// submits it to the conversation session and returns the reply text. On
// generation failure the fixed fallback text is returned; the session log
// stays unchanged either way.
func (c *Connection) ChatMessage(ctx context.Context, text string) string {
	dominant := c.window.Dominant()
	augmented := fmt.Sprintf(augmentedInputFormat, strings.TrimRight(text, " \t\r\n"), dominant)

	reply, err := c.session.Submit(ctx, augmented)
	if err != nil {
		c.orch.logger.Error("chat message failed",
			slog.String("op", "chat_message"),
			slog.String("error", err.Error()))
	}
	return reply
}

// Transcribe converts an audio clip to text. Transcription and chat are
// separate events: the caller decides whether to feed the transcript back
// in as a chat message.
func (c *Connection) Transcribe(ctx context.Context, audio []byte) (string, error) {
	text, err := c.orch.transcriber.Transcribe(ctx, audio)
	if err != nil {
		c.orch.logger.Error("transcription failed",
			slog.String("op", "transcribe"),
			slog.String("error", err.Error()))
		return "", err
	}
	return text, nil
}

// Session exposes the conversation log for inspection (tests, debugging).
func (c *Connection) Session() *chat.Session { return c.session }

// Window exposes the emotion window (the frame pipeline's observer).
func (c *Connection) Window() *emotion.Window { return c.window }
