package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/checkin-charlie/frontdesk/internal/metrics"
	"github.com/checkin-charlie/frontdesk/pkg/agent"
)

// envelope is the wire format for every event in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outbound pairs an event name with its payload before marshalling.
type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type transcriptionResult struct {
	Transcription string `json:"transcription"`
}

type transcriptionError struct {
	Error string `json:"error"`
}

// runConn owns one client: connect resets state, the read loop dispatches
// events, and disconnect releases everything. All writes funnel through a
// single writer goroutine so streamed frames never interleave with chat
// responses mid-message.
func (s *Server) runConn(parent context.Context, ws *websocket.Conn) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	conn := s.orch.Connect()
	defer conn.Disconnect()

	s.logger.Info("client connected", slog.String("remote", ws.RemoteAddr().String()))
	defer s.logger.Info("client disconnected", slog.String("remote", ws.RemoteAddr().String()))

	out := make(chan outbound, 64)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-out:
				if err := ws.WriteJSON(msg); err != nil {
					s.logger.Error("websocket write failed", slog.String("error", err.Error()))
					cancel()
					return
				}
			}
		}
	}()

	send := func(msg outbound) error {
		select {
		case out <- msg:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for {
		var env envelope
		if err := ws.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("websocket read failed", slog.String("error", err.Error()))
			}
			return
		}
		s.dispatch(ctx, conn, env, send)
	}
}

// dispatch routes one inbound event. Failures never terminate the loop;
// every externally visible failure becomes a fallback message or an error
// payload.
func (s *Server) dispatch(ctx context.Context, conn *agent.Connection, env envelope, send sendFunc) {
	switch env.Event {
	case "chat_message":
		var text string
		if err := json.Unmarshal(env.Data, &text); err != nil {
			s.logger.Error("bad chat_message payload", slog.String("error", err.Error()))
			metrics.Errors.WithLabelValues("chat_message").Inc()
			return
		}
		start := time.Now()
		reply := conn.ChatMessage(ctx, text)
		metrics.ChatDuration.Observe(time.Since(start).Seconds())
		_ = send(outbound{Event: "chat_response", Data: reply})

	case "transcribe":
		var encoded string
		if err := json.Unmarshal(env.Data, &encoded); err != nil {
			s.logger.Error("bad transcribe payload", slog.String("error", err.Error()))
			metrics.Errors.WithLabelValues("transcribe").Inc()
			_ = send(outbound{Event: "transcription_error", Data: transcriptionError{Error: "invalid audio payload"}})
			return
		}
		audio, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			metrics.Errors.WithLabelValues("transcribe").Inc()
			_ = send(outbound{Event: "transcription_error", Data: transcriptionError{Error: "invalid audio encoding"}})
			return
		}
		start := time.Now()
		text, err := conn.Transcribe(ctx, audio)
		metrics.TranscriptionDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.Errors.WithLabelValues("transcribe").Inc()
			_ = send(outbound{Event: "transcription_error", Data: transcriptionError{Error: "transcription failed"}})
			return
		}
		_ = send(outbound{Event: "transcription_result", Data: transcriptionResult{Transcription: text}})

	case "request_frame":
		go s.streamFrames(ctx, conn, send)

	default:
		s.logger.Warn("unknown event", slog.String("event", env.Event))
	}
}

type sendFunc func(outbound) error

// streamFrames opens the capture source and runs the annotation pipeline,
// emitting base64-encoded JPEG frames until exhaustion or disconnect.
func (s *Server) streamFrames(ctx context.Context, conn *agent.Connection, send sendFunc) {
	src, err := s.newSource(ctx)
	if err != nil {
		// The wire contract has no frame-error event: a client that asked
		// for frames and gets none observes silence. The failure stays
		// server-side as a log entry and an error counter.
		s.logger.Error("open capture source failed", slog.String("error", err.Error()))
		metrics.Errors.WithLabelValues("request_frame").Inc()
		return
	}

	err = conn.StartFrameStream(ctx, src, func(jpegBytes []byte) error {
		metrics.FramesStreamed.Inc()
		return send(outbound{Event: "frame", Data: base64.StdEncoding.EncodeToString(jpegBytes)})
	})
	if err != nil && ctx.Err() == nil {
		s.logger.Error("frame stream ended", slog.String("error", err.Error()))
		metrics.Errors.WithLabelValues("request_frame").Inc()
	}
}
