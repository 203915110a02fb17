package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Session is the ordered conversation log for one connection plus the call
// contract to the generation service. The first message is always the
// system persona; assistant messages are only appended as the direct
// result of a completed generation call.
//
// Submit uses buffer-and-commit: the candidate user message is staged,
// the service is called on a copy of the log, and the user/assistant pair
// is committed only on success. A failed call therefore never leaves an
// orphaned user message behind.
type Session struct {
	llm    LLM
	logger *slog.Logger

	mu       sync.Mutex
	messages []Message
}

// NewSession creates a session seeded with the persona and greeting.
func NewSession(llm LLM, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{llm: llm, logger: logger}
	s.Reset()
	return s
}

// Reset clears the log and reseeds it with exactly two messages: the
// system persona and the fixed assistant greeting.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []Message{
		SystemMessage(Persona),
		AssistantMessage(Greeting),
	}
}

// Submit stages userText as a user message, calls the generation service
// with the full ordered log, and commits both the user message and the
// returned assistant message atomically on success. On failure the log is
// untouched, ErrGeneration is wrapped, and the caller should show
// Fallback to the user.
//
// The service call runs without holding the session lock.
func (s *Session) Submit(ctx context.Context, userText string) (string, error) {
	s.mu.Lock()
	staged := make([]Message, len(s.messages), len(s.messages)+2)
	copy(staged, s.messages)
	priorLen := len(s.messages)
	s.mu.Unlock()

	staged = append(staged, UserMessage(userText))

	reply, err := s.llm.Chat(ctx, staged)
	if err != nil {
		s.logger.Error("chat generation failed", slog.String("error", err.Error()))
		return Fallback, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) != priorLen {
		// Reset raced the in-flight call; drop the stale exchange rather
		// than splice it into a reseeded log.
		return reply, nil
	}
	s.messages = append(s.messages, UserMessage(userText), AssistantMessage(reply))
	return reply, nil
}

// Messages returns a snapshot of the current log.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports the current number of messages.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
