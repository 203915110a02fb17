// Package fake provides an in-memory LLM implementation for testing.
package fake

import (
	"context"
	"sync"

	"github.com/checkin-charlie/frontdesk/pkg/chat"
)

// LLM replays scripted responses and records every request it receives.
type LLM struct {
	mu        sync.Mutex
	responses []string
	calls     int

	Err      error
	Requests [][]chat.Message
}

// NewLLM creates a fake with predefined responses, cycled across calls.
func NewLLM(responses ...string) *LLM {
	if len(responses) == 0 {
		responses = []string{"This is a fake front desk reply."}
	}
	return &LLM{responses: responses}
}

// Chat returns the next scripted response, or Err when set.
func (f *LLM) Chat(ctx context.Context, messages []chat.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := make([]chat.Message, len(messages))
	copy(snapshot, messages)
	f.Requests = append(f.Requests, snapshot)

	if f.Err != nil {
		return "", f.Err
	}
	reply := f.responses[f.calls%len(f.responses)]
	f.calls++
	return reply, nil
}

// LastRequest returns the message log of the most recent call, or nil.
func (f *LLM) LastRequest() []chat.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Requests) == 0 {
		return nil
	}
	return f.Requests[len(f.Requests)-1]
}
