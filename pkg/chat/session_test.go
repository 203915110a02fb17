package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
)

type stubLLM struct {
	reply string
	err   error
	seen  [][]Message
}

func (s *stubLLM) Chat(ctx context.Context, messages []Message) (string, error) {
	snapshot := make([]Message, len(messages))
	copy(snapshot, messages)
	s.seen = append(s.seen, snapshot)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestNewSession_SeedsPersonaAndGreeting(t *testing.T) {
	is := is.New(t)

	s := NewSession(&stubLLM{}, nil)
	msgs := s.Messages()
	is.Equal(len(msgs), 2)
	is.Equal(msgs[0].Role, RoleSystem)
	is.Equal(msgs[0].Content, Persona)
	is.Equal(msgs[1].Role, RoleAssistant)
	is.Equal(msgs[1].Content, Greeting)
}

func TestReset_AlwaysYieldsExactlyTwoMessages(t *testing.T) {
	is := is.New(t)

	llm := &stubLLM{reply: "Welcome back!"}
	s := NewSession(llm, nil)

	_, err := s.Submit(context.Background(), "Hi")
	is.NoErr(err)
	is.Equal(s.Len(), 4)

	s.Reset()
	is.Equal(s.Len(), 2)
	is.Equal(s.Messages()[0].Role, RoleSystem)
}

func TestSubmit_CommitsUserAndAssistantPair(t *testing.T) {
	is := is.New(t)

	llm := &stubLLM{reply: "Your room is ready."}
	s := NewSession(llm, nil)

	reply, err := s.Submit(context.Background(), "I'd like to check in")
	is.NoErr(err)
	is.Equal(reply, "Your room is ready.")

	msgs := s.Messages()
	is.Equal(len(msgs), 4)
	is.Equal(msgs[2], UserMessage("I'd like to check in"))
	is.Equal(msgs[3], AssistantMessage("Your room is ready."))

	// The service saw the staged user message at the end of the log.
	sent := llm.seen[0]
	is.Equal(len(sent), 3)
	is.Equal(sent[2], UserMessage("I'd like to check in"))
}

func TestSubmit_FailureLeavesLogUntouched(t *testing.T) {
	is := is.New(t)

	llm := &stubLLM{err: errors.New("service down")}
	s := NewSession(llm, nil)
	before := s.Len()

	reply, err := s.Submit(context.Background(), "I'd like to check in")
	is.True(errors.Is(err, ErrGeneration))
	is.Equal(reply, Fallback)
	is.Equal(s.Len(), before) // no orphaned user message
}

func TestSubmit_SecondExchangeCarriesFullHistory(t *testing.T) {
	is := is.New(t)

	llm := &stubLLM{reply: "Certainly."}
	s := NewSession(llm, nil)

	_, err := s.Submit(context.Background(), "First question")
	is.NoErr(err)
	_, err = s.Submit(context.Background(), "Second question")
	is.NoErr(err)

	// Second request includes persona, greeting, first exchange, new user.
	sent := llm.seen[1]
	is.Equal(len(sent), 5)
	is.Equal(sent[0].Role, RoleSystem)
	is.Equal(sent[4], UserMessage("Second question"))
	is.Equal(s.Len(), 6)
}
