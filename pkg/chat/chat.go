// Package chat holds the conversation state for one client connection:
// an ordered, append-only message log and the contract to the external
// text-generation service.
package chat

import (
	"context"
	"errors"
)

// ErrGeneration indicates the text-generation call failed. The session log
// is guaranteed untouched when this is returned.
var ErrGeneration = errors.New("generation service failure")

// Role is the closed set of message authors.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one immutable entry in the conversation log.
type Message struct {
	Role    Role
	Content string
}

// SystemMessage constructs a system-role message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage constructs a user-role message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage constructs an assistant-role message.
func AssistantMessage(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// LLM is the text-generation collaborator: ordered messages in, one
// assistant reply out.
type LLM interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
