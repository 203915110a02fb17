package chat

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel matches the reference deployment.
const DefaultModel = openai.GPT4o

// OpenAILLM implements LLM against the OpenAI chat completions API.
type OpenAILLM struct {
	client *openai.Client
	model  string
}

// NewOpenAILLM creates the adapter. An empty model falls back to
// DefaultModel.
func NewOpenAILLM(apiKey, model string) *OpenAILLM {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAILLM{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Chat sends the ordered message log and returns the assistant reply.
func (o *OpenAILLM) Chat(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, msg := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no chat completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
