// Package llm abstracts the chat model providers used by the decision
// engine: Groq, OpenAI, and Ollama. All three speak an OpenAI-compatible
// chat completions dialect.
package llm

import "context"

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single message in a completion request.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest carries the parameters of one model call. A zero Model
// uses the provider's configured default, a zero MaxTokens uses the
// provider default cap.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse is the provider-neutral result of a model call.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Provider is implemented by each model backend.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// defaultMaxTokens caps replies when the request does not set a limit.
const defaultMaxTokens = 1024
