package llm

import (
	openai "github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// DefaultGroqModel is used when no model is configured.
const DefaultGroqModel = "llama-3.1-8b-instant"

// GroqProvider implements Provider against the Groq API, which speaks the
// OpenAI chat protocol on its own base URL.
type GroqProvider struct {
	chatAPI
}

// NewGroqProvider creates a new Groq provider.
func NewGroqProvider(apiKey string, model string) *GroqProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	if model == "" {
		model = DefaultGroqModel
	}
	return &GroqProvider{chatAPI{
		client: openai.NewClientWithConfig(cfg),
		name:   "groq",
		model:  model,
	}}
}
