package llm

import (
	"fmt"
	"os"
)

// NewProvider creates an LLM provider from a provider type and model name.
// Supported provider types: "groq", "openai", "ollama". Missing credentials
// are reported as a *ConfigError so callers know not to retry.
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "groq":
		apiKey := os.Getenv("GROQ_API_KEY")
		if apiKey == "" {
			return nil, &ConfigError{Reason: "GROQ_API_KEY environment variable is not set"}
		}
		return NewGroqProvider(apiKey, model), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, &ConfigError{Reason: "OPENAI_API_KEY environment variable is not set"}
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
