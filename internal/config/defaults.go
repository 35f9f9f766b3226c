package config

// defaultModels maps each provider to the chat model used when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderGroq:   "llama-3.1-8b-instant",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3",
}

// defaultEmbeddingModels maps each embedding-capable provider to its model.
var defaultEmbeddingModels = map[ProviderType]string{
	ProviderOpenAI: "text-embedding-3-small",
	ProviderOllama: "nomic-embed-text",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGroq,
		Model:             defaultModels[ProviderGroq],
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    defaultEmbeddingModels[ProviderOpenAI],
		DataDir:           ".memchat",
		TokenThreshold:    800,
		MaxClarifications: 1,
		Server: ServerConfig{
			Port: 8080,
		},
		Recall: RecallConfig{
			Enabled: false,
		},
	}
}

// DefaultModel returns the default chat model for the given provider.
// Returns the Groq default if the provider is not recognized.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderGroq]
}

// DefaultEmbeddingModel returns the default embedding model for the given
// provider. Groq hosts no embedding models, so unknown providers fall back
// to OpenAI's.
func DefaultEmbeddingModel(provider ProviderType) string {
	if m, ok := defaultEmbeddingModels[provider]; ok {
		return m
	}
	return defaultEmbeddingModels[ProviderOpenAI]
}
