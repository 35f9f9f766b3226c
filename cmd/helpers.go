package cmd

import (
	"fmt"
	"os"

	"memchat/internal/config"
	"memchat/internal/db"
	"memchat/internal/embeddings"
	"memchat/internal/engine"
	"memchat/internal/llm"
	"memchat/internal/recall"
	"memchat/internal/session"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `memchat init` to create a config file", err)
	}
	return cfg, nil
}

// createLLMProviderFromConfig creates an LLM provider based on config
// settings, rate limited when requests_per_minute is set.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	return llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute), nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
// This is the shared version used by the chat, serve, mcp, and sessions
// search commands for recall.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.DefaultEmbeddingModel(provider)
	}

	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(model, 768, ""), nil
	default:
		// For providers without native embeddings, fall back to OpenAI.
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required (used for embeddings when provider is %s)", provider)
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	}
}

// openSessionStore opens the SQLite-backed session store under the data dir.
// The returned DB must be closed by the caller.
func openSessionStore(cfg *config.Config) (session.Store, *db.DB, error) {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return session.NewSQLiteStore(database), database, nil
}

// buildEngine assembles the engine every surface runs on: SQLite-backed
// store, rate-limited provider, and the recall index when enabled.
func buildEngine(cfg *config.Config) (*engine.Engine, *db.DB, error) {
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	store, database, err := openSessionStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(store, provider, engine.Options{
		Model:                    cfg.Model,
		TokenThreshold:           cfg.TokenThreshold,
		MaxClarificationAttempts: cfg.MaxClarifications,
	})

	attachRecall(cfg, eng)
	return eng, database, nil
}

// attachRecall wires the recall index into the engine when enabled. A
// missing embedder disables recall with a single warning instead of
// failing the command.
func attachRecall(cfg *config.Config, eng *engine.Engine) {
	if !cfg.Recall.Enabled {
		return
	}
	ix, err := openRecallIndex(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: recall disabled: %v\n", err)
		return
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Recall index attached (%d facts)\n", ix.Count())
	}
	eng.SetRecall(ix)
}

// openRecallIndex opens the persisted recall index for indexing or search.
func openRecallIndex(cfg *config.Config) (*recall.Index, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return recall.Open(cfg.RecallPath(), embedder)
}
