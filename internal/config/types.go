package config

import "path/filepath"

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderGroq   ProviderType = "groq"
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level memchat configuration, corresponding to .memchat.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	TokenThreshold    int          `yaml:"token_threshold" koanf:"token_threshold"`
	MaxClarifications int          `yaml:"max_clarifications" koanf:"max_clarifications"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	Server            ServerConfig `yaml:"server" koanf:"server"`
	Recall            RecallConfig `yaml:"recall" koanf:"recall"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// RecallConfig controls the cross-session recall index.
type RecallConfig struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`
}

// DatabasePath returns the session database location under the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "memchat.db")
}

// RecallPath returns the persisted recall index location under the data directory.
func (c *Config) RecallPath() string {
	return filepath.Join(c.DataDir, "recall.gob.gz")
}
