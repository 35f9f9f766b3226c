package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// envKey maps an override variable to its config key, so MEMCHAT_PROVIDER
// becomes provider and MEMCHAT_SERVER__PORT becomes server.port.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "MEMCHAT_"))
	return strings.ReplaceAll(s, "__", ".")
}

// Load reads configuration from the given YAML file, then overlays
// MEMCHAT_* environment variable overrides. A missing file is not an
// error; defaults apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("access config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("MEMCHAT_", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderGroq:   true,
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// validEmbeddingProviders is the subset of providers that can serve embeddings.
var validEmbeddingProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of groq, openai, ollama", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.EmbeddingProvider != "" && !validEmbeddingProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be one of openai, ollama", c.EmbeddingProvider)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.TokenThreshold <= 0 {
		return fmt.Errorf("token_threshold must be positive")
	}

	if c.MaxClarifications < 1 {
		return fmt.Errorf("max_clarifications must be at least 1")
	}

	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be non-negative")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderGroq:
		return "GROQ_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
