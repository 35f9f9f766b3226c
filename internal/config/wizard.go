package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .memchat.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to memchat! Let's configure your assistant.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"groq", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Chat model.
	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: DefaultModel(provider),
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Data directory.
	dataDirPrompt := promptui.Prompt{
		Label:   "Data directory for session storage",
		Default: ".memchat",
	}
	dataDir, err := dataDirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 4. Token threshold that triggers summarization.
	thresholdPrompt := promptui.Prompt{
		Label:    "Token threshold before summarization",
		Default:  "800",
		Validate: validatePositiveInt,
	}
	thresholdStr, err := thresholdPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("token threshold: %w", err)
	}
	threshold, _ := strconv.Atoi(thresholdStr)

	// 5. Cross-session recall.
	recallPrompt := promptui.Select{
		Label: "Enable cross-session recall (needs an embedding provider)",
		Items: []string{"no", "yes"},
	}
	recallIdx, _, err := recallPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("recall selection: %w", err)
	}

	// Build the config.
	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = model
	cfg.EmbeddingProvider = embeddingProviderFor(provider)
	cfg.EmbeddingModel = DefaultEmbeddingModel(cfg.EmbeddingProvider)
	cfg.DataDir = dataDir
	cfg.TokenThreshold = threshold
	cfg.Recall.Enabled = recallIdx == 1

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running memchat chat.\n", envVar)
		}
	}

	// Save to .memchat.yml.
	configPath := ".memchat.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// embeddingProviderFor returns the default embedding provider for a given
// LLM provider. Groq hosts no embedding models, so OpenAI serves cloud setups.
func embeddingProviderFor(p ProviderType) ProviderType {
	if p == ProviderOllama {
		return ProviderOllama
	}
	return ProviderOpenAI
}

// validatePositiveInt rejects input that is not a positive integer.
func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
