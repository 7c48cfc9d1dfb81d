package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/sentinel/internal/model"
)

// endpoint holds the defaults for a known OpenAI-compatible service
type endpoint struct {
	baseURL string
	model   string
	keyEnv  string
}

var endpoints = map[string]endpoint{
	"openai":   {model: "gpt-4o-mini", keyEnv: "OPENAI_API_KEY"},
	"deepseek": {baseURL: "https://api.deepseek.com/v1", model: "deepseek-chat", keyEnv: "DEEPSEEK_API_KEY"},
	"ollama":   {baseURL: "http://localhost:11434/v1", model: "llama3.1"},
}

// NewProvider creates a provider from configuration.
// An empty provider name disables the advisor and returns nil, nil.
func NewProvider(config Config) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(config.Provider))
	if name == "" {
		return nil, nil
	}

	ep, ok := endpoints[name]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, deepseek, ollama)", config.Provider)
	}

	config.Provider = name
	if config.BaseURL == "" {
		config.BaseURL = ep.baseURL
	}
	if config.Model == "" {
		config.Model = ep.model
	}
	if config.APIKey == "" && ep.keyEnv != "" {
		config.APIKey = os.Getenv(ep.keyEnv)
	}
	if config.APIKey == "" && name == "ollama" {
		// Ollama ignores the key but the client sends one
		config.APIKey = "ollama"
	}

	return NewOpenAIProvider(config)
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:    c.Provider,
		Model:       c.Model,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Timeout:     c.Timeout,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		HTTPProxy:   c.HTTPProxy,
		HTTPSProxy:  c.HTTPSProxy,
		NoProxy:     c.NoProxy,
	}
}

func providerLabel(name string) string {
	switch strings.ToLower(name) {
	case "deepseek":
		return "DeepSeek"
	case "ollama":
		return "Ollama"
	default:
		return "OpenAI"
	}
}
