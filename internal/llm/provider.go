// Package llm produces the optional document-level risk explanation.
// Providers only ever see rule-based results and never influence scoring.
package llm

import (
	"context"

	"github.com/ppiankov/sentinel/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Explain asks the model to explain a finished rule-based analysis
	Explain(ctx context.Context, req ExplainRequest) (*ExplainResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ExplainRequest contains the input for an explanation
type ExplainRequest struct {
	// Summary is the rule-based document summary
	Summary model.ContractSummary

	// Risk is the aggregated document risk
	Risk model.DocumentRisk

	// Clauses are the scored clauses; only rule-based fields are sent
	Clauses []model.ClauseAnalysis

	// Prompt overrides BuildPrompt when set
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ExplainResponse contains the parsed explanation
type ExplainResponse struct {
	Explanation model.AIExplanation

	// Raw is the unparsed model output
	Raw string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "deepseek", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Timeout:     30,
		MaxTokens:   800,
		Temperature: 0.2,
	}
}
