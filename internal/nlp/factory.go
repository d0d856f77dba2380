package nlp

import (
	"fmt"
	"strings"
)

// Config selects and parameterizes the entity-recognizer provider.
type Config struct {
	// Provider name: "claude", "openai", or "" (enrichment disabled).
	Provider string

	ClaudeAPIKey string
	ClaudeModel  string

	OpenAIAPIKey string
	OpenAIModel  string

	// RPS limits recognizer calls per second.
	RPS float64
}

// NewRecognizer returns the configured recognizer. A nil, nil return means no
// provider is configured: enrichment is disabled for the process lifetime.
func NewRecognizer(cfg Config) (Recognizer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "claude", "anthropic":
		if cfg.ClaudeAPIKey == "" {
			return nil, fmt.Errorf("nlp provider %q requires an API key", cfg.Provider)
		}
		return NewClaude(cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.RPS), nil

	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("nlp provider %q requires an API key", cfg.Provider)
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.RPS), nil

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown nlp provider %q (supported: claude, openai)", cfg.Provider)
	}
}
