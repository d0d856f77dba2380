// Package cfg holds the process configuration for the grievd server.
package cfg

import (
	"errors"
	"flag"
	"fmt"
)

// Config carries every runtime knob of the server. Fields are populated from
// flags and GRIEVD_-prefixed environment variables.
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	APIBearerToken        string
	DatabaseURL           string
	NLPProvider           string
	ClaudeAPIKey          string
	ClaudeModel           string
	OpenAIAPIKey          string
	OpenAIModel           string
	NLPRPS                float64
	SimilarityThreshold   float64
	EnrichTimeoutSeconds  int
	SlackWebhookURL       string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.APIBearerToken, "api-bearer-token", "", "bearer token required on API requests (empty = no auth)")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL (empty = in-memory store)")
	fs.StringVar(&c.NLPProvider, "nlp-provider", "", "entity extraction provider: claude, openai, or empty to disable enrichment")
	fs.StringVar(&c.ClaudeAPIKey, "claude-api-key", "", "API key for the Claude entity extraction provider")
	fs.StringVar(&c.ClaudeModel, "claude-model", "", "Claude model override (empty = provider default)")
	fs.StringVar(&c.OpenAIAPIKey, "openai-api-key", "", "API key for the OpenAI entity extraction provider")
	fs.StringVar(&c.OpenAIModel, "openai-model", "", "OpenAI model override (empty = provider default)")
	fs.Float64Var(&c.NLPRPS, "nlp-rps", 2, "max entity extraction requests per second (0 < rps <= 50)")
	fs.Float64Var(&c.SimilarityThreshold, "similarity-threshold", 0.7, "cosine similarity at or above which a grievance counts as a duplicate (0..1]")
	fs.IntVar(&c.EnrichTimeoutSeconds, "enrich-timeout-seconds", 30, "seconds allowed per enrichment call (1..120)")
	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for high urgency notifications")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	switch c.NLPProvider {
	case "", "claude", "anthropic", "openai":
	default:
		errs = append(errs, fmt.Errorf("invalid NLP_PROVIDER %q (must be claude, anthropic, openai, or empty)", c.NLPProvider))
	}

	// Provider keys are required only when the matching provider is selected.
	switch c.NLPProvider {
	case "claude", "anthropic":
		if c.ClaudeAPIKey == "" {
			errs = append(errs, errors.New("CLAUDE_API_KEY is required when NLP_PROVIDER is claude"))
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required when NLP_PROVIDER is openai"))
		}
	}

	if c.NLPRPS <= 0 || c.NLPRPS > 50 {
		errs = append(errs, fmt.Errorf("invalid NLP_RPS %g (must be in (0, 50])", c.NLPRPS))
	}

	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("invalid SIMILARITY_THRESHOLD %g (must be in (0, 1])", c.SimilarityThreshold))
	}

	if c.EnrichTimeoutSeconds <= 0 || c.EnrichTimeoutSeconds > 120 {
		errs = append(errs, fmt.Errorf("invalid ENRICH_TIMEOUT_SECONDS %d (must be 1..120)", c.EnrichTimeoutSeconds))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
