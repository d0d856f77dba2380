package nlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	defaultClaudeModel = "claude-sonnet-4-20250514"
	extractMaxTokens   = 1024
	defaultRPS         = 2
)

// ClaudeRecognizer extracts entities with the Anthropic Messages API.
// Calls are rate-limited and pass through a circuit breaker; an open breaker
// fails single enrichments, it never disables the provider.
type ClaudeRecognizer struct {
	client  anthropic.Client
	model   string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewClaude creates a Claude-backed recognizer.
func NewClaude(apiKey, model string, rps float64) *ClaudeRecognizer {
	if model == "" {
		model = defaultClaudeModel
	}
	if rps <= 0 {
		rps = defaultRPS
	}
	return &ClaudeRecognizer{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		breaker: newExtractBreaker("claude-ner"),
	}
}

// Name identifies the provider.
func (c *ClaudeRecognizer) Name() string { return "claude" }

// Extract runs NER over the text and returns the labeled spans.
func (c *ClaudeRecognizer) Extract(ctx context.Context, text string) ([]Entity, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("claude: rate limit wait: %w", err)
	}

	out, err := c.breaker.Execute(func() (any, error) {
		return c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(c.model),
			MaxTokens: extractMaxTokens,
			System:    []anthropic.TextBlockParam{{Text: extractSystemPrompt}},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("claude: messages: %w", err)
	}

	msg := out.(*anthropic.Message)
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	entities, err := ParseEntities(sb.String())
	if err != nil {
		return nil, fmt.Errorf("claude: %w", err)
	}
	return entities, nil
}

// newExtractBreaker trips after 5 consecutive failures and probes again
// after its default 60s open period.
func newExtractBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}
