package nlp

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIRecognizer extracts entities with the OpenAI chat completions API,
// forcing JSON-object output.
type OpenAIRecognizer struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewOpenAI creates an OpenAI-backed recognizer.
func NewOpenAI(apiKey, model string, rps float64) *OpenAIRecognizer {
	if model == "" {
		model = defaultOpenAIModel
	}
	if rps <= 0 {
		rps = defaultRPS
	}
	return &OpenAIRecognizer{
		client:  openai.NewClient(apiKey),
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		breaker: newExtractBreaker("openai-ner"),
	}
}

// Name identifies the provider.
func (o *OpenAIRecognizer) Name() string { return "openai" }

// Extract runs NER over the text and returns the labeled spans.
func (o *OpenAIRecognizer) Extract(ctx context.Context, text string) ([]Entity, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("openai: rate limit wait: %w", err)
	}

	out, err := o.breaker.Execute(func() (any, error) {
		return o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}

	resp := out.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty response")
	}

	entities, err := ParseEntities(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return entities, nil
}
