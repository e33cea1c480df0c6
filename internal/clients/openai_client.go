package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ecomsight/reviewlens/config"
	"github.com/ecomsight/reviewlens/internal/models"
	"github.com/ecomsight/reviewlens/internal/retry"
)

const (
	openAIRequestTimeout  = 60 * time.Second // Timeout for individual OpenAI API requests
	completionTemperature = 0.7
)

// Generator issues one natural-language prompt at a time to the generation
// service. Downstream packages accept this interface so tests can inject
// fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// OpenAIClient wraps the OpenAI chat-completions API with retry/backoff and
// cumulative usage tracking. Counters are touched only by the single
// sequential execution path, and only on successful calls.
type OpenAIClient struct {
	client *openai.Client
	model  string
	policy retry.Policy

	usage models.UsageStats
}

// NewOpenAIClient builds the client from an explicit Config. A missing
// credential is the fatal startup condition, reported here before any
// request is made.
func NewOpenAIClient(cfg config.Config) (*OpenAIClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	apiCfg.HTTPClient = &http.Client{
		Timeout: openAIRequestTimeout,
	}

	slog.Info("[OpenAIClient] Client ready",
		slog.String("model", cfg.Model),
		slog.Duration("timeout", openAIRequestTimeout))

	return &OpenAIClient{
		client: openai.NewClientWithConfig(apiCfg),
		model:  cfg.Model,
		policy: retry.Policy{
			MaxAttempts:    cfg.MaxAttempts,
			InitialBackoff: cfg.InitialBackoff,
			MaxBackoff:     cfg.MaxBackoff,
			Multiplier:     2,
			Cooldown:       cfg.RateLimitCooldown,
			Classify:       ClassifyOpenAIError,
		},
	}, nil
}

// Generate sends the prompt and returns the service's textual reply.
// Transient failures are retried per the policy; after the final attempt the
// failure propagates to the caller, which decides what it means for the
// chunk or product at hand.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var content string

	err := c.policy.Do(func() error {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens:   maxTokens,
			Temperature: completionTemperature,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("completion returned no choices")
		}

		content = resp.Choices[0].Message.Content
		c.usage.TotalRequests++
		c.usage.TotalTokens += resp.Usage.TotalTokens

		slog.Debug("[OpenAIClient] Response received",
			slog.Int("chars", len(content)),
			slog.Int("total_tokens", resp.Usage.TotalTokens))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	return content, nil
}

// Usage returns a snapshot of cumulative request and token counts for
// end-of-run reporting.
func (c *OpenAIClient) Usage() models.UsageStats {
	return c.usage
}

// ClassifyOpenAIError buckets OpenAI failures for the retry policy: 429 is
// rate limiting, 5xx is a transient upstream problem, every other API error
// (malformed request, bad credential) is fatal. Transport-level errors such
// as timeouts are treated as transient.
func ClassifyOpenAIError(err error) retry.Class {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode)
	}

	return retry.Transient
}

func classifyStatus(status int) retry.Class {
	switch {
	case status == http.StatusTooManyRequests:
		return retry.RateLimited
	case status >= http.StatusInternalServerError:
		return retry.Transient
	default:
		return retry.Fatal
	}
}
