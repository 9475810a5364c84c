package aiml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/zatekoja/learnplan/internal/domain/providers"
	"github.com/zatekoja/learnplan/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.aimlapi.com/v1"
	defaultModel   = "perplexity/sonar-pro"
	maxBodyBytes   = 4 << 20
)

// ErrRateLimited is reported when the local limiter denies a call
var ErrRateLimited = errors.New("aiml: rate limit exceeded")

// Client sends plan prompts to an OpenAI-compatible chat completions endpoint.
// Every call is a single attempt; failures are reported as result outcomes.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[string]
}

// NewClient creates a new gateway client
func NewClient(cfg *config.AIMLConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("aiml api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	failures := cfg.BreakerFailures
	if failures <= 0 {
		failures = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = time.Minute
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		limiter:    newLimiter(cfg.RateLimitRPM, cfg.RateLimitBurst),
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:    "aiml",
			Timeout: cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(failures)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("AI gateway circuit breaker state changed")
			},
		}),
	}, nil
}

// newLimiter returns nil (unlimited) for a negative rpm
func newLimiter(rpm, burst int) *rate.Limiter {
	if rpm == 0 {
		rpm = 60
	}
	if rpm < 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

var _ providers.SuggestionProvider = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	MaxTokens        int           `json:"max_tokens"`
	TopK             int           `json:"top_k"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Suggest sends prompt and decodes the suggested resources
func (c *Client) Suggest(ctx context.Context, prompt string) providers.SuggestionResult {
	start := time.Now()

	if c.limiter != nil && !c.limiter.Allow() {
		recordSuggestMetric(ctx, c.model, providers.SuggestionExternalFailure, 0, 0)
		return providers.ExternalFailure(ErrRateLimited)
	}

	statusCode := 0
	content, err := c.breaker.Execute(func() (string, error) {
		text, code, err := c.complete(ctx, prompt)
		statusCode = code
		return text, err
	})
	if err != nil {
		recordSuggestMetric(ctx, c.model, providers.SuggestionExternalFailure, statusCode, time.Since(start))
		return providers.ExternalFailure(err)
	}

	suggestions, err := ParseSuggestions(content)
	if err != nil {
		recordSuggestMetric(ctx, c.model, providers.SuggestionParseFailure, statusCode, time.Since(start))
		return providers.ParseFailure(err)
	}

	recordSuggestMetric(ctx, c.model, providers.SuggestionOK, statusCode, time.Since(start))
	return providers.SuggestionResult{Outcome: providers.SuggestionOK, Suggestions: suggestions}
}

// complete performs one chat completion and returns the first message content
func (c *Client) complete(ctx context.Context, prompt string) (string, int, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:      0.3,
		TopP:             0.7,
		FrequencyPenalty: 1,
		MaxTokens:        2000,
		TopK:             50,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp.StatusCode, fmt.Errorf("aiml request failed with status %d", resp.StatusCode)
	}

	var envelope chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&envelope); err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to decode aiml response: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return "", resp.StatusCode, errors.New("aiml response has no choices")
	}
	return envelope.Choices[0].Message.Content, resp.StatusCode, nil
}

type gatewayMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
}

var (
	gatewayMetricsOnce sync.Once
	gatewayMetricsInst *gatewayMetrics
)

func ensureGatewayMetrics() *gatewayMetrics {
	gatewayMetricsOnce.Do(func() {
		meter := otel.Meter("github.com/zatekoja/learnplan/aiml")

		requestCount, err := meter.Int64Counter(
			"ai.gateway.request.count",
			metric.WithDescription("Number of AI gateway requests"),
		)
		if err != nil {
			return
		}
		requestDuration, err := meter.Float64Histogram(
			"ai.gateway.request.duration",
			metric.WithDescription("AI gateway request duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		requestErrors, err := meter.Int64Counter(
			"ai.gateway.request.errors",
			metric.WithDescription("Number of failed AI gateway requests"),
		)
		if err != nil {
			return
		}

		gatewayMetricsInst = &gatewayMetrics{
			requestCount:    requestCount,
			requestDuration: requestDuration,
			requestErrors:   requestErrors,
		}
	})
	return gatewayMetricsInst
}

func recordSuggestMetric(ctx context.Context, model string, outcome providers.SuggestionOutcome, statusCode int, duration time.Duration) {
	m := ensureGatewayMetrics()
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "aiml"),
		attribute.String("ai.model", model),
		attribute.String("ai.outcome", string(outcome)),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	m.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if outcome != providers.SuggestionOK {
		m.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
