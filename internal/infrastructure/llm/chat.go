// Package llm adapts OpenAI-compatible chat-completion APIs into mention
// providers. The free-text replies are untrusted and go through the fallback
// parser in parse.go before anything reaches the aggregator.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"BrandMonitor/internal/config"
	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/infrastructure/ratelimit"
	"BrandMonitor/internal/provider"
)

const (
	openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	perplexityEndpoint = "https://api.perplexity.ai/chat/completions"

	openRouterDefaultModel = "openai/gpt-4o-mini"
	perplexityDefaultModel = "sonar-pro"
)

// ChatClient talks to one chat-completion endpoint. The two provider flavors
// differ only in endpoint, model and request extras, not in contract.
type ChatClient struct {
	name        string
	endpoint    string
	model       string
	apiKey      string
	maxTokens   int
	temperature float64
	system      string
	extras      map[string]any
	client      *http.Client
	limiter     *ratelimit.Limiter
}

// NewOpenRouter builds a client for the cheap general model.
func NewOpenRouter(cfg config.AIConfig, limiter *ratelimit.Limiter) *ChatClient {
	model := cfg.Model
	if model == "" {
		model = openRouterDefaultModel
	}
	return &ChatClient{
		name:        "openrouter",
		endpoint:    openRouterEndpoint,
		model:       model,
		apiKey:      cfg.APIKey,
		maxTokens:   4000,
		temperature: 0.3,
		client:      &http.Client{Timeout: 60 * time.Second},
		limiter:     limiter,
	}
}

// NewPerplexity builds a client for the model with built-in web search.
func NewPerplexity(cfg config.AIConfig, limiter *ratelimit.Limiter) *ChatClient {
	model := cfg.Model
	if model == "" {
		model = perplexityDefaultModel
	}
	return &ChatClient{
		name:        "perplexity",
		endpoint:    perplexityEndpoint,
		model:       model,
		apiKey:      cfg.APIKey,
		maxTokens:   1500,
		temperature: 0.2,
		system:      "You are a precise, concise assistant. When asked to return structured data, output strict JSON only.",
		extras: map[string]any{
			"search_recency_filter": "month",
			"web_search_options":    map[string]any{"search_context_size": "high"},
		},
		client:  &http.Client{Timeout: 60 * time.Second},
		limiter: limiter,
	}
}

// Name identifies the provider flavor.
func (c *ChatClient) Name() string { return c.name }

// Configured reports whether the client has credentials.
func (c *ChatClient) Configured() bool { return c != nil && c.apiKey != "" }

// Complete sends a single-prompt chat completion and returns the raw reply text.
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%s: %w", c.name, provider.ErrNotConfigured)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	messages := []map[string]string{}
	if c.system != "" {
		messages = append(messages, map[string]string{"role": "system", "content": c.system})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	payload := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
	}
	for k, v := range c.extras {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", "Brand Monitor")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := decoded.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return "", fmt.Errorf("%s error (http %d): %s", c.name, resp.StatusCode, msg)
	}

	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("invalid response from %s", c.name)
	}

	return decoded.Choices[0].Message.Content, nil
}

// AnalyzeSentiment asks the model for a one-word tone classification. Any
// failure or unexpected reply degrades to neutral, never to an error.
func (c *ChatClient) AnalyzeSentiment(ctx context.Context, content string) domain.Sentiment {
	prompt := "Analyze the sentiment of this text and respond with only one word: positive, negative, or neutral.\n\nText: " + content

	reply, err := c.Complete(ctx, prompt)
	if err != nil {
		return domain.SentimentNeutral
	}

	switch domain.Sentiment(strings.ToLower(strings.TrimSpace(reply))) {
	case domain.SentimentPositive:
		return domain.SentimentPositive
	case domain.SentimentNegative:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
