package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"BrandMonitor/internal/config"
	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/infrastructure/ratelimit"
	"BrandMonitor/internal/provider"
)

func testLimiter() *ratelimit.Limiter {
	return ratelimit.New(time.Microsecond)
}

func TestCompleteNotConfigured(t *testing.T) {
	t.Parallel()

	c := NewOpenRouter(config.AIConfig{}, testLimiter())
	if _, err := c.Complete(context.Background(), "hi"); !errors.Is(err, provider.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestCompleteReturnsMessageContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload["model"] != "openai/gpt-4o-mini" {
			t.Errorf("unexpected model %v", payload["model"])
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"the reply"}}]}`)
	}))
	defer server.Close()

	c := NewOpenRouter(config.AIConfig{APIKey: "key"}, testLimiter())
	c.endpoint = server.URL
	c.client = server.Client()

	reply, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if reply != "the reply" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer server.Close()

	c := NewPerplexity(config.AIConfig{APIKey: "key"}, testLimiter())
	c.endpoint = server.URL
	c.client = server.Client()

	if _, err := c.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	t.Parallel()

	reply := "Positive"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"choices":[{"message":{"content":"%s"}}]}`, reply)
	}))
	defer server.Close()

	c := NewOpenRouter(config.AIConfig{APIKey: "key"}, testLimiter())
	c.endpoint = server.URL
	c.client = server.Client()

	if got := c.AnalyzeSentiment(context.Background(), "we love it"); got != domain.SentimentPositive {
		t.Fatalf("expected positive, got %s", got)
	}

	reply = "I think it is somewhat mixed"
	if got := c.AnalyzeSentiment(context.Background(), "meh"); got != domain.SentimentNeutral {
		t.Fatalf("unexpected reply must degrade to neutral, got %s", got)
	}

	unconfigured := NewOpenRouter(config.AIConfig{}, testLimiter())
	if got := unconfigured.AnalyzeSentiment(context.Background(), "text"); got != domain.SentimentNeutral {
		t.Fatalf("missing credentials must degrade to neutral, got %s", got)
	}
}

func TestMentionProviderSearchCleansResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"[{\"title\":\"Good\",\"url\":\"https://real.org/page\",\"relevance_score\":0.9},{\"title\":\"Placeholder\",\"url\":\"https://example.com/fake\",\"relevance_score\":0.9},{\"title\":\"Bare\",\"url\":\"real.org\",\"relevance_score\":0.4}]"}}]}`)
	}))
	defer server.Close()

	chat := NewOpenRouter(config.AIConfig{APIKey: "key"}, testLimiter())
	chat.endpoint = server.URL
	chat.client = server.Client()

	p := NewMentionProvider(chat)
	results, err := p.Search(context.Background(), provider.Query{ClientName: "Acme", MaxResults: 10})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected placeholder host dropped, got %d results", len(results))
	}
	if results[0].URL != "https://real.org/page" {
		t.Fatalf("unexpected first url %q", results[0].URL)
	}
	if results[1].URL != "https://real.org" {
		t.Fatalf("bare domain must be normalized, got %q", results[1].URL)
	}
	if results[1].Source != "real.org" {
		t.Fatalf("missing source must fall back to host, got %q", results[1].Source)
	}
}
