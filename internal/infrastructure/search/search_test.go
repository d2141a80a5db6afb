package search

import (
	"context"
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

func TestGoogleSearchNotConfigured(t *testing.T) {
	t.Parallel()

	g := NewGoogleSearch(config.GoogleConfig{}, testLimiter(), nil)
	_, err := g.Search(context.Background(), provider.Query{ClientName: "Acme", MaxResults: 10})
	if !errors.Is(err, provider.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestGoogleSearchPaginates(t *testing.T) {
	t.Parallel()

	var starts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		starts = append(starts, r.URL.Query().Get("start"))
		if q := r.URL.Query().Get("q"); q != `"Acme" OR "widgets"` {
			t.Errorf("unexpected query %q", q)
		}
		start := r.URL.Query().Get("start")
		fmt.Fprintf(w, `{"items":[
			{"title":"Hit %s a","link":"https://site-%s.org/news/a","snippet":"story"},
			{"title":"Hit %s b","link":"https://site-%s.org/news/b","snippet":"story"}
		]}`, start, start, start, start)
	}))
	defer server.Close()

	g := NewGoogleSearch(config.GoogleConfig{APIKey: "k", SearchEngineID: "cx"}, testLimiter(), nil)
	g.endpoint = server.URL
	g.client = server.Client()

	results, err := g.Search(context.Background(), provider.Query{
		ClientName: "Acme",
		Keywords:   "widgets",
		MaxResults: 15,
	})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if len(starts) != 2 || starts[0] != "1" || starts[1] != "11" {
		t.Fatalf("unexpected pagination starts: %v", starts)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(results))
	}
	if results[0].Type != domain.TypeNews {
		t.Fatalf("expected news type from /news/ path, got %s", results[0].Type)
	}
	if results[0].RelevanceScore != 0.8 {
		t.Fatalf("unexpected relevance %v", results[0].RelevanceScore)
	}
}

func TestGoogleSearchSkipsFailedPage(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
			return
		}
		fmt.Fprint(w, `{"items":[{"title":"ok","link":"https://site.org/a","snippet":""}]}`)
	}))
	defer server.Close()

	g := NewGoogleSearch(config.GoogleConfig{APIKey: "k", SearchEngineID: "cx"}, testLimiter(), nil)
	g.endpoint = server.URL
	g.client = server.Client()

	results, err := g.Search(context.Background(), provider.Query{ClientName: "Acme", MaxResults: 20})
	if err != nil {
		t.Fatalf("a failed page must not fail the search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected the second page's result, got %d", len(results))
	}
}

func TestNewsAPISearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sortBy") != "relevancy" {
			t.Errorf("expected relevancy sort, got %q", r.URL.Query().Get("sortBy"))
		}
		if r.URL.Query().Get("from") == "" {
			t.Error("expected date-bounded query")
		}
		fmt.Fprint(w, `{"status":"ok","articles":[
			{"title":"Launch","description":"Acme launches","url":"https://paper.org/story","source":{"name":"The Paper"}},
			{"title":"","description":"","url":"not a url","source":{}}
		]}`)
	}))
	defer server.Close()

	n := NewNewsAPI(config.NewsAPIConfig{APIKey: "k"}, testLimiter())
	n.endpoint = server.URL
	n.client = server.Client()

	results, err := n.Search(context.Background(), provider.Query{ClientName: "Acme", MaxResults: 10})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 candidate after dropping the invalid URL, got %d", len(results))
	}
	if results[0].Type != domain.TypeNews || results[0].Source != "The Paper" {
		t.Fatalf("unexpected candidate: %+v", results[0])
	}
}

func TestNewsAPIStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"error","message":"apiKeyInvalid"}`)
	}))
	defer server.Close()

	n := NewNewsAPI(config.NewsAPIConfig{APIKey: "bad"}, testLimiter())
	n.endpoint = server.URL
	n.client = server.Client()

	if _, err := n.Search(context.Background(), provider.Query{ClientName: "Acme", MaxResults: 10}); err == nil {
		t.Fatal("expected error for rejected key")
	}

	empty := NewNewsAPI(config.NewsAPIConfig{}, testLimiter())
	if _, err := empty.Search(context.Background(), provider.Query{MaxResults: 5}); !errors.Is(err, provider.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestGoogleNewsSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ceid") != "US:en" {
			t.Errorf("unexpected ceid %q", r.URL.Query().Get("ceid"))
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>search</title>
<item><title>Fresh mention</title><link>https://paper.org/fresh</link><pubDate>%s</pubDate><description>Acme in the news</description></item>
<item><title>Stale mention</title><link>https://paper.org/stale</link><pubDate>%s</pubDate><description>old</description></item>
</channel></rss>`,
			time.Now().Add(-24*time.Hour).Format(time.RFC1123Z),
			time.Now().Add(-90*24*time.Hour).Format(time.RFC1123Z))
	}))
	defer server.Close()

	g := NewGoogleNews(config.GoogleNewsConfig{Enabled: true}, testLimiter())
	g.endpoint = server.URL
	g.parser.Client = server.Client()

	results, err := g.Search(context.Background(), provider.Query{ClientName: "Acme", MaxResults: 10})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected only the fresh item, got %d", len(results))
	}
	if results[0].Title != "Fresh mention" || results[0].Source != "paper.org" {
		t.Fatalf("unexpected candidate: %+v", results[0])
	}
}
