package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"BrandMonitor/internal/classify"
	"BrandMonitor/internal/config"
	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/infrastructure/ratelimit"
	"BrandMonitor/internal/provider"
	"BrandMonitor/internal/urlutil"
)

const (
	googleEndpoint       = "https://www.googleapis.com/customsearch/v1"
	googlePageSize       = 10 // CSE hard limit per request
	googleRelevanceScore = 0.8
)

// GoogleSearch queries the Google Custom Search API page by page until the
// result budget or the provider's page limit is reached.
type GoogleSearch struct {
	apiKey   string
	engineID string
	endpoint string
	client   *http.Client
	limiter  *ratelimit.Limiter
	logger   *slog.Logger
}

var _ provider.Provider = (*GoogleSearch)(nil)

// NewGoogleSearch wires credentials and the shared rate limiter.
func NewGoogleSearch(cfg config.GoogleConfig, limiter *ratelimit.Limiter, logger *slog.Logger) *GoogleSearch {
	return &GoogleSearch{
		apiKey:   cfg.APIKey,
		engineID: cfg.SearchEngineID,
		endpoint: googleEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  limiter,
		logger:   logger,
	}
}

// Name identifies the adapter inside the registry.
func (g *GoogleSearch) Name() string { return "google" }

// Search paginates recent results for the query. A failed page is logged and
// skipped; it does not abort the remaining pages.
func (g *GoogleSearch) Search(ctx context.Context, q provider.Query) ([]domain.Candidate, error) {
	if g.apiKey == "" || g.engineID == "" {
		return nil, fmt.Errorf("google custom search: %w", provider.ErrNotConfigured)
	}

	terms := q.SearchTerms()
	results := make([]domain.Candidate, 0, q.MaxResults)

	pages := (q.MaxResults + googlePageSize - 1) / googlePageSize
	for page := 0; page < pages && len(results) < q.MaxResults; page++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return results, fmt.Errorf("rate limit: %w", err)
		}

		pageURL := g.pageURL(terms, page, q.MaxResults-len(results))
		items, err := g.fetchPage(ctx, pageURL)
		if err != nil {
			g.warn("google page failed", "page", page, "error", err)
			continue
		}

		for _, item := range items {
			link := urlutil.Normalize(item.Link)
			if link == "" {
				continue
			}

			title := item.Title
			if title == "" {
				title = "Untitled"
			}

			results = append(results, domain.Candidate{
				Title:          title,
				URL:            link,
				Content:        item.Snippet,
				Source:         urlutil.Host(link),
				Type:           classify.Type(link, item.Snippet),
				Sentiment:      domain.SentimentNeutral,
				RelevanceScore: googleRelevanceScore,
			})
			if len(results) >= q.MaxResults {
				break
			}
		}
	}

	return results, nil
}

func (g *GoogleSearch) pageURL(terms string, page, remaining int) string {
	num := googlePageSize
	if remaining < num {
		num = remaining
	}

	values := url.Values{}
	values.Set("key", g.apiKey)
	values.Set("cx", g.engineID)
	values.Set("q", terms)
	values.Set("num", strconv.Itoa(num))
	values.Set("start", strconv.Itoa(page*googlePageSize+1))
	values.Set("dateRestrict", "m1") // last month
	values.Set("safe", "active")

	return g.endpoint + "?" + values.Encode()
}

type googleItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type googleResponse struct {
	Items []googleItem `json:"items"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GoogleSearch) fetchPage(ctx context.Context, pageURL string) ([]googleItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	var payload googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := payload.Error.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, msg)
	}

	return payload.Items, nil
}

func (g *GoogleSearch) warn(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}
