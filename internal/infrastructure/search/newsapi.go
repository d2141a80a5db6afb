package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"BrandMonitor/internal/config"
	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/infrastructure/ratelimit"
	"BrandMonitor/internal/provider"
	"BrandMonitor/internal/urlutil"
)

const (
	newsAPIEndpoint       = "https://newsapi.org/v2/everything"
	newsAPIWindow         = 30 * 24 * time.Hour
	newsAPIMaxPageSize    = 100
	newsAPIRelevanceScore = 0.85
)

// NewsAPI fetches recent articles in a single date-bounded call.
type NewsAPI struct {
	apiKey   string
	endpoint string
	client   *http.Client
	limiter  *ratelimit.Limiter
	now      func() time.Time
}

var _ provider.Provider = (*NewsAPI)(nil)

// NewNewsAPI wires the API key and the shared rate limiter.
func NewNewsAPI(cfg config.NewsAPIConfig, limiter *ratelimit.Limiter) *NewsAPI {
	return &NewsAPI{
		apiKey:   cfg.APIKey,
		endpoint: newsAPIEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  limiter,
		now:      time.Now,
	}
}

// Name identifies the adapter inside the registry.
func (n *NewsAPI) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Search returns relevance-sorted articles from the last 30 days.
func (n *NewsAPI) Search(ctx context.Context, q provider.Query) ([]domain.Candidate, error) {
	if n.apiKey == "" {
		return nil, fmt.Errorf("newsapi: %w", provider.ErrNotConfigured)
	}

	pageSize := q.MaxResults
	if pageSize > newsAPIMaxPageSize {
		pageSize = newsAPIMaxPageSize
	}

	// NewsAPI handles plain OR-joined terms better than quoted phrases.
	terms := q.ClientName + " " + strings.ReplaceAll(q.Keywords, ",", " OR ")

	values := url.Values{}
	values.Set("apiKey", n.apiKey)
	values.Set("q", terms)
	values.Set("language", "en")
	values.Set("sortBy", "relevancy")
	values.Set("pageSize", strconv.Itoa(pageSize))
	values.Set("from", n.now().Add(-newsAPIWindow).Format("2006-01-02"))

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request articles: %w", err)
	}
	defer resp.Body.Close()

	var payload newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || payload.Status != "ok" {
		msg := payload.Message
		if msg == "" {
			msg = "unknown newsapi error"
		}
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, msg)
	}

	results := make([]domain.Candidate, 0, len(payload.Articles))
	for _, article := range payload.Articles {
		link := urlutil.Normalize(article.URL)
		if link == "" {
			continue
		}

		title := article.Title
		if title == "" {
			title = "Untitled"
		}
		source := article.Source.Name
		if source == "" {
			source = urlutil.Host(link)
		}

		results = append(results, domain.Candidate{
			Title:          title,
			URL:            link,
			Content:        article.Description,
			Source:         source,
			Type:           domain.TypeNews,
			Sentiment:      domain.SentimentNeutral,
			RelevanceScore: newsAPIRelevanceScore,
		})
		if len(results) >= q.MaxResults {
			break
		}
	}

	return results, nil
}
