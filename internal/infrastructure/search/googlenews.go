package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"BrandMonitor/internal/config"
	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/infrastructure/ratelimit"
	"BrandMonitor/internal/provider"
	"BrandMonitor/internal/urlutil"
)

const (
	googleNewsEndpoint       = "https://news.google.com/rss/search"
	googleNewsWindow         = 30 * 24 * time.Hour
	googleNewsRelevanceScore = 0.7
)

// GoogleNews searches the keyless Google News RSS feed. It is the only source
// that works without paid credentials, so it stays enabled by default.
type GoogleNews struct {
	language string
	country  string
	endpoint string
	parser   *gofeed.Parser
	limiter  *ratelimit.Limiter
	now      func() time.Time
}

var _ provider.Provider = (*GoogleNews)(nil)

// NewGoogleNews wires the feed parser and the shared rate limiter.
func NewGoogleNews(cfg config.GoogleNewsConfig, limiter *ratelimit.Limiter) *GoogleNews {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 20 * time.Second}
	parser.UserAgent = "BrandMonitor/1.0"

	language := cfg.Language
	if language == "" {
		language = "en-US"
	}
	country := cfg.Country
	if country == "" {
		country = "US"
	}

	return &GoogleNews{
		language: language,
		country:  country,
		endpoint: googleNewsEndpoint,
		parser:   parser,
		limiter:  limiter,
		now:      time.Now,
	}
}

// Name identifies the adapter inside the registry.
func (g *GoogleNews) Name() string { return "googlenews" }

// Search fetches the RSS search feed and keeps items from the last 30 days.
func (g *GoogleNews) Search(ctx context.Context, q provider.Query) ([]domain.Candidate, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	values := url.Values{}
	values.Set("q", q.SearchTerms())
	values.Set("hl", g.language)
	values.Set("gl", g.country)
	values.Set("ceid", g.country+":"+languageCode(g.language))

	feed, err := g.parser.ParseURLWithContext(g.endpoint+"?"+values.Encode(), ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	cutoff := g.now().Add(-googleNewsWindow)
	results := make([]domain.Candidate, 0, q.MaxResults)
	for _, item := range feed.Items {
		if len(results) >= q.MaxResults {
			break
		}
		if item.PublishedParsed != nil && item.PublishedParsed.Before(cutoff) {
			continue
		}

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
			Content:        item.Description,
			Source:         urlutil.Host(link),
			Type:           domain.TypeNews,
			Sentiment:      domain.SentimentNeutral,
			RelevanceScore: googleNewsRelevanceScore,
		})
	}

	return results, nil
}

// languageCode reduces "en-US" to the "en" the ceid parameter expects.
func languageCode(language string) string {
	for i := range language {
		if language[i] == '-' {
			return language[:i]
		}
	}
	return language
}
