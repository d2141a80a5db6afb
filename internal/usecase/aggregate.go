package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"BrandMonitor/internal/classify"
	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/provider"
	"BrandMonitor/internal/sentiment"
	"BrandMonitor/internal/urlutil"
)

// Aggregator fans a query out to every registered provider and merges the
// answers into one deduplicated candidate list. Provider failures are
// collected, not fatal: one bad source must never sink a scan.
type Aggregator struct {
	registry *provider.Registry
	logger   *slog.Logger
}

// NewAggregator wires the provider registry.
func NewAggregator(registry *provider.Registry, logger *slog.Logger) *Aggregator {
	return &Aggregator{registry: registry, logger: logger}
}

// ProviderCount reports how many providers are registered.
func (a *Aggregator) ProviderCount() int {
	return len(a.registry.All())
}

// Collect queries every provider in registration order and returns the merged
// candidates plus the soft errors encountered along the way. Each provider
// gets an equal share of the result budget; duplicates resolve to whichever
// provider answered first.
func (a *Aggregator) Collect(ctx context.Context, q provider.Query) ([]domain.Candidate, []string) {
	providers := a.registry.All()
	if len(providers) == 0 {
		return nil, nil
	}

	share := (q.MaxResults + len(providers) - 1) / len(providers)
	if share < 1 {
		share = 1
	}

	seen := map[string]bool{}
	var merged []domain.Candidate
	var errs []string

	for _, p := range providers {
		remaining := q.MaxResults - len(merged)
		if remaining <= 0 {
			break
		}

		limit := share
		if limit > remaining {
			limit = remaining
		}

		pq := q
		pq.MaxResults = limit
		candidates, err := p.Search(ctx, pq)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", p.Name(), err))
			a.warn("provider failed", "provider", p.Name(), "error", err)
			continue
		}

		added := 0
		for _, c := range candidates {
			if len(merged) >= q.MaxResults {
				break
			}
			cleaned, ok := a.clean(c)
			if !ok {
				continue
			}
			key := urlutil.Canonicalize(cleaned.URL)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, cleaned)
			added++
		}

		a.debug("provider answered", "provider", p.Name(), "returned", len(candidates), "kept", added)
	}

	return merged, errs
}

// clean normalizes the URL and backfills type and sentiment. Candidates whose
// URL fails the static checks are dropped.
func (a *Aggregator) clean(c domain.Candidate) (domain.Candidate, bool) {
	c.URL = urlutil.Normalize(c.URL)
	if c.URL == "" || !urlutil.Acceptable(c.URL) {
		return domain.Candidate{}, false
	}

	if strings.TrimSpace(c.Title) == "" {
		c.Title = "Untitled"
	}
	if c.Source == "" {
		c.Source = urlutil.Host(c.URL)
	}
	if c.Type == "" {
		c.Type = classify.Type(c.URL, c.Title+" "+c.Content)
	}
	// Adapters emit neutral as a placeholder, not a verdict: re-score any
	// neutral candidate that carries content.
	if c.Sentiment == "" {
		c.Sentiment = sentiment.Score(c.Title + " " + c.Content)
	} else if c.Sentiment == domain.SentimentNeutral && c.Content != "" {
		c.Sentiment = sentiment.Score(c.Content)
	}
	if c.RelevanceScore <= 0 || c.RelevanceScore > 1 {
		c.RelevanceScore = 0.5
	}

	return c, true
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
