package llm

import (
	"context"
	"fmt"
	"strconv"

	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/provider"
	"BrandMonitor/internal/urlutil"
)

// MentionProvider implements the provider contract on top of a chat model:
// it prompts for JSON-shaped results and parses whatever text comes back.
type MentionProvider struct {
	chat *ChatClient
}

var _ provider.Provider = (*MentionProvider)(nil)

// NewMentionProvider wraps a configured chat client.
func NewMentionProvider(chat *ChatClient) *MentionProvider {
	return &MentionProvider{chat: chat}
}

// Name identifies the active AI flavor inside the registry.
func (m *MentionProvider) Name() string { return m.chat.Name() }

// Search prompts the model and cleans its reply: URLs are normalized and
// statically checked, unknown fields fall back to defaults, and the list is
// capped at the requested budget.
func (m *MentionProvider) Search(ctx context.Context, q provider.Query) ([]domain.Candidate, error) {
	if !m.chat.Configured() {
		return nil, fmt.Errorf("%s: %w", m.chat.Name(), provider.ErrNotConfigured)
	}

	reply, err := m.chat.Complete(ctx, buildSearchPrompt(q))
	if err != nil {
		return nil, err
	}

	clean := make([]domain.Candidate, 0, q.MaxResults)
	for _, candidate := range ParseResponse(reply) {
		link := urlutil.Normalize(candidate.URL)
		if link == "" || !urlutil.Acceptable(link) {
			continue
		}

		candidate.URL = link
		if candidate.Source == "" {
			candidate.Source = urlutil.Host(link)
		}

		clean = append(clean, candidate)
		if len(clean) >= q.MaxResults {
			break
		}
	}

	return clean, nil
}

func buildSearchPrompt(q provider.Query) string {
	return `Find recent web mentions of: ` + q.SearchTerms() + `

Return a JSON array of results with this structure:
[
    {
        "title": "Title",
        "url": "URL",
        "content": "Brief summary or excerpt",
        "source": "Website/Platform name",
        "type": "article|news|social|blog|forum",
        "sentiment": "positive|negative|neutral",
        "relevance_score": 0.85
    }
]

Focus on content from the last 30 days. Provide up to ` + strconv.Itoa(q.MaxResults) + ` results.
Include various content types: news articles, blog posts, social media, forums.
Rate relevance 0.0-1.0 based on direct relation to the search terms.`
}
