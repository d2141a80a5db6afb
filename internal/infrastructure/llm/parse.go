package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"BrandMonitor/internal/domain"
	"BrandMonitor/internal/urlutil"
)

const fallbackRelevance = 0.5

var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

type record struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Content        string  `json:"content"`
	Source         string  `json:"source"`
	Type           string  `json:"type"`
	Sentiment      string  `json:"sentiment"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ParseResponse extracts candidates from free-text model output. Precedence:
// the outermost JSON array, then the outermost JSON object with a "results"
// key, then a bare-URL scan synthesizing minimal candidates. Model output is
// never guaranteed to be well-formed, so none of the tiers may panic or error.
func ParseResponse(text string) []domain.Candidate {
	if records, ok := parseArray(text); ok {
		return toCandidates(records)
	}
	if records, ok := parseObject(text); ok {
		return toCandidates(records)
	}
	return extractManually(text)
}

func parseArray(text string) ([]record, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, false
	}

	var records []record
	if err := json.Unmarshal([]byte(text[start:end+1]), &records); err != nil {
		return nil, false
	}
	return records, true
}

func parseObject(text string) ([]record, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var wrapper struct {
		Results []record `json:"results"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &wrapper); err != nil || wrapper.Results == nil {
		return nil, false
	}
	return wrapper.Results, true
}

func extractManually(text string) []domain.Candidate {
	urls := urlPattern.FindAllString(text, -1)
	results := make([]domain.Candidate, 0, len(urls))
	for _, raw := range urls {
		results = append(results, domain.Candidate{
			Title:          "Mention found",
			URL:            raw,
			Source:         urlutil.Host(raw),
			Type:           domain.TypeArticle,
			Sentiment:      domain.SentimentNeutral,
			RelevanceScore: fallbackRelevance,
		})
	}
	return results
}

func toCandidates(records []record) []domain.Candidate {
	results := make([]domain.Candidate, 0, len(records))
	for _, r := range records {
		title := r.Title
		if title == "" {
			title = "Untitled"
		}

		ctype := domain.ContentType(r.Type)
		switch ctype {
		case domain.TypeArticle, domain.TypeNews, domain.TypeBlog, domain.TypeForum, domain.TypeSocial:
		default:
			ctype = domain.TypeArticle
		}

		tone := domain.Sentiment(r.Sentiment)
		switch tone {
		case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
		default:
			tone = domain.SentimentNeutral
		}

		score := r.RelevanceScore
		if score <= 0 || score > 1 {
			score = fallbackRelevance
		}

		results = append(results, domain.Candidate{
			Title:          title,
			URL:            r.URL,
			Content:        r.Content,
			Source:         r.Source,
			Type:           ctype,
			Sentiment:      tone,
			RelevanceScore: score,
		})
	}
	return results
}
