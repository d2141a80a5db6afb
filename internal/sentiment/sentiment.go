// Package sentiment is the cheap lexical fallback used when no AI provider is
// available for tone analysis. It counts fixed positive and negative markers
// in the snippet; the strictly higher side wins, otherwise neutral.
package sentiment

import (
	"strings"

	"BrandMonitor/internal/domain"
)

var positiveWords = []string{
	"great", "excellent", "amazing", "love", "best", "wonderful", "fantastic",
	"positive", "success", "award", "win", "innovative", "growth",
}

var negativeWords = []string{
	"bad", "terrible", "worst", "hate", "fail", "problem", "issue",
	"lawsuit", "scandal", "fraud", "crisis", "negative", "loss", "decline",
}

// Score classifies the snippet. No I/O, deterministic.
func Score(snippet string) domain.Sentiment {
	content := strings.ToLower(snippet)

	var positive, negative int
	for _, word := range positiveWords {
		if strings.Contains(content, word) {
			positive++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(content, word) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return domain.SentimentPositive
	case negative > positive:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
