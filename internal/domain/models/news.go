package models

import "time"

// ArticleSentiment is a per-article label supplied by a provider or
// assigned by the lexical scorer.
type ArticleSentiment struct {
	Label Sentiment `json:"label"`
	Score float64   `json:"score"`
}

// NewsArticle is one news item about a symbol from one provider.
// Sentiment and Confidence are optional: present only when the originating
// provider supplies its own assessment.
type NewsArticle struct {
	Title       string            `json:"title"`
	Summary     string            `json:"summary"`
	PublishedAt time.Time         `json:"published_at"`
	Source      string            `json:"source"`
	URL         string            `json:"url"`
	SourceType  string            `json:"source_type"`
	Sentiment   *ArticleSentiment `json:"sentiment,omitempty"`
	Confidence  *float64          `json:"confidence,omitempty"`
}
