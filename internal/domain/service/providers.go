package service

import (
	"context"

	"SignalPulse/internal/domain/models"
)

// NewsProvider fetches recent articles about a symbol from one source.
// Providers are independently callable and independently fallible.
type NewsProvider interface {
	Name() string
	Fetch(ctx context.Context, symbol string) ([]models.NewsArticle, error)
}

// SentimentProvider is one hosted-model stage of the sentiment fallback
// chain. Analyze returns the provider's raw response content; normalizing
// the provider-specific response shape is the caller's concern.
type SentimentProvider interface {
	Name() string
	Analyze(ctx context.Context, prompt string) (string, error)
}

// SentimentAssessor turns a symbol's articles into an assessment. It never
// fails: degraded outcomes are values (rule-based, no-data), not errors.
type SentimentAssessor interface {
	Assess(ctx context.Context, symbol string, articles []models.NewsArticle) *models.SentimentAssessment
}

// Pacer enforces the delay policy between per-symbol analyses.
type Pacer interface {
	Wait(ctx context.Context) error
}
