package news

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalPulse/internal/domain/models"
)

type fakeProvider struct {
	name     string
	articles []models.NewsArticle
	err      error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Fetch(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	return p.articles, p.err
}

type countingMetrics struct {
	mu             sync.Mutex
	providerErrors map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{providerErrors: make(map[string]int)}
}

func (m *countingMetrics) RecordSignal(mode, symbol string, direction models.Direction) {}
func (m *countingMetrics) RecordLatency(op string, seconds float64)                     {}
func (m *countingMetrics) RecordConfidence(symbol string, confidence float64)           {}
func (m *countingMetrics) RecordBatch(successRate float64)                              {}

func (m *countingMetrics) RecordProviderError(provider string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providerErrors[provider]++
}

func TestAggregatorConcatenatesAllProviders(t *testing.T) {
	agg := NewAggregator(nil, nil,
		&fakeProvider{name: "a", articles: []models.NewsArticle{{Title: "first"}}},
		&fakeProvider{name: "b", articles: []models.NewsArticle{{Title: "second"}, {Title: "third"}}},
	)

	articles := agg.Fetch(context.Background(), "AAPL")
	require.Len(t, articles, 3)
	// Join order follows provider order, not completion order.
	assert.Equal(t, "first", articles[0].Title)
	assert.Equal(t, "second", articles[1].Title)
}

func TestAggregatorToleratesProviderFailure(t *testing.T) {
	m := newCountingMetrics()
	agg := NewAggregator(nil, m,
		&fakeProvider{name: "broken", err: errors.New("upstream 500")},
		&fakeProvider{name: "ok", articles: []models.NewsArticle{{Title: "survives"}}},
	)

	articles := agg.Fetch(context.Background(), "AAPL")
	require.Len(t, articles, 1)
	assert.Equal(t, "survives", articles[0].Title)
	assert.Equal(t, 1, m.providerErrors["broken"])
}

func TestAggregatorFillsMissingSentiment(t *testing.T) {
	supplied := &models.ArticleSentiment{Label: models.SentimentBearish, Score: -0.9}
	agg := NewAggregator(nil, nil,
		&fakeProvider{name: "a", articles: []models.NewsArticle{
			{Title: "Company beats expectations"},
			{Title: "whatever", Sentiment: supplied},
		}},
	)

	articles := agg.Fetch(context.Background(), "AAPL")
	require.Len(t, articles, 2)

	require.NotNil(t, articles[0].Sentiment)
	assert.Equal(t, models.SentimentBullish, articles[0].Sentiment.Label)

	// Provider-supplied sentiment is never overwritten.
	assert.Equal(t, supplied, articles[1].Sentiment)
}

func TestAggregatorNoProviders(t *testing.T) {
	agg := NewAggregator(nil, nil)
	assert.Empty(t, agg.Fetch(context.Background(), "AAPL"))
}
