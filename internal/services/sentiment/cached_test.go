package sentiment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalPulse/internal/domain/models"
	pkgcache "SignalPulse/pkg/cache"
)

func TestCachedAnalyzerReusesAssessment(t *testing.T) {
	provider := &scriptedProvider{name: "openai", content: `{"sentiment": "bullish", "confidence": 0.8}`}
	inner := NewAnalyzer(nil, nil, provider)
	c := NewCachedAnalyzer(inner, pkgcache.NewMemoryCache(), 5*time.Minute, nil)

	articles := bullishArticles(2)
	first := c.Assess(context.Background(), "AAPL", articles)
	second := c.Assess(context.Background(), "AAPL", articles)

	require.NotNil(t, second)
	assert.Equal(t, first.Sentiment, second.Sentiment)
	assert.InDelta(t, first.Confidence, second.Confidence, 1e-9)
	// The second assessment came from cache: the hosted model was spent once.
	assert.Equal(t, 1, provider.calls)
}

func TestCachedAnalyzerKeysBySymbol(t *testing.T) {
	provider := &scriptedProvider{name: "openai", content: `{"sentiment": "bullish", "confidence": 0.8}`}
	inner := NewAnalyzer(nil, nil, provider)
	c := NewCachedAnalyzer(inner, pkgcache.NewMemoryCache(), 5*time.Minute, nil)

	c.Assess(context.Background(), "AAPL", bullishArticles(1))
	c.Assess(context.Background(), "MSFT", bullishArticles(1))
	assert.Equal(t, 2, provider.calls)
}

func TestCachedAnalyzerEmptyArticlesBypassesCache(t *testing.T) {
	provider := &scriptedProvider{name: "openai", content: `{"sentiment": "bullish", "confidence": 0.8}`}
	inner := NewAnalyzer(nil, nil, provider)
	c := NewCachedAnalyzer(inner, pkgcache.NewMemoryCache(), 5*time.Minute, nil)

	got := c.Assess(context.Background(), "AAPL", nil)
	assert.Equal(t, models.MethodNoData, got.Method)
	assert.Zero(t, provider.calls)
}
