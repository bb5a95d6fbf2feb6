package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalPulse/internal/domain/models"
)

type scriptedProvider struct {
	name    string
	content string
	err     error
	calls   int
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) Analyze(ctx context.Context, prompt string) (string, error) {
	p.calls++
	return p.content, p.err
}

func bullishArticles(n int) []models.NewsArticle {
	out := make([]models.NewsArticle, n)
	for i := range out {
		out[i] = models.NewsArticle{
			Title:     "record revenue",
			Sentiment: &models.ArticleSentiment{Label: models.SentimentBullish, Score: 1},
		}
	}
	return out
}

func TestAnalyzerEmptyArticlesSkipsProviders(t *testing.T) {
	p := &scriptedProvider{name: "openai", content: `{"sentiment": "bullish", "confidence": 0.9}`}
	a := NewAnalyzer(nil, nil, p)

	got := a.Assess(context.Background(), "AAPL", nil)
	assert.Equal(t, models.MethodNoData, got.Method)
	assert.Zero(t, p.calls)
}

func TestAnalyzerFirstProviderWins(t *testing.T) {
	primary := &scriptedProvider{name: "openai", content: `{"sentiment": "bearish", "confidence": 0.8}`}
	secondary := &scriptedProvider{name: "gemini", content: `{"sentiment": "bullish", "confidence": 0.9}`}
	a := NewAnalyzer(nil, nil, primary, secondary)

	got := a.Assess(context.Background(), "AAPL", bullishArticles(3))
	assert.Equal(t, "openai", got.Method)
	assert.Equal(t, models.SentimentBearish, got.Sentiment)
	assert.Equal(t, 3, got.SourceCount)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, secondary.calls)
}

func TestAnalyzerFallsThroughToSecondary(t *testing.T) {
	primary := &scriptedProvider{name: "openai", err: errors.New("401")}
	secondary := &scriptedProvider{name: "gemini", content: `{"sentiment": "neutral", "confidence": 0.5}`}
	m := &tallyMetrics{}
	a := NewAnalyzer(nil, m, primary, secondary)

	got := a.Assess(context.Background(), "AAPL", bullishArticles(2))
	assert.Equal(t, "gemini", got.Method)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, []string{"openai"}, m.providerErrors)
}

func TestAnalyzerUnparseableResponseAdvancesChain(t *testing.T) {
	primary := &scriptedProvider{name: "openai", content: `{"sentiment": invalid}`}
	secondary := &scriptedProvider{name: "gemini", content: `{"sentiment": "bullish", "confidence": 0.7}`}
	a := NewAnalyzer(nil, nil, primary, secondary)

	got := a.Assess(context.Background(), "AAPL", bullishArticles(2))
	assert.Equal(t, "gemini", got.Method)
}

func TestAnalyzerAllProvidersFailEndsRuleBased(t *testing.T) {
	primary := &scriptedProvider{name: "openai", err: errors.New("timeout")}
	secondary := &scriptedProvider{name: "gemini", err: errors.New("quota")}
	a := NewAnalyzer(nil, nil, primary, secondary)

	got := a.Assess(context.Background(), "AAPL", bullishArticles(4))
	require.NotNil(t, got)
	assert.Equal(t, MethodRuleBased, got.Method)
	assert.Equal(t, models.SentimentBullish, got.Sentiment)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

type tallyMetrics struct {
	providerErrors []string
}

func (m *tallyMetrics) RecordSignal(mode, symbol string, direction models.Direction) {}
func (m *tallyMetrics) RecordLatency(op string, seconds float64)                     {}
func (m *tallyMetrics) RecordConfidence(symbol string, confidence float64)           {}
func (m *tallyMetrics) RecordBatch(successRate float64)                              {}

func (m *tallyMetrics) RecordProviderError(provider string) {
	m.providerErrors = append(m.providerErrors, provider)
}
