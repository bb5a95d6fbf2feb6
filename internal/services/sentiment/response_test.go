package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalPulse/internal/domain/models"
)

func TestParseAssessmentStructured(t *testing.T) {
	content := `Here is my analysis:
{"sentiment": "bullish", "confidence": 0.85, "reasoning": "strong earnings", "impact": "High"}`

	a, err := ParseAssessment(content)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentBullish, a.Sentiment)
	assert.InDelta(t, 0.85, a.Confidence, 1e-9)
	assert.Equal(t, "strong earnings", a.Reasoning)
	assert.Equal(t, "high", a.Impact)
}

func TestParseAssessmentStructuredPercentConfidence(t *testing.T) {
	a, err := ParseAssessment(`{"sentiment": "bearish", "confidence": 85}`)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentBearish, a.Sentiment)
	assert.InDelta(t, 0.85, a.Confidence, 1e-9)
}

func TestParseAssessmentMalformedBlockIsParseError(t *testing.T) {
	// Mentions sentiment inside a block but is not valid JSON: the chain
	// must advance rather than silently read prose.
	_, err := ParseAssessment(`{"sentiment": "bullish", "confidence": }`)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindParse))
}

func TestParseAssessmentEmptyIsParseError(t *testing.T) {
	_, err := ParseAssessment("   \n ")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindParse))
}

func TestParseAssessmentNaturalLanguage(t *testing.T) {
	content := "The outlook is bullish. Positive momentum across suppliers. " +
		"Confidence: 75. This is a high impact development."

	a, err := ParseAssessment(content)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentBullish, a.Sentiment)
	assert.InDelta(t, 0.75, a.Confidence, 1e-9)
	assert.Equal(t, "high", a.Impact)
}

func TestParseAssessmentNaturalLanguageDefaults(t *testing.T) {
	a, err := ParseAssessment("Hard to say anything definitive about this stock.")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, a.Sentiment)
	assert.InDelta(t, defaultConfidence, a.Confidence, 1e-9)
	assert.Empty(t, a.Impact)
}

func TestParseAssessmentNaturalLanguageBearish(t *testing.T) {
	a, err := ParseAssessment("Mostly negative coverage; bearish pressure with confidence 0.4")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentBearish, a.Sentiment)
	assert.InDelta(t, 0.4, a.Confidence, 1e-9)
}

func TestNormalizeConfidenceBounds(t *testing.T) {
	assert.InDelta(t, 0.5, normalizeConfidence(0.5), 1e-9)
	assert.InDelta(t, 0.85, normalizeConfidence(85), 1e-9)
	assert.Zero(t, normalizeConfidence(-2))
	assert.InDelta(t, 1.0, normalizeConfidence(150), 1e-9)
}

func TestBuildPromptCapsArticlesAndSummaries(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	articles := make([]models.NewsArticle, 15)
	for i := range articles {
		articles[i] = models.NewsArticle{Title: "headline", Summary: string(long)}
	}

	prompt := BuildPrompt("AAPL", articles)
	assert.Contains(t, prompt, "AAPL")
	assert.Contains(t, prompt, `"sentiment"`)
	// 10 articles, each summary capped at 200 chars, plus fixed scaffolding.
	assert.Less(t, len(prompt), 10*(len("- headline: ")+201)+500)
}
