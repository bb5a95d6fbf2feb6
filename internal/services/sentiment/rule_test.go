package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"SignalPulse/internal/domain/models"
)

func labeled(label models.Sentiment) models.NewsArticle {
	return models.NewsArticle{
		Title:     "headline",
		Sentiment: &models.ArticleSentiment{Label: label},
	}
}

func TestRuleBasedEmptyIsNoData(t *testing.T) {
	a := NewRuleBased().Assess(nil)
	assert.Equal(t, models.MethodNoData, a.Method)
	assert.Equal(t, models.SentimentNeutral, a.Sentiment)
	assert.Zero(t, a.Confidence)
}

func TestRuleBasedUnanimousBullish(t *testing.T) {
	articles := []models.NewsArticle{
		labeled(models.SentimentBullish),
		labeled(models.SentimentBullish),
		labeled(models.SentimentBullish),
	}
	a := NewRuleBased().Assess(articles)
	assert.Equal(t, models.SentimentBullish, a.Sentiment)
	assert.InDelta(t, 0.7, a.Confidence, 1e-9)
	assert.Equal(t, MethodRuleBased, a.Method)
	assert.Equal(t, 3, a.SourceCount)
}

func TestRuleBasedSplitTallyIsNeutral(t *testing.T) {
	articles := []models.NewsArticle{
		labeled(models.SentimentBullish),
		labeled(models.SentimentBearish),
	}
	a := NewRuleBased().Assess(articles)
	assert.Equal(t, models.SentimentNeutral, a.Sentiment)
	assert.InDelta(t, 0.3, a.Confidence, 1e-9)
}

func TestRuleBasedWithinNeutralBand(t *testing.T) {
	// Net (3-2)/5 = 0.2, on the threshold: not enough for a call.
	articles := []models.NewsArticle{
		labeled(models.SentimentBullish),
		labeled(models.SentimentBullish),
		labeled(models.SentimentBullish),
		labeled(models.SentimentBearish),
		labeled(models.SentimentBearish),
	}
	a := NewRuleBased().Assess(articles)
	assert.Equal(t, models.SentimentNeutral, a.Sentiment)
}

func TestRuleBasedLexiconVoteForUnlabeledArticles(t *testing.T) {
	articles := []models.NewsArticle{
		{Title: "Company beats expectations with record revenue"},
		{Title: "Shares surge on strong growth"},
	}
	a := NewRuleBased().Assess(articles)
	assert.Equal(t, models.SentimentBullish, a.Sentiment)
	assert.InDelta(t, 0.7, a.Confidence, 1e-9)
}
