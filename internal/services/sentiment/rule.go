package sentiment

import (
	"fmt"

	"SignalPulse/internal/domain/models"
	"SignalPulse/internal/services/news"
)

// MethodRuleBased marks assessments produced by the terminal lexicon stage.
const MethodRuleBased = "rule_based"

// RuleBased is the last stage of the fallback chain. It never fails: each
// article contributes a vote from its provider-supplied sentiment or, failing
// that, the lexicon score of its title and summary.
type RuleBased struct{}

func NewRuleBased() *RuleBased { return &RuleBased{} }

// Assess tallies per-article votes into an aggregate assessment.
func (r *RuleBased) Assess(articles []models.NewsArticle) *models.SentimentAssessment {
	if len(articles) == 0 {
		return models.NoDataAssessment()
	}

	var bull, bear int
	for _, a := range articles {
		label := articleLabel(a)
		switch label {
		case models.SentimentBullish:
			bull++
		case models.SentimentBearish:
			bear++
		}
	}

	total := len(articles)
	net := float64(bull-bear) / float64(total)

	label := models.SentimentNeutral
	switch {
	case net > scoreThreshold:
		label = models.SentimentBullish
	case net < -scoreThreshold:
		label = models.SentimentBearish
	}

	return &models.SentimentAssessment{
		Sentiment:  label,
		Confidence: ruleConfidence(net),
		Reasoning: fmt.Sprintf("rule-based tally over %d articles: %d bullish, %d bearish, %d neutral",
			total, bull, bear, total-bull-bear),
		SourceCount: total,
		Method:      MethodRuleBased,
	}
}

// scoreThreshold mirrors the lexicon's neutral band on the vote balance.
const scoreThreshold = 0.2

// ruleConfidence grows with the vote imbalance, from 0.3 at a split tally
// to 0.7 at unanimity.
func ruleConfidence(net float64) float64 {
	abs := net
	if abs < 0 {
		abs = -abs
	}
	return 0.3 + 0.4*abs
}

func articleLabel(a models.NewsArticle) models.Sentiment {
	if a.Sentiment != nil {
		return a.Sentiment.Label
	}
	label, _ := news.ScoreText(a.Title + " " + a.Summary)
	return label
}
