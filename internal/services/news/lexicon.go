package news

import (
	"strings"

	"SignalPulse/internal/domain/models"
)

// Fixed sentiment lexicon for providers that do not supply their own
// assessment. Longer, high-specificity terms count double.
var (
	bullishTerms = []string{
		"beats expectations",
		"raises guidance",
		"record revenue",
		"strong growth",
		"upgrade",
		"outperform",
		"buyback",
		"breakout",
		"bullish",
		"surge",
		"rally",
		"soar",
		"gain",
		"profit",
		"growth",
	}
	bearishTerms = []string{
		"misses expectations",
		"cuts guidance",
		"investigation",
		"bankruptcy",
		"downgrade",
		"underperform",
		"lawsuit",
		"selloff",
		"bearish",
		"plunge",
		"tumble",
		"slump",
		"loss",
		"decline",
		"warning",
	}
)

// scoreThreshold separates bullish/bearish from neutral on the net score.
const scoreThreshold = 0.2

func termWeight(term string) float64 {
	if strings.Contains(term, " ") || len(term) >= 9 {
		return 2
	}
	return 1
}

// ScoreText classifies a text by weighted lexicon counts. The score is the
// normalized net balance in [-1, 1]; |score| <= 0.2 is neutral.
func ScoreText(text string) (models.Sentiment, float64) {
	t := strings.ToLower(text)

	var bull, bear float64
	for _, term := range bullishTerms {
		bull += float64(strings.Count(t, term)) * termWeight(term)
	}
	for _, term := range bearishTerms {
		bear += float64(strings.Count(t, term)) * termWeight(term)
	}

	total := bull + bear
	if total == 0 {
		return models.SentimentNeutral, 0
	}
	score := (bull - bear) / total
	switch {
	case score > scoreThreshold:
		return models.SentimentBullish, score
	case score < -scoreThreshold:
		return models.SentimentBearish, score
	default:
		return models.SentimentNeutral, score
	}
}
