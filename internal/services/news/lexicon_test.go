package news

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"SignalPulse/internal/domain/models"
)

func TestScoreTextBullish(t *testing.T) {
	label, score := ScoreText("Company beats expectations and raises guidance on record revenue")
	assert.Equal(t, models.SentimentBullish, label)
	assert.Equal(t, 1.0, score)
}

func TestScoreTextBearish(t *testing.T) {
	label, score := ScoreText("Shares plunge after downgrade and lawsuit warning")
	assert.Equal(t, models.SentimentBearish, label)
	assert.Equal(t, -1.0, score)
}

func TestScoreTextNoTermsIsNeutral(t *testing.T) {
	label, score := ScoreText("Quarterly report scheduled for Tuesday")
	assert.Equal(t, models.SentimentNeutral, label)
	assert.Zero(t, score)
}

func TestScoreTextBalancedIsNeutral(t *testing.T) {
	// One single-word bullish and one single-word bearish term cancel out.
	label, score := ScoreText("analysts see gain for some, loss for others")
	assert.Equal(t, models.SentimentNeutral, label)
	assert.Zero(t, score)
}

func TestScoreTextMultiWordTermsCountDouble(t *testing.T) {
	// "beats expectations" weighs 2 against a single "loss": net (2-1)/3.
	label, score := ScoreText("beats expectations despite a one-time loss")
	assert.Equal(t, models.SentimentBullish, label)
	assert.InDelta(t, 1.0/3.0, score, 1e-9)
}

func TestScoreTextOverlappingTermsStack(t *testing.T) {
	// "strong growth" also matches the bare "growth" term: 2+1 bullish
	// weight against "selloff" at 1. Net (3-1)/4 = 0.5.
	label, score := ScoreText("strong growth offset by selloff")
	assert.Equal(t, models.SentimentBullish, label)
	assert.InDelta(t, 0.5, score, 1e-9)
}
