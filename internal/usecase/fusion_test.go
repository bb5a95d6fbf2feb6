package usecase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalPulse/internal/domain/models"
)

func prediction(model string, price, confidence float64) *models.PricePrediction {
	return &models.PricePrediction{
		PredictedPrice: price,
		Direction:      models.DirectionUp,
		Confidence:     confidence,
		ModelName:      model,
	}
}

func neutralSentiment() *models.SentimentAssessment {
	return &models.SentimentAssessment{
		Sentiment:  models.SentimentNeutral,
		Confidence: 0.5,
		Method:     "rule_based",
	}
}

func TestTechnicalFusionEnsemble(t *testing.T) {
	f := NewFusion()
	short := prediction("short_horizon", 101, 0.8)
	long := prediction("long_horizon", 103, 0.6)

	sig, err := f.Fuse(ModeTechnical, "AAPL", 100, short, long, neutralSentiment())
	require.NoError(t, err)

	assert.InDelta(t, 101.9, sig.PredictedPrice, 1e-9)
	assert.Equal(t, models.DirectionUp, sig.Direction)

	require.NotNil(t, sig.Components.AgreementScore)
	agreement := *sig.Components.AgreementScore
	assert.InDelta(t, math.Exp(-0.2), agreement, 1e-9)

	// avg confidence 0.7, scaled by 0.8 + 0.2 * agreement.
	assert.InDelta(t, 0.7*(0.8+0.2*math.Exp(-0.2)), sig.Confidence, 1e-9)
	assert.False(t, sig.Components.FallbackMode)
}

func TestTechnicalFusionConfidenceCap(t *testing.T) {
	f := NewFusion()
	short := prediction("short_horizon", 105, 0.99)
	long := prediction("long_horizon", 105, 0.99)

	sig, err := f.Fuse(ModeTechnical, "AAPL", 100, short, long, neutralSentiment())
	require.NoError(t, err)
	assert.InDelta(t, maxFusedConfidence, sig.Confidence, 1e-9)
}

func TestTechnicalFusionSingleSurvivorPenalty(t *testing.T) {
	f := NewFusion()
	long := prediction("long_horizon", 103, 0.6)

	sig, err := f.Fuse(ModeTechnical, "AAPL", 100, nil, long, neutralSentiment())
	require.NoError(t, err)

	assert.Equal(t, 103.0, sig.PredictedPrice)
	assert.InDelta(t, 0.6*fallbackPenalty, sig.Confidence, 1e-9)
	assert.True(t, sig.Components.FallbackMode)
	assert.Nil(t, sig.Components.ShortHorizon)
	require.NotNil(t, sig.Components.LongHorizon)
}

func TestTechnicalFusionBothModelsFailed(t *testing.T) {
	f := NewFusion()
	_, err := f.Fuse(ModeTechnical, "AAPL", 100, nil, nil, neutralSentiment())
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindBothModelsFailed))
}

func TestTechnicalFusionDowntrendDirection(t *testing.T) {
	f := NewFusion()
	short := prediction("short_horizon", 98, 0.7)
	long := prediction("long_horizon", 97, 0.7)

	sig, err := f.Fuse(ModeTechnical, "AAPL", 100, short, long, neutralSentiment())
	require.NoError(t, err)
	assert.Equal(t, models.DirectionDown, sig.Direction)
}

func TestTechnicalFusionEqualPriceIsNeutral(t *testing.T) {
	f := NewFusion()
	short := prediction("short_horizon", 100, 0.7)
	long := prediction("long_horizon", 100, 0.7)

	sig, err := f.Fuse(ModeTechnical, "AAPL", 100, short, long, neutralSentiment())
	require.NoError(t, err)
	assert.Equal(t, models.DirectionNeutral, sig.Direction)
	// Identical predictions agree perfectly.
	assert.InDelta(t, 1.0, *sig.Components.AgreementScore, 1e-9)
}

func TestSentimentFusionAgreementBoost(t *testing.T) {
	f := NewFusion()
	short := prediction("short_horizon", 101, 0.8)
	assessment := &models.SentimentAssessment{
		Sentiment:  models.SentimentBullish,
		Confidence: 0.70,
		Method:     "openai",
	}

	sig, err := f.Fuse(ModeSentiment, "AAPL", 100, short, nil, assessment)
	require.NoError(t, err)

	assert.Equal(t, models.DirectionUp, sig.Direction)
	assert.InDelta(t, 0.80, sig.Confidence, 1e-9)
	require.NotNil(t, sig.Components.TechnicalAgreement)
	assert.True(t, *sig.Components.TechnicalAgreement)
	assert.Equal(t, 101.0, sig.PredictedPrice)
}

func TestSentimentFusionDisagreementRecordedNotPenalized(t *testing.T) {
	f := NewFusion()
	short := prediction("short_horizon", 101, 0.8)
	assessment := &models.SentimentAssessment{
		Sentiment:  models.SentimentBearish,
		Confidence: 0.70,
		Method:     "openai",
	}

	sig, err := f.Fuse(ModeSentiment, "AAPL", 100, short, nil, assessment)
	require.NoError(t, err)

	assert.Equal(t, models.DirectionDown, sig.Direction)
	assert.InDelta(t, 0.70, sig.Confidence, 1e-9)
	require.NotNil(t, sig.Components.TechnicalAgreement)
	assert.False(t, *sig.Components.TechnicalAgreement)
}

func TestSentimentFusionBoostRespectsCap(t *testing.T) {
	f := NewFusion()
	short := prediction("short_horizon", 101, 0.8)
	assessment := &models.SentimentAssessment{
		Sentiment:  models.SentimentBullish,
		Confidence: 0.92,
		Method:     "openai",
	}

	sig, err := f.Fuse(ModeSentiment, "AAPL", 100, short, nil, assessment)
	require.NoError(t, err)
	assert.InDelta(t, maxFusedConfidence, sig.Confidence, 1e-9)
}

func TestSentimentFusionSurvivesWithoutModels(t *testing.T) {
	f := NewFusion()
	assessment := &models.SentimentAssessment{
		Sentiment:  models.SentimentBullish,
		Confidence: 0.6,
		Method:     "gemini",
	}

	sig, err := f.Fuse(ModeSentiment, "AAPL", 100, nil, nil, assessment)
	require.NoError(t, err)

	assert.Equal(t, models.DirectionUp, sig.Direction)
	assert.Equal(t, 100.0, sig.PredictedPrice)
	assert.InDelta(t, 0.6, sig.Confidence, 1e-9)
	assert.Nil(t, sig.Components.TechnicalAgreement)
}

func TestFuseDefaultsToTechnical(t *testing.T) {
	f := NewFusion()
	short := prediction("short_horizon", 101, 0.8)
	long := prediction("long_horizon", 103, 0.6)

	sig, err := f.Fuse(FusionMode("unknown"), "AAPL", 100, short, long, neutralSentiment())
	require.NoError(t, err)
	assert.Equal(t, string(ModeTechnical), sig.Components.Strategy)
}

func TestAgreementScoreZeroCurrentPrice(t *testing.T) {
	assert.Zero(t, agreementScore(101, 103, 0))
}
