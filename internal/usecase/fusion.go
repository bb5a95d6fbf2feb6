package usecase

import (
	"fmt"
	"math"
	"time"

	"SignalPulse/internal/domain/models"
)

// FusionMode selects which ensemble policy combines the sub-signals.
type FusionMode string

const (
	ModeTechnical FusionMode = "technical"
	ModeSentiment FusionMode = "sentiment"
)

// Ensemble weights for the technical-first strategy. Short horizon leads.
const (
	shortWeight = 0.55
	longWeight  = 0.45
)

const (
	maxFusedConfidence = 0.95
	fallbackPenalty    = 0.85
	agreementBoost     = 0.1
	agreementSharpness = 10
)

// Fusion combines price predictions and a sentiment assessment into one
// FusedSignal. It is pure computation: no I/O, no retained state.
type Fusion struct{}

func NewFusion() *Fusion { return &Fusion{} }

// Fuse dispatches on mode. short and long may be nil when the respective
// price model failed; sentiment is never nil (no-data is a value, not an
// absence).
func (f *Fusion) Fuse(
	mode FusionMode,
	symbol string,
	currentPrice float64,
	short, long *models.PricePrediction,
	sentiment *models.SentimentAssessment,
) (*models.FusedSignal, error) {
	switch mode {
	case ModeSentiment:
		return f.sentimentFirst(symbol, currentPrice, short, long, sentiment), nil
	default:
		return f.technicalFirst(symbol, currentPrice, short, long, sentiment)
	}
}

// technicalFirst ensembles the two price models; sentiment rides along in
// the components for auditability but does not steer the call.
func (f *Fusion) technicalFirst(
	symbol string,
	currentPrice float64,
	short, long *models.PricePrediction,
	sentiment *models.SentimentAssessment,
) (*models.FusedSignal, error) {
	components := models.SignalComponents{
		Strategy:     string(ModeTechnical),
		ShortHorizon: componentOf(short),
		LongHorizon:  componentOf(long),
		Sentiment:    sentimentComponentOf(sentiment),
	}

	var predicted, confidence float64
	var reasoning string
	switch {
	case short != nil && long != nil:
		predicted = shortWeight*short.PredictedPrice + longWeight*long.PredictedPrice
		agreement := agreementScore(short.PredictedPrice, long.PredictedPrice, currentPrice)
		avg := (short.Confidence + long.Confidence) / 2
		confidence = math.Min(maxFusedConfidence, avg*(0.8+0.2*agreement))
		components.AgreementScore = &agreement
		reasoning = fmt.Sprintf("ensemble of %s and %s, model agreement %.4f",
			short.ModelName, long.ModelName, agreement)
	case short != nil:
		predicted = short.PredictedPrice
		confidence = short.Confidence * fallbackPenalty
		components.FallbackMode = true
		reasoning = fmt.Sprintf("only %s available, confidence penalized", short.ModelName)
	case long != nil:
		predicted = long.PredictedPrice
		confidence = long.Confidence * fallbackPenalty
		components.FallbackMode = true
		reasoning = fmt.Sprintf("only %s available, confidence penalized", long.ModelName)
	default:
		return nil, models.PipelineErrorf(models.KindBothModelsFailed, "fusion.technical",
			"no surviving price model for %s", symbol)
	}

	return &models.FusedSignal{
		Symbol:         symbol,
		CurrentPrice:   currentPrice,
		PredictedPrice: predicted,
		Direction:      directionOf(predicted, currentPrice),
		Confidence:     confidence,
		Components:     components,
		Reasoning:      reasoning,
		Timestamp:      time.Now().UTC(),
	}, nil
}

// sentimentFirst lets the sentiment assessment make the call; an agreeing
// technical direction earns a confidence boost, a disagreeing one is only
// recorded.
func (f *Fusion) sentimentFirst(
	symbol string,
	currentPrice float64,
	short, long *models.PricePrediction,
	sentiment *models.SentimentAssessment,
) *models.FusedSignal {
	components := models.SignalComponents{
		Strategy:     string(ModeSentiment),
		ShortHorizon: componentOf(short),
		LongHorizon:  componentOf(long),
		Sentiment:    sentimentComponentOf(sentiment),
	}

	direction := sentiment.Sentiment.Direction()
	confidence := sentiment.Confidence
	reasoning := fmt.Sprintf("sentiment %s via %s", sentiment.Sentiment, sentiment.Method)

	predicted := currentPrice
	technical, technicalDirection := technicalView(currentPrice, short, long)
	if technical {
		predicted = technicalPrice(currentPrice, short, long)
		agree := technicalDirection == direction
		components.TechnicalAgreement = &agree
		if agree {
			confidence = math.Min(maxFusedConfidence, confidence+agreementBoost)
			reasoning += fmt.Sprintf(", technical direction %s agrees", technicalDirection)
		} else {
			reasoning += fmt.Sprintf(", technical direction %s disagrees", technicalDirection)
		}
	}

	return &models.FusedSignal{
		Symbol:         symbol,
		CurrentPrice:   currentPrice,
		PredictedPrice: predicted,
		Direction:      direction,
		Confidence:     confidence,
		Components:     components,
		Reasoning:      reasoning,
		Timestamp:      time.Now().UTC(),
	}
}

// agreementScore decays exponentially with the price-gap between the two
// models relative to the current price. Identical predictions score 1.
func agreementScore(a, b, current float64) float64 {
	if current == 0 {
		return 0
	}
	return math.Exp(-agreementSharpness * math.Abs(a-b) / current)
}

func directionOf(predicted, current float64) models.Direction {
	switch {
	case predicted > current:
		return models.DirectionUp
	case predicted < current:
		return models.DirectionDown
	default:
		return models.DirectionNeutral
	}
}

// technicalView reports whether any price model survived and the direction
// of their ensembled price.
func technicalView(current float64, short, long *models.PricePrediction) (bool, models.Direction) {
	if short == nil && long == nil {
		return false, models.DirectionNeutral
	}
	return true, directionOf(technicalPrice(current, short, long), current)
}

func technicalPrice(current float64, short, long *models.PricePrediction) float64 {
	switch {
	case short != nil && long != nil:
		return shortWeight*short.PredictedPrice + longWeight*long.PredictedPrice
	case short != nil:
		return short.PredictedPrice
	case long != nil:
		return long.PredictedPrice
	default:
		return current
	}
}

func componentOf(p *models.PricePrediction) *models.SignalComponent {
	if p == nil {
		return nil
	}
	return &models.SignalComponent{
		Model:          p.ModelName,
		Direction:      p.Direction,
		Confidence:     p.Confidence,
		PredictedPrice: p.PredictedPrice,
		RawChange:      p.RawChange,
	}
}

func sentimentComponentOf(s *models.SentimentAssessment) *models.SentimentComponent {
	if s == nil {
		return nil
	}
	return &models.SentimentComponent{
		Sentiment:   s.Sentiment,
		Confidence:  s.Confidence,
		Method:      s.Method,
		SourceCount: s.SourceCount,
	}
}
