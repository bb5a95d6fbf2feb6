package predictor

import (
	"context"
	"math"

	"SignalPulse/internal/domain/models"
)

// MinBars is the minimum history a strategy needs. The most recent MinBars
// bars are taken; fewer is a hard failure.
const MinBars = 30

// Confidence bounds for any prediction.
const (
	minConfidence = 0.10
	maxConfidence = 0.95
)

// maxChange bounds the predicted fractional change to [-maxChange, maxChange].
const maxChange = 0.05

// Strategy is one price-model variant. Both strategies are heuristic
// stand-ins approximating a forecasting model's behavior; the formulas are
// the contract, not a predictor to be improved.
type Strategy interface {
	Name() string
	Predict(ctx context.Context, s models.Series) (*models.PricePrediction, error)
}

// ShortHorizon predicts from 5-bar momentum, volume trend, and volatility.
type ShortHorizon struct {
	registry *Registry
}

func NewShortHorizon(registry *Registry) *ShortHorizon {
	return &ShortHorizon{registry: registry}
}

func (p *ShortHorizon) Name() string { return ModelShortHorizon }

func (p *ShortHorizon) Predict(ctx context.Context, s models.Series) (*models.PricePrediction, error) {
	window, err := recentWindow(s, "predictor.short_horizon")
	if err != nil {
		return nil, err
	}
	desc, err := p.registry.Load(ctx, ModelShortHorizon)
	if err != nil {
		return nil, err
	}

	closes := window.Closes()
	volumes := window.Volumes()

	pc5 := priceChange(closes, 5)
	vol := stddev(barReturns(closes, 5))
	vt := volumeTrend(volumes, 5)

	raw := 0.4*pc5 + 0.3*vt - 0.3*vol
	change := clampChange(raw * 0.015)
	return buildPrediction(ModelShortHorizon, closes[len(closes)-1], change, desc.Accuracy), nil
}

// LongHorizon predicts from 5/15/30-bar price changes weighted 0.5/0.3/0.2.
type LongHorizon struct {
	registry *Registry
}

func NewLongHorizon(registry *Registry) *LongHorizon {
	return &LongHorizon{registry: registry}
}

func (p *LongHorizon) Name() string { return ModelLongHorizon }

func (p *LongHorizon) Predict(ctx context.Context, s models.Series) (*models.PricePrediction, error) {
	window, err := recentWindow(s, "predictor.long_horizon")
	if err != nil {
		return nil, err
	}
	desc, err := p.registry.Load(ctx, ModelLongHorizon)
	if err != nil {
		return nil, err
	}

	closes := window.Closes()
	raw := 0.5*priceChange(closes, 5) + 0.3*priceChange(closes, 15) + 0.2*priceChange(closes, 30)
	change := clampChange(raw * 0.01)
	return buildPrediction(ModelLongHorizon, closes[len(closes)-1], change, desc.Accuracy), nil
}

func recentWindow(s models.Series, op string) (models.Series, error) {
	if len(s) < MinBars {
		return nil, models.PipelineErrorf(models.KindInsufficientData, op,
			"need %d bars, have %d", MinBars, len(s))
	}
	return s.Tail(MinBars), nil
}

func buildPrediction(model string, currentPrice, change, accuracy float64) *models.PricePrediction {
	predicted := currentPrice * (1 + change)

	direction := models.DirectionNeutral
	switch {
	case predicted > currentPrice:
		direction = models.DirectionUp
	case predicted < currentPrice:
		direction = models.DirectionDown
	}

	// Confidence decays exponentially as the predicted move grows.
	confidence := accuracy * math.Exp(-10*math.Abs(change))
	if confidence < minConfidence {
		confidence = minConfidence
	}
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return &models.PricePrediction{
		PredictedPrice: predicted,
		Direction:      direction,
		Confidence:     confidence,
		RawChange:      change,
		ModelName:      model,
	}
}

// priceChange computes the fractional change across an n-bar window.
func priceChange(closes []float64, n int) float64 {
	if n <= 0 || len(closes) < n {
		return 0
	}
	base := closes[len(closes)-n]
	if base == 0 {
		return 0
	}
	return (closes[len(closes)-1] - base) / base
}

// barReturns computes the one-bar returns within the last n bars.
func barReturns(closes []float64, n int) []float64 {
	if len(closes) < n {
		n = len(closes)
	}
	window := closes[len(closes)-n:]
	out := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		if window[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (window[i]-window[i-1])/window[i-1])
	}
	return out
}

// volumeTrend compares the most recent 2-bar average volume against the
// average of the remaining window; 0 means no trend.
func volumeTrend(volumes []float64, n int) float64 {
	if len(volumes) < n || n < 3 {
		return 0
	}
	window := volumes[len(volumes)-n:]
	recent := mean(window[len(window)-2:])
	rest := mean(window[:len(window)-2])
	if rest == 0 {
		return 0
	}
	return recent/rest - 1
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

func clampChange(v float64) float64 {
	if v < -maxChange {
		return -maxChange
	}
	if v > maxChange {
		return maxChange
	}
	return v
}
