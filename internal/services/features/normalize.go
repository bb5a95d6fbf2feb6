package features

import (
	"math"

	"SignalPulse/internal/domain/models"
)

// Feature classes for normalization. Percent features clip at +/-10% and
// scale by 10 into [-1,1]; oscillators divide by 100; volume features
// log-compress; everything else divides by the current close.
var (
	percentFeatures = map[string]bool{
		"return_1d":      true,
		"return_3d":      true,
		"return_5d":      true,
		"return_10d":     true,
		"gap":            true,
		"price_vs_sma20": true,
		"price_vs_sma50": true,
		"sma20_slope":    true,
		"sma50_slope":    true,
		"bb_width":       true,
	}
	oscillatorFeatures = map[string]bool{
		"rsi_14":            true,
		"rsi_30":            true,
		"stoch_k":           true,
		"stoch_d":           true,
		"williams_r":        true,
		"bb_position":       true,
		"intraday_position": true,
	}
	volumeFeatures = map[string]bool{
		"obv": true,
	}
)

// Normalize maps a feature set into model-input scale. Null features map
// to 0.
func Normalize(fs models.FeatureSet, currentClose float64) map[string]float64 {
	out := make(map[string]float64, len(fs))
	for name, v := range fs {
		if v == nil {
			out[name] = 0
			continue
		}
		out[name] = normalizeOne(name, *v, currentClose)
	}
	return out
}

func normalizeOne(name string, v, currentClose float64) float64 {
	switch {
	case percentFeatures[name]:
		return clamp(v, -0.1, 0.1) * 10
	case oscillatorFeatures[name]:
		return v / 100
	case volumeFeatures[name]:
		if v < 0 {
			return -math.Log1p(-v)
		}
		return math.Log1p(v)
	default:
		if currentClose <= 0 {
			return 0
		}
		return v / currentClose
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
