package features

import (
	"SignalPulse/internal/domain/models"
)

// MinBars is the history required for a complete feature set. Shorter
// series produce a nil FeatureSet: the insufficient-history policy, not
// an error.
const MinBars = 50

// Extract computes the full technical feature set from an OHLCV series.
// Individual indicators needing more history than available evaluate to
// null inside the set rather than failing the extraction.
func Extract(s models.Series) models.FeatureSet {
	if len(s) < MinBars {
		return nil
	}

	closes := s.Closes()
	fs := models.FeatureSet{}
	last := s[len(s)-1]

	setOrNull(fs, "sma_5", func() (float64, bool) { return sma(closes, 5) })
	setOrNull(fs, "sma_20", func() (float64, bool) { return sma(closes, 20) })
	setOrNull(fs, "sma_50", func() (float64, bool) { return sma(closes, 50) })
	setOrNull(fs, "ema_12", func() (float64, bool) { return ema(closes, 12) })
	setOrNull(fs, "ema_26", func() (float64, bool) { return ema(closes, 26) })

	if line, signal, hist, ok := macd(closes); ok {
		fs.Set("macd", line)
		fs.Set("macd_signal", signal)
		fs.Set("macd_histogram", hist)
	} else {
		fs.SetNull("macd")
		fs.SetNull("macd_signal")
		fs.SetNull("macd_histogram")
	}

	setOrNull(fs, "rsi_14", func() (float64, bool) { return rsi(closes, 14) })
	setOrNull(fs, "rsi_30", func() (float64, bool) { return rsi(closes, 30) })

	if upper, middle, lower, ok := bollinger(closes, 20, 2); ok {
		fs.Set("bb_upper", upper)
		fs.Set("bb_middle", middle)
		fs.Set("bb_lower", lower)
		if middle != 0 {
			fs.Set("bb_width", (upper-lower)/middle)
		} else {
			fs.SetNull("bb_width")
		}
		if upper != lower {
			fs.Set("bb_position", (last.Close-lower)/(upper-lower)*100)
		} else {
			fs.Set("bb_position", 50)
		}
	} else {
		for _, name := range []string{"bb_upper", "bb_middle", "bb_lower", "bb_width", "bb_position"} {
			fs.SetNull(name)
		}
	}

	setOrNull(fs, "atr_14", func() (float64, bool) { return atr(s, 14) })
	setOrNull(fs, "stoch_k", func() (float64, bool) { return stochasticK(s, 14) })
	// %D is defined equal to %K here, not a smoothed %D.
	setOrNull(fs, "stoch_d", func() (float64, bool) { return stochasticK(s, 14) })
	setOrNull(fs, "williams_r", func() (float64, bool) { return williamsR(s, 14) })

	fs.Set("obv", obv(s))

	setOrNull(fs, "return_1d", func() (float64, bool) { return changeOver(closes, 1) })
	setOrNull(fs, "return_3d", func() (float64, bool) { return changeOver(closes, 3) })
	setOrNull(fs, "return_5d", func() (float64, bool) { return changeOver(closes, 5) })
	setOrNull(fs, "return_10d", func() (float64, bool) { return changeOver(closes, 10) })

	if last.High != last.Low {
		fs.Set("intraday_position", (last.Close-last.Low)/(last.High-last.Low)*100)
	} else {
		fs.Set("intraday_position", 50)
	}

	prevClose := s[len(s)-2].Close
	if prevClose != 0 {
		fs.Set("gap", (last.Open-prevClose)/prevClose)
	} else {
		fs.SetNull("gap")
	}

	setOrNull(fs, "price_vs_sma20", func() (float64, bool) { return priceVsMA(closes, 20) })
	setOrNull(fs, "price_vs_sma50", func() (float64, bool) { return priceVsMA(closes, 50) })
	setOrNull(fs, "sma20_slope", func() (float64, bool) { return maSlope(closes, 20, 5) })
	setOrNull(fs, "sma50_slope", func() (float64, bool) { return maSlope(closes, 50, 5) })

	return fs
}

// priceVsMA computes the fractional distance of the latest close from the
// period moving average.
func priceVsMA(closes []float64, period int) (float64, bool) {
	ma, ok := sma(closes, period)
	if !ok || ma == 0 {
		return 0, false
	}
	return (closes[len(closes)-1] - ma) / ma, true
}

// maSlope computes the fractional change of the period moving average over
// the last span bars.
func maSlope(closes []float64, period, span int) (float64, bool) {
	now, okNow := sma(closes, period)
	then, okThen := smaAt(closes, period, span)
	if !okNow || !okThen || then == 0 {
		return 0, false
	}
	return (now - then) / then, true
}

func setOrNull(fs models.FeatureSet, name string, compute func() (float64, bool)) {
	if v, ok := compute(); ok {
		fs.Set(name, v)
	} else {
		fs.SetNull(name)
	}
}
