package features

import (
	"math"

	"SignalPulse/internal/domain/models"
)

// sma computes the simple moving average of the last period values.
func sma(vals []float64, period int) (float64, bool) {
	if period <= 0 || len(vals) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range vals[len(vals)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// smaAt computes the SMA of the last period values ending offset bars ago.
func smaAt(vals []float64, period, offset int) (float64, bool) {
	if offset < 0 || len(vals) < offset {
		return 0, false
	}
	return sma(vals[:len(vals)-offset], period)
}

// emaSeries computes an EMA seeded with the SMA of the first period values.
// out[i] is valid for i >= period-1; earlier entries are NaN.
func emaSeries(vals []float64, period int) ([]float64, bool) {
	if period <= 0 || len(vals) < period {
		return nil, false
	}
	out := make([]float64, len(vals))
	for i := 0; i < period-1; i++ {
		out[i] = math.NaN()
	}
	seed := 0.0
	for _, v := range vals[:period] {
		seed += v
	}
	prev := seed / float64(period)
	out[period-1] = prev
	k := 2.0 / float64(period+1)
	for i := period; i < len(vals); i++ {
		prev = (vals[i]-prev)*k + prev
		out[i] = prev
	}
	return out, true
}

func ema(vals []float64, period int) (float64, bool) {
	s, ok := emaSeries(vals, period)
	if !ok {
		return 0, false
	}
	return s[len(s)-1], true
}

// macd computes the MACD(12,26) line, its 9-period signal line, and the
// histogram from the closing series.
func macd(closes []float64) (line, signal, hist float64, ok bool) {
	const (
		fast       = 12
		slow       = 26
		signalSpan = 9
	)
	fastS, okF := emaSeries(closes, fast)
	slowS, okS := emaSeries(closes, slow)
	if !okF || !okS {
		return 0, 0, 0, false
	}
	// MACD line exists from the first valid slow-EMA index.
	diff := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		diff = append(diff, fastS[i]-slowS[i])
	}
	sigS, okSig := emaSeries(diff, signalSpan)
	if !okSig {
		return 0, 0, 0, false
	}
	line = diff[len(diff)-1]
	signal = sigS[len(sigS)-1]
	return line, signal, line - signal, true
}

// rsi computes the Relative Strength Index over the last period changes.
// Zero losses in the window yields exactly 100 by convention.
func rsi(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	if losses == 0 {
		return 100, true
	}
	rs := gains / losses
	return 100 - 100/(1+rs), true
}

// bollinger computes 20-period, 2-sigma Bollinger Bands.
func bollinger(closes []float64, period int, k float64) (upper, middle, lower float64, ok bool) {
	middle, ok = sma(closes, period)
	if !ok {
		return 0, 0, 0, false
	}
	variance := 0.0
	for _, v := range closes[len(closes)-period:] {
		d := v - middle
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(period))
	return middle + k*sd, middle, middle - k*sd, true
}

// atr computes the average of the last period true ranges.
func atr(s models.Series, period int) (float64, bool) {
	if period <= 0 || len(s) < period+1 {
		return 0, false
	}
	sum := 0.0
	for i := len(s) - period; i < len(s); i++ {
		tr := s[i].High - s[i].Low
		if hc := math.Abs(s[i].High - s[i-1].Close); hc > tr {
			tr = hc
		}
		if lc := math.Abs(s[i].Low - s[i-1].Close); lc > tr {
			tr = lc
		}
		sum += tr
	}
	return sum / float64(period), true
}

// stochasticK computes the 14-period stochastic %K. A flat window maps to 50.
func stochasticK(s models.Series, period int) (float64, bool) {
	hh, ll, ok := highLow(s, period)
	if !ok {
		return 0, false
	}
	if hh == ll {
		return 50, true
	}
	last := s[len(s)-1]
	return (last.Close - ll) / (hh - ll) * 100, true
}

// williamsR computes the 14-period Williams %R in [-100, 0].
func williamsR(s models.Series, period int) (float64, bool) {
	hh, ll, ok := highLow(s, period)
	if !ok {
		return 0, false
	}
	if hh == ll {
		return -50, true
	}
	last := s[len(s)-1]
	return (hh - last.Close) / (hh - ll) * -100, true
}

func highLow(s models.Series, period int) (hh, ll float64, ok bool) {
	if period <= 0 || len(s) < period {
		return 0, 0, false
	}
	window := s[len(s)-period:]
	hh, ll = window[0].High, window[0].Low
	for _, b := range window[1:] {
		if b.High > hh {
			hh = b.High
		}
		if b.Low < ll {
			ll = b.Low
		}
	}
	return hh, ll, true
}

// obv computes cumulative On-Balance Volume, signed by day-over-day close
// direction over the whole series.
func obv(s models.Series) float64 {
	total := 0.0
	for i := 1; i < len(s); i++ {
		switch {
		case s[i].Close > s[i-1].Close:
			total += s[i].Volume
		case s[i].Close < s[i-1].Close:
			total -= s[i].Volume
		}
	}
	return total
}

// changeOver computes the fractional price change versus n bars ago.
func changeOver(closes []float64, n int) (float64, bool) {
	if n <= 0 || len(closes) < n+1 {
		return 0, false
	}
	base := closes[len(closes)-1-n]
	if base == 0 {
		return 0, false
	}
	return (closes[len(closes)-1] - base) / base, true
}
