package models

import "time"

// Bar is a single OHLCV record for one symbol.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Valid reports whether the bar's price bounds are internally consistent:
// high >= low, high >= max(open, close), low <= min(open, close).
func (b Bar) Valid() bool {
	if b.High < b.Low {
		return false
	}
	if b.High < b.Open || b.High < b.Close {
		return false
	}
	if b.Low > b.Open || b.Low > b.Close {
		return false
	}
	return true
}

// Series is a chronologically ascending sequence of bars for one symbol.
// It is fetched fresh per analysis run and never mutated afterwards.
type Series []Bar

// Closes returns the closing price series.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Close
	}
	return out
}

// Volumes returns the volume series.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Volume
	}
	return out
}

// Last returns the most recent bar, or false on an empty series.
func (s Series) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// Tail returns the most recent n bars (the whole series when shorter).
func (s Series) Tail(n int) Series {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Ascending reports whether timestamps are strictly increasing.
func (s Series) Ascending() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].Timestamp.After(s[i-1].Timestamp) {
			return false
		}
	}
	return true
}
