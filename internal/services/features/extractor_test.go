package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalPulse/internal/domain/models"
)

func seriesOf(closes []float64) models.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, len(closes))
	for i, c := range closes {
		s[i] = models.Bar{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000 + float64(i),
		}
	}
	return s
}

func risingSeries(n int) models.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return seriesOf(closes)
}

func TestExtractInsufficientHistory(t *testing.T) {
	assert.Nil(t, Extract(risingSeries(MinBars-1)))
	assert.Nil(t, Extract(nil))
}

func TestExtractRSIAllGains(t *testing.T) {
	fs := Extract(risingSeries(60))
	require.NotNil(t, fs)

	v, ok := fs.Get("rsi_14")
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestExtractOscillatorBounds(t *testing.T) {
	closes := []float64{
		100, 102, 99, 101, 98, 103, 100, 104, 97, 105,
		101, 99, 102, 100, 103, 98, 104, 101, 106, 99,
		103, 100, 105, 102, 107, 101, 104, 99, 106, 103,
		108, 102, 105, 100, 107, 104, 109, 103, 106, 101,
		108, 105, 110, 104, 107, 102, 109, 106, 111, 105,
		108, 103, 110, 107, 112, 106,
	}
	fs := Extract(seriesOf(closes))
	require.NotNil(t, fs)

	rsi, ok := fs.Get("rsi_14")
	require.True(t, ok)
	assert.GreaterOrEqual(t, rsi, 0.0)
	assert.LessOrEqual(t, rsi, 100.0)

	k, ok := fs.Get("stoch_k")
	require.True(t, ok)
	assert.GreaterOrEqual(t, k, 0.0)
	assert.LessOrEqual(t, k, 100.0)

	wr, ok := fs.Get("williams_r")
	require.True(t, ok)
	assert.GreaterOrEqual(t, wr, -100.0)
	assert.LessOrEqual(t, wr, 0.0)
}

func TestExtractMovingAverages(t *testing.T) {
	fs := Extract(risingSeries(50))
	require.NotNil(t, fs)

	// Last 5 closes are 145..149.
	sma5, ok := fs.Get("sma_5")
	require.True(t, ok)
	assert.InDelta(t, 147, sma5, 1e-9)

	// Exactly 50 bars of history: sma_50 present, wider lookbacks survive
	// as nulls inside the set.
	_, ok = fs.Get("sma_50")
	assert.True(t, ok)
}

func TestExtractReturnFeatures(t *testing.T) {
	fs := Extract(risingSeries(60))
	require.NotNil(t, fs)

	r1, ok := fs.Get("return_1d")
	require.True(t, ok)
	assert.InDelta(t, 1.0/158.0, r1, 1e-9)
}
