package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalPulse/internal/domain/models"
)

func candleServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/candle", r.URL.Path)
		assert.Equal(t, "D", r.URL.Query().Get("resolution"))
		assert.NotEmpty(t, r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestCandlesParsesColumns(t *testing.T) {
	srv := candleServer(t, `{
		"s": "ok",
		"o": [100, 101],
		"h": [102, 103],
		"l": [99, 100],
		"c": [101, 102],
		"v": [5000, 6000],
		"t": [1704067200, 1704153600]
	}`)
	defer srv.Close()

	c := New("key", srv.URL, 2*time.Second)
	series, err := c.Candles(context.Background(), "AAPL", 90)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, 101.0, series[0].Close)
	assert.Equal(t, 6000.0, series[1].Volume)
	assert.True(t, series.Ascending())
}

func TestCandlesNoDataIsEmptySeries(t *testing.T) {
	srv := candleServer(t, `{"s": "no_data"}`)
	defer srv.Close()

	c := New("key", srv.URL, 2*time.Second)
	series, err := c.Candles(context.Background(), "AAPL", 90)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestCandlesColumnMismatchIsParseError(t *testing.T) {
	srv := candleServer(t, `{
		"s": "ok",
		"o": [100],
		"h": [102, 103],
		"l": [99, 100],
		"c": [101, 102],
		"v": [5000, 6000],
		"t": [1704067200, 1704153600]
	}`)
	defer srv.Close()

	c := New("key", srv.URL, 2*time.Second)
	_, err := c.Candles(context.Background(), "AAPL", 90)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindParse))
}

func TestCandlesInconsistentBarIsParseError(t *testing.T) {
	// high below low
	srv := candleServer(t, `{
		"s": "ok",
		"o": [100],
		"h": [95],
		"l": [99],
		"c": [101],
		"v": [5000],
		"t": [1704067200]
	}`)
	defer srv.Close()

	c := New("key", srv.URL, 2*time.Second)
	_, err := c.Candles(context.Background(), "AAPL", 90)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindParse))
}

func TestCandlesMissingAPIKey(t *testing.T) {
	c := New("", "http://unused", 2*time.Second)
	_, err := c.Candles(context.Background(), "AAPL", 90)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindProviderUnavailable))
}
