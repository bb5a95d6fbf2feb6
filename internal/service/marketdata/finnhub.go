package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"SignalPulse/internal/domain/models"
	drepo "SignalPulse/internal/domain/repository"
	xhttp "SignalPulse/pkg/http"
)

// Client fetches daily OHLCV candles from the Finnhub REST API. Bars come
// back chronologically ascending; a short or empty series is returned as-is,
// the callers own the sufficiency policy.
type Client struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
}

// New creates a Finnhub candle client.
func New(apiKey, baseURL string, timeout time.Duration) drepo.MarketData {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// candleResponse is Finnhub's column-oriented candle payload.
type candleResponse struct {
	Status string    `json:"s"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
	Unix   []int64   `json:"t"`
}

// Candles fetches up to lookbackDays of daily bars for symbol.
func (c *Client) Candles(ctx context.Context, symbol string, lookbackDays int) (models.Series, error) {
	if c.apiKey == "" {
		return nil, models.PipelineErrorf(models.KindProviderUnavailable, "marketdata.candles",
			"api key not configured")
	}

	now := time.Now()
	from := now.AddDate(0, 0, -lookbackDays)

	var resp candleResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(now.Unix(), 10)},
			"token":      {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, models.NewPipelineError(models.KindProviderUnavailable, "marketdata.candles", err)
	}

	// "no_data" is a valid empty series, not a failure.
	if resp.Status != "ok" {
		return models.Series{}, nil
	}
	return c.toSeries(&resp)
}

func (c *Client) toSeries(resp *candleResponse) (models.Series, error) {
	n := len(resp.Close)
	if len(resp.Open) != n || len(resp.High) != n || len(resp.Low) != n ||
		len(resp.Volume) != n || len(resp.Unix) != n {
		return nil, models.PipelineErrorf(models.KindParse, "marketdata.candles",
			"column length mismatch: %d closes", n)
	}

	series := make(models.Series, 0, n)
	for i := 0; i < n; i++ {
		bar := models.Bar{
			Timestamp: time.Unix(resp.Unix[i], 0).UTC(),
			Open:      resp.Open[i],
			High:      resp.High[i],
			Low:       resp.Low[i],
			Close:     resp.Close[i],
			Volume:    resp.Volume[i],
		}
		if !bar.Valid() {
			return nil, models.PipelineErrorf(models.KindParse, "marketdata.candles",
				"invalid bar at index %d", i)
		}
		series = append(series, bar)
	}
	if !series.Ascending() {
		return nil, fmt.Errorf("marketdata.candles: bars not chronologically ascending")
	}
	return series, nil
}
