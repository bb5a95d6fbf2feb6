package news

import (
	"context"
	"time"

	"SignalPulse/internal/domain/models"
	xhttp "SignalPulse/pkg/http"
)

// finnhubLookback bounds the company-news window.
const finnhubLookback = 7 * 24 * time.Hour

// Finnhub fetches company news. Finnhub does not assess sentiment; the
// aggregator's lexical scorer fills it in.
type Finnhub struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
}

func NewFinnhub(apiKey, baseURL string, timeout time.Duration) *Finnhub {
	return &Finnhub{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (p *Finnhub) Name() string { return "finnhub" }

type fhNewsItem struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Datetime int64  `json:"datetime"` // unix seconds
	Source   string `json:"source"`
	URL      string `json:"url"`
}

func (p *Finnhub) Fetch(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	if p.apiKey == "" {
		return nil, models.PipelineErrorf(models.KindProviderUnavailable, "news.finnhub",
			"api key not configured")
	}

	now := time.Now()
	var items []fhNewsItem
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL + "/company-news",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"from":   {now.Add(-finnhubLookback).Format("2006-01-02")},
			"to":     {now.Format("2006-01-02")},
			"token":  {p.apiKey},
		},
	}, &items)
	if err != nil {
		return nil, models.NewPipelineError(models.KindProviderUnavailable, "news.finnhub", err)
	}

	const maxArticles = 20
	if len(items) > maxArticles {
		items = items[:maxArticles]
	}

	out := make([]models.NewsArticle, 0, len(items))
	for _, item := range items {
		out = append(out, models.NewsArticle{
			Title:       item.Headline,
			Summary:     item.Summary,
			PublishedAt: time.Unix(item.Datetime, 0),
			Source:      item.Source,
			URL:         item.URL,
			SourceType:  p.Name(),
		})
	}
	return out, nil
}
