package news

import (
	"context"
	"strings"
	"time"

	"SignalPulse/internal/domain/models"
	xhttp "SignalPulse/pkg/http"
)

// avTimeFormat is Alpha Vantage's compact timestamp, e.g. 20240115T133000.
const avTimeFormat = "20060102T150405"

// AlphaVantage fetches the NEWS_SENTIMENT feed. It is the one provider
// that supplies its own per-article sentiment assessment.
type AlphaVantage struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
}

func NewAlphaVantage(apiKey, baseURL string, timeout time.Duration) *AlphaVantage {
	return &AlphaVantage{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (p *AlphaVantage) Name() string { return "alphavantage" }

type avFeedItem struct {
	Title                 string  `json:"title"`
	Summary               string  `json:"summary"`
	URL                   string  `json:"url"`
	TimePublished         string  `json:"time_published"`
	Source                string  `json:"source"`
	OverallSentimentScore float64 `json:"overall_sentiment_score"`
	OverallSentimentLabel string  `json:"overall_sentiment_label"`
}

type avResponse struct {
	Feed []avFeedItem `json:"feed"`
}

func (p *AlphaVantage) Fetch(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	if p.apiKey == "" {
		return nil, models.PipelineErrorf(models.KindProviderUnavailable, "news.alphavantage",
			"api key not configured")
	}

	var resp avResponse
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL + "/query",
		QueryParams: map[string][]string{
			"function": {"NEWS_SENTIMENT"},
			"tickers":  {symbol},
			"limit":    {"20"},
			"apikey":   {p.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, models.NewPipelineError(models.KindProviderUnavailable, "news.alphavantage", err)
	}

	out := make([]models.NewsArticle, 0, len(resp.Feed))
	for _, item := range resp.Feed {
		published, err := time.Parse(avTimeFormat, item.TimePublished)
		if err != nil {
			published = time.Time{}
		}
		out = append(out, models.NewsArticle{
			Title:       item.Title,
			Summary:     item.Summary,
			PublishedAt: published,
			Source:      item.Source,
			URL:         item.URL,
			SourceType:  p.Name(),
			Sentiment: &models.ArticleSentiment{
				Label: avLabel(item.OverallSentimentLabel),
				Score: item.OverallSentimentScore,
			},
		})
	}
	return out, nil
}

// avLabel maps Alpha Vantage labels (Bullish, Somewhat-Bullish, Neutral,
// Somewhat-Bearish, Bearish) to ours.
func avLabel(label string) models.Sentiment {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "bullish"):
		return models.SentimentBullish
	case strings.Contains(l, "bearish"):
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}
