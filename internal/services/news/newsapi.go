package news

import (
	"context"
	"time"

	"SignalPulse/internal/domain/models"
	xhttp "SignalPulse/pkg/http"
	xutil "SignalPulse/pkg/util"
)

// NewsAPI fetches general-press articles mentioning the symbol. Sentiment
// comes from the lexical scorer.
type NewsAPI struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
}

func NewNewsAPI(apiKey, baseURL string, timeout time.Duration) *NewsAPI {
	return &NewsAPI{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (p *NewsAPI) Name() string { return "newsapi" }

type naArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
	URL         string `json:"url"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type naResponse struct {
	Status   string      `json:"status"`
	Articles []naArticle `json:"articles"`
}

func (p *NewsAPI) Fetch(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	if p.apiKey == "" {
		return nil, models.PipelineErrorf(models.KindProviderUnavailable, "news.newsapi",
			"api key not configured")
	}

	var resp naResponse
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL + "/v2/everything",
		QueryParams: map[string][]string{
			"q":        {symbol},
			"language": {"en"},
			"sortBy":   {"publishedAt"},
			"pageSize": {"20"},
			"apiKey":   {p.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, models.NewPipelineError(models.KindProviderUnavailable, "news.newsapi", err)
	}
	if resp.Status != "ok" {
		return nil, models.PipelineErrorf(models.KindProviderUnavailable, "news.newsapi",
			"unexpected status %q", resp.Status)
	}

	out := make([]models.NewsArticle, 0, len(resp.Articles))
	for _, item := range resp.Articles {
		out = append(out, models.NewsArticle{
			Title:       item.Title,
			Summary:     item.Description,
			PublishedAt: xutil.ParseTimeDefault(item.PublishedAt, time.Time{}),
			Source:      item.Source.Name,
			URL:         item.URL,
			SourceType:  p.Name(),
		})
	}
	return out, nil
}
