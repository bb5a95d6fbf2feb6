package news

import (
	"context"
	"sync"

	"SignalPulse/internal/domain/models"
	domrepo "SignalPulse/internal/domain/repository"
	domsvc "SignalPulse/internal/domain/service"
	applogger "SignalPulse/pkg/logger"
)

// Aggregator fans out to all configured news providers and concatenates
// their articles. A provider's failure contributes zero articles and never
// aborts the aggregation. No deduplication is performed: the same story
// appearing via two providers is an accepted property.
type Aggregator struct {
	providers []domsvc.NewsProvider
	l         *applogger.Logger
	metrics   domrepo.Metrics
}

func NewAggregator(l *applogger.Logger, metrics domrepo.Metrics, providers ...domsvc.NewsProvider) *Aggregator {
	return &Aggregator{providers: providers, l: l, metrics: metrics}
}

// Fetch collects articles for symbol from every provider concurrently,
// joining results by provider identity rather than completion order.
// Articles lacking a provider-supplied sentiment get one from the lexical
// scorer.
func (a *Aggregator) Fetch(ctx context.Context, symbol string) []models.NewsArticle {
	results := make([][]models.NewsArticle, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, p domsvc.NewsProvider) {
			defer wg.Done()
			articles, err := p.Fetch(ctx, symbol)
			if err != nil {
				if a.l != nil {
					a.l.Warn("news provider failed",
						applogger.String("provider", p.Name()),
						applogger.String("symbol", symbol),
						applogger.Error(err),
					)
				}
				if a.metrics != nil {
					a.metrics.RecordProviderError(p.Name())
				}
				return
			}
			results[i] = articles
		}(i, p)
	}
	wg.Wait()

	var out []models.NewsArticle
	for _, r := range results {
		out = append(out, r...)
	}

	for i := range out {
		if out[i].Sentiment == nil {
			label, score := ScoreText(out[i].Title + " " + out[i].Summary)
			out[i].Sentiment = &models.ArticleSentiment{Label: label, Score: score}
		}
	}

	if a.l != nil {
		a.l.Debug("news aggregated",
			applogger.String("symbol", symbol),
			applogger.Int("articles", len(out)),
		)
	}
	return out
}
