package sentiment

import (
	"context"

	"SignalPulse/internal/domain/models"
	domrepo "SignalPulse/internal/domain/repository"
	domsvc "SignalPulse/internal/domain/service"
	applogger "SignalPulse/pkg/logger"
)

// Analyzer runs the sentiment fallback chain: each hosted-model provider is
// tried once, in order, and the rule-based tally closes the chain. The
// chain as a whole never fails.
type Analyzer struct {
	providers []domsvc.SentimentProvider
	rule      *RuleBased
	l         *applogger.Logger
	metrics   domrepo.Metrics
}

func NewAnalyzer(l *applogger.Logger, metrics domrepo.Metrics, providers ...domsvc.SentimentProvider) *Analyzer {
	return &Analyzer{
		providers: providers,
		rule:      NewRuleBased(),
		l:         l,
		metrics:   metrics,
	}
}

// Assess produces a sentiment assessment for symbol from the given
// articles. An empty article list short-circuits to the no-data outcome
// without touching any provider. Providers are tried strictly in order;
// the first parseable response wins.
func (a *Analyzer) Assess(ctx context.Context, symbol string, articles []models.NewsArticle) *models.SentimentAssessment {
	if len(articles) == 0 {
		return models.NoDataAssessment()
	}

	prompt := BuildPrompt(symbol, articles)
	for _, p := range a.providers {
		assessment, err := a.tryProvider(ctx, p, prompt)
		if err != nil {
			if a.l != nil {
				a.l.Warn("sentiment provider failed, falling back",
					applogger.String("provider", p.Name()),
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			if a.metrics != nil {
				a.metrics.RecordProviderError(p.Name())
			}
			continue
		}
		assessment.Method = p.Name()
		assessment.SourceCount = len(articles)
		if a.l != nil {
			a.l.Debug("sentiment assessed",
				applogger.String("symbol", symbol),
				applogger.String("method", assessment.Method),
				applogger.String("sentiment", string(assessment.Sentiment)),
				applogger.Float64("confidence", assessment.Confidence),
			)
		}
		return assessment
	}

	return a.rule.Assess(articles)
}

var _ domsvc.SentimentAssessor = (*Analyzer)(nil)

func (a *Analyzer) tryProvider(ctx context.Context, p domsvc.SentimentProvider, prompt string) (*models.SentimentAssessment, error) {
	content, err := p.Analyze(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseAssessment(content)
}
