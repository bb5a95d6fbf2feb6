package usecase

import (
	"context"
	"sync"
	"time"

	"SignalPulse/internal/domain/models"
	domrepo "SignalPulse/internal/domain/repository"
	domsvc "SignalPulse/internal/domain/service"
	"SignalPulse/internal/services/features"
	"SignalPulse/internal/services/news"
	"SignalPulse/internal/services/predictor"
	applogger "SignalPulse/pkg/logger"
)

// Orchestrator runs one full analysis batch over a symbol universe. Each
// symbol is self-contained: its failure is recorded in the report and never
// aborts the batch.
type Orchestrator struct {
	market    domrepo.MarketData
	short     predictor.Strategy
	long      predictor.Strategy
	newsAgg   *news.Aggregator
	sentiment domsvc.SentimentAssessor
	fusion    *Fusion
	pacer     domsvc.Pacer
	sink      domrepo.ResultSink
	publisher domrepo.ReportPublisher
	failures  domrepo.FailureQueue
	metrics   domrepo.Metrics
	l         *applogger.Logger

	marketTimeout time.Duration
	lookbackDays  int
}

// OrchestratorOption configures optional collaborators.
type OrchestratorOption func(*Orchestrator)

func WithResultSink(sink domrepo.ResultSink) OrchestratorOption {
	return func(o *Orchestrator) { o.sink = sink }
}

func WithReportPublisher(p domrepo.ReportPublisher) OrchestratorOption {
	return func(o *Orchestrator) { o.publisher = p }
}

func WithFailureQueue(q domrepo.FailureQueue) OrchestratorOption {
	return func(o *Orchestrator) { o.failures = q }
}

func WithMarketTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.marketTimeout = d }
}

func WithLookbackDays(days int) OrchestratorOption {
	return func(o *Orchestrator) { o.lookbackDays = days }
}

const (
	defaultMarketTimeout = 10 * time.Second
	defaultLookbackDays  = 90
)

func NewOrchestrator(
	market domrepo.MarketData,
	short, long predictor.Strategy,
	newsAgg *news.Aggregator,
	sentimentAnalyzer domsvc.SentimentAssessor,
	fusion *Fusion,
	pacer domsvc.Pacer,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		market:        market,
		short:         short,
		long:          long,
		newsAgg:       newsAgg,
		sentiment:     sentimentAnalyzer,
		fusion:        fusion,
		pacer:         pacer,
		metrics:       metrics,
		l:             l,
		marketTimeout: defaultMarketTimeout,
		lookbackDays:  defaultLookbackDays,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run analyzes every symbol in order, pacing between them, and produces the
// batch report. The report is persisted, published and failure-queued on a
// best-effort basis: none of those sinks can fail the run.
func (o *Orchestrator) Run(ctx context.Context, symbols []string, mode FusionMode) (*models.BatchReport, error) {
	start := time.Now()
	report := &models.BatchReport{
		SymbolsAnalyzed: symbols,
		Signals:         make(map[string]*models.FusedSignal),
		Failures:        make(map[string]string),
		Mode:            string(mode),
		Timestamp:       start.UTC(),
	}

	for i, symbol := range symbols {
		if i > 0 && o.pacer != nil {
			if err := o.pacer.Wait(ctx); err != nil {
				return report, err
			}
		}

		signal, err := o.analyzeSymbol(ctx, symbol, mode)
		if err != nil {
			if o.l != nil {
				o.l.Warn("symbol analysis failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			report.Failures[symbol] = err.Error()
			o.enqueueFailure(ctx, symbol, err)
			continue
		}
		report.Signals[symbol] = signal
		if o.metrics != nil {
			o.metrics.RecordSignal(string(mode), symbol, signal.Direction)
			o.metrics.RecordConfidence(symbol, signal.Confidence)
		}
	}

	report.FailureCount = len(report.Failures)
	if len(symbols) > 0 {
		report.SuccessRate = float64(len(report.Signals)) / float64(len(symbols)) * 100
	}
	if o.metrics != nil {
		o.metrics.RecordBatch(report.SuccessRate)
		o.metrics.RecordLatency("batch_run", time.Since(start).Seconds())
	}
	if o.l != nil {
		o.l.Info("batch complete",
			applogger.Int("symbols", len(symbols)),
			applogger.Int("signals", len(report.Signals)),
			applogger.Int("failures", report.FailureCount),
			applogger.Float64("success_rate", report.SuccessRate),
			applogger.Duration("elapsed", time.Since(start)),
		)
	}

	o.deliver(ctx, report)
	return report, nil
}

// AnalyzeOne analyzes a single symbol without report delivery or failure
// queueing. Used by the retry path, where requeueing is the queue's own
// concern.
func (o *Orchestrator) AnalyzeOne(ctx context.Context, symbol string, mode FusionMode) (*models.FusedSignal, error) {
	return o.analyzeSymbol(ctx, symbol, mode)
}

// analyzeSymbol produces one fused signal: market fetch, predictor fan-out,
// news plus sentiment, then fusion. The two predictors run concurrently and
// fail independently.
func (o *Orchestrator) analyzeSymbol(ctx context.Context, symbol string, mode FusionMode) (*models.FusedSignal, error) {
	series, err := o.fetchSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}
	last, ok := series.Last()
	if !ok {
		return nil, models.PipelineErrorf(models.KindInsufficientData, "orchestrator.analyze",
			"no bars for %s", symbol)
	}
	currentPrice := last.Close

	shortPred, longPred := o.runPredictors(ctx, symbol, series)

	articles := o.newsAgg.Fetch(ctx, symbol)
	assessment := o.sentiment.Assess(ctx, symbol, articles)

	signal, err := o.fusion.Fuse(mode, symbol, currentPrice, shortPred, longPred, assessment)
	if err != nil {
		return nil, err
	}

	if fs := features.Extract(series); fs != nil {
		signal.Features = features.Normalize(fs, currentPrice)
	}
	return signal, nil
}

func (o *Orchestrator) fetchSeries(ctx context.Context, symbol string) (models.Series, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, o.marketTimeout)
	defer cancel()

	start := time.Now()
	series, err := o.market.Candles(fetchCtx, symbol, o.lookbackDays)
	if o.metrics != nil {
		o.metrics.RecordLatency("market_fetch", time.Since(start).Seconds())
	}
	if err != nil {
		if o.metrics != nil {
			o.metrics.RecordProviderError("market_data")
		}
		return nil, err
	}
	return series, nil
}

// runPredictors fans out both strategies and joins by identity. A failed
// strategy contributes nil; fusion decides what that means.
func (o *Orchestrator) runPredictors(ctx context.Context, symbol string, series models.Series) (*models.PricePrediction, *models.PricePrediction) {
	strategies := [2]predictor.Strategy{o.short, o.long}
	var results [2]*models.PricePrediction

	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)
		go func(i int, s predictor.Strategy) {
			defer wg.Done()
			p, err := s.Predict(ctx, series)
			if err != nil {
				if o.l != nil {
					o.l.Warn("price model failed",
						applogger.String("model", s.Name()),
						applogger.String("symbol", symbol),
						applogger.Error(err),
					)
				}
				if o.metrics != nil {
					o.metrics.RecordProviderError(s.Name())
				}
				return
			}
			results[i] = p
		}(i, s)
	}
	wg.Wait()

	return results[0], results[1]
}

// deliver stores, publishes and logs the report. Each sink failure is
// logged and swallowed: the report already exists and is returned upstream.
func (o *Orchestrator) deliver(ctx context.Context, report *models.BatchReport) {
	if o.sink != nil {
		if err := o.sink.StoreReport(ctx, report); err != nil && o.l != nil {
			o.l.Error("report store failed", applogger.Error(err))
		}
	}
	if o.publisher != nil {
		if err := o.publisher.Publish(ctx, report); err != nil && o.l != nil {
			o.l.Error("report publish failed", applogger.Error(err))
		}
	}
}

func (o *Orchestrator) enqueueFailure(ctx context.Context, symbol string, cause error) {
	if o.failures == nil {
		return
	}
	if err := o.failures.Enqueue(ctx, symbol, cause.Error()); err != nil && o.l != nil {
		o.l.Error("failure enqueue failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
}
