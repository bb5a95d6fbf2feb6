package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalPulse/internal/domain/models"
	"SignalPulse/internal/services/news"
)

type fakeMarket struct {
	series map[string]models.Series
	errs   map[string]error
}

func (m *fakeMarket) Candles(ctx context.Context, symbol string, lookbackDays int) (models.Series, error) {
	if err, ok := m.errs[symbol]; ok {
		return nil, err
	}
	return m.series[symbol], nil
}

type stubStrategy struct {
	name string
	pred *models.PricePrediction
	err  error
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Predict(ctx context.Context, series models.Series) (*models.PricePrediction, error) {
	return s.pred, s.err
}

type stubAssessor struct {
	calls int
}

func (s *stubAssessor) Assess(ctx context.Context, symbol string, articles []models.NewsArticle) *models.SentimentAssessment {
	s.calls++
	return &models.SentimentAssessment{
		Sentiment:  models.SentimentNeutral,
		Confidence: 0.5,
		Method:     "rule_based",
	}
}

type countingPacer struct {
	waits int
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return nil
}

type capturingSink struct {
	reports []*models.BatchReport
}

func (c *capturingSink) Init(ctx context.Context) error { return nil }

func (c *capturingSink) StoreReport(ctx context.Context, r *models.BatchReport) error {
	c.reports = append(c.reports, r)
	return nil
}

func (c *capturingSink) LatestSignal(ctx context.Context, symbol string) (*models.FusedSignal, error) {
	return nil, nil
}

func (c *capturingSink) LatestReports(ctx context.Context, limit int) ([]*models.BatchReport, error) {
	return nil, nil
}

func (c *capturingSink) Health(ctx context.Context) error { return nil }
func (c *capturingSink) Close() error                     { return nil }

type capturingQueue struct {
	symbols []string
}

func (q *capturingQueue) Enqueue(ctx context.Context, symbol, reason string) error {
	q.symbols = append(q.symbols, symbol)
	return nil
}

type capturingPublisher struct {
	published int
}

func (p *capturingPublisher) Publish(ctx context.Context, r *models.BatchReport) error {
	p.published++
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func shortBarSeries(price float64, n int) models.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, n)
	for i := range s {
		s[i] = models.Bar{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Open:      price, High: price, Low: price, Close: price,
			Volume: 1000,
		}
	}
	return s
}

func testOrchestrator(market *fakeMarket, opts ...OrchestratorOption) (*Orchestrator, *countingPacer, *stubAssessor) {
	pacer := &countingPacer{}
	assessor := &stubAssessor{}
	o := NewOrchestrator(
		market,
		&stubStrategy{name: "short_horizon", pred: &models.PricePrediction{PredictedPrice: 101, Direction: models.DirectionUp, Confidence: 0.8, ModelName: "short_horizon"}},
		&stubStrategy{name: "long_horizon", pred: &models.PricePrediction{PredictedPrice: 103, Direction: models.DirectionUp, Confidence: 0.6, ModelName: "long_horizon"}},
		news.NewAggregator(nil, nil),
		assessor,
		NewFusion(),
		pacer,
		nil,
		nil,
		opts...,
	)
	return o, pacer, assessor
}

func TestRunPartialFailures(t *testing.T) {
	market := &fakeMarket{
		series: map[string]models.Series{
			"AAPL": shortBarSeries(100, 10),
			"MSFT": shortBarSeries(200, 10),
			"NVDA": shortBarSeries(300, 10),
		},
		errs: map[string]error{
			"BAD1": errors.New("upstream down"),
			"BAD2": errors.New("upstream down"),
		},
	}
	queue := &capturingQueue{}
	sink := &capturingSink{}
	pub := &capturingPublisher{}
	o, pacer, _ := testOrchestrator(market,
		WithResultSink(sink),
		WithReportPublisher(pub),
		WithFailureQueue(queue),
	)

	symbols := []string{"AAPL", "BAD1", "MSFT", "BAD2", "NVDA"}
	report, err := o.Run(context.Background(), symbols, ModeTechnical)
	require.NoError(t, err)

	assert.Len(t, report.Signals, 3)
	assert.Equal(t, 2, report.FailureCount)
	assert.InDelta(t, 60.0, report.SuccessRate, 1e-9)
	assert.Equal(t, string(ModeTechnical), report.Mode)

	// Pacing applies between symbols, not before the first.
	assert.Equal(t, len(symbols)-1, pacer.waits)

	assert.ElementsMatch(t, []string{"BAD1", "BAD2"}, queue.symbols)
	require.Len(t, sink.reports, 1)
	assert.Same(t, report, sink.reports[0])
	assert.Equal(t, 1, pub.published)
}

func TestRunAllSucceed(t *testing.T) {
	market := &fakeMarket{series: map[string]models.Series{
		"AAPL": shortBarSeries(100, 10),
	}}
	o, _, assessor := testOrchestrator(market)

	report, err := o.Run(context.Background(), []string{"AAPL"}, ModeTechnical)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, report.SuccessRate, 1e-9)
	assert.Equal(t, 1, assessor.calls)

	sig := report.Signals["AAPL"]
	require.NotNil(t, sig)
	assert.Equal(t, 100.0, sig.CurrentPrice)
	assert.InDelta(t, 101.9, sig.PredictedPrice, 1e-9)
	// Ten bars cannot produce a feature set.
	assert.Nil(t, sig.Features)
}

func TestRunEmptySeriesFailsSymbol(t *testing.T) {
	market := &fakeMarket{series: map[string]models.Series{"THIN": nil}}
	o, _, _ := testOrchestrator(market)

	report, err := o.Run(context.Background(), []string{"THIN"}, ModeTechnical)
	require.NoError(t, err)
	assert.Empty(t, report.Signals)
	assert.Equal(t, 1, report.FailureCount)
}

func TestRunOneModelFailureStillSignals(t *testing.T) {
	market := &fakeMarket{series: map[string]models.Series{
		"AAPL": shortBarSeries(100, 10),
	}}
	pacer := &countingPacer{}
	o := NewOrchestrator(
		market,
		&stubStrategy{name: "short_horizon", err: errors.New("model exploded")},
		&stubStrategy{name: "long_horizon", pred: &models.PricePrediction{PredictedPrice: 103, Direction: models.DirectionUp, Confidence: 0.6, ModelName: "long_horizon"}},
		news.NewAggregator(nil, nil),
		&stubAssessor{},
		NewFusion(),
		pacer,
		nil,
		nil,
	)

	report, err := o.Run(context.Background(), []string{"AAPL"}, ModeTechnical)
	require.NoError(t, err)

	sig := report.Signals["AAPL"]
	require.NotNil(t, sig)
	assert.True(t, sig.Components.FallbackMode)
	assert.Equal(t, 103.0, sig.PredictedPrice)
}

func TestAnalyzeOneSkipsDelivery(t *testing.T) {
	market := &fakeMarket{series: map[string]models.Series{
		"AAPL": shortBarSeries(100, 10),
	}}
	sink := &capturingSink{}
	queue := &capturingQueue{}
	o, _, _ := testOrchestrator(market, WithResultSink(sink), WithFailureQueue(queue))

	sig, err := o.AnalyzeOne(context.Background(), "AAPL", ModeTechnical)
	require.NoError(t, err)
	require.NotNil(t, sig)
	assert.Empty(t, sink.reports)
	assert.Empty(t, queue.symbols)
}
