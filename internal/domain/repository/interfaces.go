package repository

import (
	"context"

	"SignalPulse/internal/domain/models"
)

// MarketData provides fresh OHLCV history for one symbol per analysis run.
// Bars are chronologically ascending; a short or empty series is a valid,
// non-exceptional outcome.
type MarketData interface {
	Candles(ctx context.Context, symbol string, lookbackDays int) (models.Series, error)
}

// ModelStore serves price-model descriptors by key. Loaded once per process
// per key by the predictor registry.
type ModelStore interface {
	Descriptor(ctx context.Context, key string) (*models.ModelDescriptor, error)
}

// ResultSink persists batch reports and serves read-back queries for the
// HTTP surface. Format and keying are the sink's concern.
type ResultSink interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreReport(ctx context.Context, r *models.BatchReport) error
	LatestSignal(ctx context.Context, symbol string) (*models.FusedSignal, error)
	LatestReports(ctx context.Context, limit int) ([]*models.BatchReport, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// ReportPublisher pushes batch reports to downstream consumers.
type ReportPublisher interface {
	Publish(ctx context.Context, r *models.BatchReport) error
	Close() error
}

// FailureQueue receives symbols whose analysis failed, for deferred retry.
type FailureQueue interface {
	Enqueue(ctx context.Context, symbol, reason string) error
}

type Metrics interface {
	RecordSignal(mode, symbol string, direction models.Direction)
	RecordProviderError(provider string)
	RecordLatency(op string, seconds float64)
	RecordConfidence(symbol string, confidence float64)
	RecordBatch(successRate float64)
}
