package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SignalPulse/internal/domain/models"
	domrepo "SignalPulse/internal/domain/repository"
)

// SinkPipeline decorates a ResultSink with validation and a retry buffer:
// a report that fails to store is buffered and re-flushed in the background
// with backoff, so a transient sink outage does not lose batch results.
type SinkPipeline struct {
	sink    domrepo.ResultSink
	metrics domrepo.Metrics
	bufSize int
	bufCh   chan *models.BatchReport
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
}

type PipelineOption func(*SinkPipeline)

// WithBufferSize sets the retry buffer capacity.
func WithBufferSize(n int) PipelineOption {
	return func(p *SinkPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewSinkPipeline creates a buffering sink decorator.
func NewSinkPipeline(sink domrepo.ResultSink, metrics domrepo.Metrics, opts ...PipelineOption) *SinkPipeline {
	p := &SinkPipeline{
		sink:    sink,
		metrics: metrics,
		bufSize: 100,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.BatchReport, p.bufSize)
	return p
}

// Start launches background flushing of buffered reports.
func (p *SinkPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 100 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case r := <-p.bufCh:
				if r == nil {
					continue
				}
				if err := p.sink.StoreReport(ctx, r); err != nil {
					if backoff < 5*time.Second {
						backoff *= 2
					}
					p.recordError("sink_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- r:
					default:
						p.recordError("sink_buffer_drop")
					}
				} else {
					backoff = 100 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *SinkPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

func (p *SinkPipeline) Init(ctx context.Context) error { return p.sink.Init(ctx) }

// StoreReport validates and forwards the report, buffering on failure.
func (p *SinkPipeline) StoreReport(ctx context.Context, r *models.BatchReport) error {
	start := time.Now()
	if err := validateReport(r); err != nil {
		p.recordError("sink_validate")
		return err
	}

	if err := p.sink.StoreReport(ctx, r); err != nil {
		p.recordError("sink_store")
		select {
		case p.bufCh <- r:
		default:
			p.recordError("sink_buffer_full")
		}
		return fmt.Errorf("sink store: %w", err)
	}
	if p.metrics != nil {
		p.metrics.RecordLatency("sink_store", time.Since(start).Seconds())
	}
	return nil
}

func (p *SinkPipeline) LatestSignal(ctx context.Context, symbol string) (*models.FusedSignal, error) {
	return p.sink.LatestSignal(ctx, symbol)
}

func (p *SinkPipeline) LatestReports(ctx context.Context, limit int) ([]*models.BatchReport, error) {
	return p.sink.LatestReports(ctx, limit)
}

func (p *SinkPipeline) Health(ctx context.Context) error { return p.sink.Health(ctx) }

func (p *SinkPipeline) Close() error { return p.sink.Close() }

func (p *SinkPipeline) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordProviderError(kind)
	}
}

func validateReport(r *models.BatchReport) error {
	if r == nil {
		return fmt.Errorf("report nil")
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("report timestamp zero")
	}
	if r.SuccessRate < 0 || r.SuccessRate > 100 {
		return fmt.Errorf("success rate %v out of range", r.SuccessRate)
	}
	return nil
}

var _ domrepo.ResultSink = (*SinkPipeline)(nil)
