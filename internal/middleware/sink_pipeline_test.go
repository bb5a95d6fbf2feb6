package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalPulse/internal/domain/models"
)

type memorySink struct {
	mu      sync.Mutex
	reports []*models.BatchReport
	err     error
}

func (s *memorySink) Init(ctx context.Context) error { return nil }

func (s *memorySink) StoreReport(ctx context.Context, r *models.BatchReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *memorySink) stored() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

func (s *memorySink) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *memorySink) LatestSignal(ctx context.Context, symbol string) (*models.FusedSignal, error) {
	return nil, nil
}

func (s *memorySink) LatestReports(ctx context.Context, limit int) ([]*models.BatchReport, error) {
	return nil, nil
}

func (s *memorySink) Health(ctx context.Context) error { return nil }
func (s *memorySink) Close() error                     { return nil }

func validTestReport() *models.BatchReport {
	return &models.BatchReport{
		SymbolsAnalyzed: []string{"AAPL"},
		Signals:         map[string]*models.FusedSignal{},
		SuccessRate:     100,
		Mode:            "technical",
		Timestamp:       time.Now().UTC(),
	}
}

func TestPipelineForwardsValidReport(t *testing.T) {
	inner := &memorySink{}
	p := NewSinkPipeline(inner, nil)

	require.NoError(t, p.StoreReport(context.Background(), validTestReport()))
	assert.Equal(t, 1, inner.stored())
}

func TestPipelineRejectsInvalidReports(t *testing.T) {
	inner := &memorySink{}
	p := NewSinkPipeline(inner, nil)
	ctx := context.Background()

	assert.Error(t, p.StoreReport(ctx, nil))

	r := validTestReport()
	r.Timestamp = time.Time{}
	assert.Error(t, p.StoreReport(ctx, r))

	r = validTestReport()
	r.SuccessRate = 120
	assert.Error(t, p.StoreReport(ctx, r))

	assert.Zero(t, inner.stored())
}

func TestPipelineBuffersOnStoreFailure(t *testing.T) {
	inner := &memorySink{err: errors.New("clickhouse down")}
	p := NewSinkPipeline(inner, nil, WithBufferSize(2))

	err := p.StoreReport(context.Background(), validTestReport())
	require.Error(t, err)
	// The report sits in the retry buffer awaiting the background flush.
	assert.Len(t, p.bufCh, 1)
}

func TestPipelineBackgroundFlushRecovers(t *testing.T) {
	inner := &memorySink{err: errors.New("transient")}
	p := NewSinkPipeline(inner, nil, WithBufferSize(2))
	_ = p.StoreReport(context.Background(), validTestReport())

	inner.setErr(nil)
	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool {
		return inner.stored() == 1
	}, 2*time.Second, 20*time.Millisecond)
}
