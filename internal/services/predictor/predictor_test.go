package predictor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalPulse/internal/domain/models"
)

type staticStore struct {
	descriptors map[string]*models.ModelDescriptor
	err         error
	calls       int
}

func (s *staticStore) Descriptor(ctx context.Context, key string) (*models.ModelDescriptor, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	d, ok := s.descriptors[key]
	if !ok {
		return nil, errors.New("unknown model")
	}
	return d, nil
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(&staticStore{err: errors.New("store down")}, nil)
}

func flatSeries(n int, price float64) models.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, n)
	for i := range s {
		s[i] = models.Bar{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    1000,
		}
	}
	return s
}

func trendingSeries(n int, start, step float64) models.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, n)
	price := start
	for i := range s {
		s[i] = models.Bar{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Open:      price,
			High:      price + step,
			Low:       price,
			Close:     price + step,
			Volume:    1000 + 50*float64(i),
		}
		price += step
	}
	return s
}

func TestShortHorizonFlatSeriesIsNeutral(t *testing.T) {
	p := NewShortHorizon(testRegistry(t))
	pred, err := p.Predict(context.Background(), flatSeries(40, 100))
	require.NoError(t, err)

	assert.Equal(t, models.DirectionNeutral, pred.Direction)
	assert.Zero(t, pred.RawChange)
	assert.Equal(t, 100.0, pred.PredictedPrice)
	// Zero move means no exponential decay: confidence equals accuracy.
	assert.InDelta(t, 0.72, pred.Confidence, 1e-9)
}

func TestLongHorizonFlatSeriesIsNeutral(t *testing.T) {
	p := NewLongHorizon(testRegistry(t))
	pred, err := p.Predict(context.Background(), flatSeries(40, 100))
	require.NoError(t, err)

	assert.Equal(t, models.DirectionNeutral, pred.Direction)
	assert.Zero(t, pred.RawChange)
	assert.InDelta(t, 0.68, pred.Confidence, 1e-9)
}

func TestPredictInsufficientHistory(t *testing.T) {
	for _, s := range []Strategy{NewShortHorizon(testRegistry(t)), NewLongHorizon(testRegistry(t))} {
		_, err := s.Predict(context.Background(), flatSeries(MinBars-1, 100))
		require.Error(t, err)
		assert.True(t, models.IsKind(err, models.KindInsufficientData))
	}
}

func TestPredictChangeStaysClamped(t *testing.T) {
	// A violent uptrend: the raw signal is large but the change is bounded.
	s := trendingSeries(MinBars, 10, 5)
	p := NewLongHorizon(testRegistry(t))
	pred, err := p.Predict(context.Background(), s)
	require.NoError(t, err)

	assert.LessOrEqual(t, pred.RawChange, maxChange)
	assert.GreaterOrEqual(t, pred.RawChange, -maxChange)
	assert.Equal(t, models.DirectionUp, pred.Direction)
	assert.GreaterOrEqual(t, pred.Confidence, minConfidence)
	assert.LessOrEqual(t, pred.Confidence, maxConfidence)
}

func TestRegistryMemoizesDescriptor(t *testing.T) {
	store := &staticStore{descriptors: map[string]*models.ModelDescriptor{
		ModelShortHorizon: {Name: ModelShortHorizon, Architecture: "lstm", Accuracy: 0.9},
	}}
	r := NewRegistry(store, nil)

	for i := 0; i < 3; i++ {
		d, err := r.Load(context.Background(), ModelShortHorizon)
		require.NoError(t, err)
		assert.InDelta(t, 0.9, d.Accuracy, 1e-9)
	}
	assert.Equal(t, 1, store.calls)
}

func TestRegistryFallsBackToDefaults(t *testing.T) {
	r := NewRegistry(&staticStore{err: errors.New("store down")}, nil)

	d, err := r.Load(context.Background(), ModelLongHorizon)
	require.NoError(t, err)
	assert.InDelta(t, 0.68, d.Accuracy, 1e-9)
}

func TestRegistryUnknownKeyFails(t *testing.T) {
	r := NewRegistry(&staticStore{err: errors.New("store down")}, nil)

	_, err := r.Load(context.Background(), "no_such_model")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindProviderUnavailable))
}
