package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterBurstThenDeny(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("client", 3, 0))
	}
	assert.False(t, l.Allow("client", 3, 0))
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("a", 1, 0))
	assert.False(t, l.Allow("a", 1, 0))
	assert.True(t, l.Allow("b", 1, 0))
}

func TestLimiterRefills(t *testing.T) {
	l := New()
	require.True(t, l.Allow("client", 1, 100))
	require.False(t, l.Allow("client", 1, 100))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow("client", 1, 100))
}

func TestIntervalPacerRespectsCancellation(t *testing.T) {
	p := NewIntervalPacer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.Wait(ctx))
}

func TestIntervalPacerDefaultsOnNonPositiveInterval(t *testing.T) {
	p := NewIntervalPacer(0)
	assert.Equal(t, DefaultPace, p.interval)
}

func TestIntervalPacerWaits(t *testing.T) {
	p := NewIntervalPacer(10 * time.Millisecond)
	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}
