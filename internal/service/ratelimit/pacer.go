package ratelimit

import (
	"context"
	"time"

	domsvc "SignalPulse/internal/domain/service"
)

// DefaultPace is the documented delay between per-symbol analyses.
const DefaultPace = 2 * time.Second

// IntervalPacer blocks a fixed interval between calls, respecting
// cancellation. It keeps upstream news and sentiment providers within
// their rate limits.
type IntervalPacer struct {
	interval time.Duration
}

func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	if interval <= 0 {
		interval = DefaultPace
	}
	return &IntervalPacer{interval: interval}
}

func (p *IntervalPacer) Wait(ctx context.Context) error {
	t := time.NewTimer(p.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ domsvc.Pacer = (*IntervalPacer)(nil)
