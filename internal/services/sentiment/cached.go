package sentiment

import (
	"context"
	"encoding/json"
	"time"

	"SignalPulse/internal/domain/models"
	domsvc "SignalPulse/internal/domain/service"
	pkgcache "SignalPulse/pkg/cache"
	applogger "SignalPulse/pkg/logger"
)

// CachedAnalyzer fronts the fallback chain with a per-symbol cache so a
// re-run inside the TTL does not re-spend hosted-model calls. Cache failures
// degrade to a plain chain invocation.
type CachedAnalyzer struct {
	inner *Analyzer
	cache pkgcache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedAnalyzer(inner *Analyzer, cache pkgcache.Service, ttl time.Duration, l *applogger.Logger) *CachedAnalyzer {
	return &CachedAnalyzer{inner: inner, cache: cache, ttl: ttl, l: l}
}

func (c *CachedAnalyzer) Assess(ctx context.Context, symbol string, articles []models.NewsArticle) *models.SentimentAssessment {
	// The no-data outcome is free to recompute and should not shadow a
	// later run that does have articles.
	if len(articles) == 0 {
		return models.NoDataAssessment()
	}

	// Assessments cross the cache as JSON strings: the string form is the
	// one representation every cache backend round-trips losslessly.
	key := cacheKey(symbol)
	var raw string
	if err := c.cache.Get(ctx, key, &raw); err == nil {
		var cached models.SentimentAssessment
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached
		}
	} else if err != pkgcache.ErrCacheMiss && c.l != nil {
		c.l.Warn("sentiment cache read failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}

	assessment := c.inner.Assess(ctx, symbol, articles)
	if payload, err := json.Marshal(assessment); err == nil {
		if err := c.cache.Set(ctx, key, string(payload), c.ttl); err != nil && c.l != nil {
			c.l.Warn("sentiment cache write failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}
	return assessment
}

var _ domsvc.SentimentAssessor = (*CachedAnalyzer)(nil)

func cacheKey(symbol string) string {
	return pkgcache.GenerateKey("sentiment", symbol)
}
