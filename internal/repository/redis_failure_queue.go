package repository

import (
	"context"
	"time"

	domrepo "SignalPulse/internal/domain/repository"
	pkgqueue "SignalPulse/pkg/queue"
)

// RetryMessageType tags failed-symbol retry messages on the queue.
const RetryMessageType = "symbol_retry"

// RetryPayload is the queued record for a failed symbol.
type RetryPayload struct {
	Symbol   string    `json:"symbol"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

// RedisFailureQueue implements FailureQueue on the Redis job queue. Failed
// symbols from a batch land here for deferred re-analysis.
type RedisFailureQueue struct {
	queue pkgqueue.QueueService
}

func NewRedisFailureQueue(queue pkgqueue.QueueService) domrepo.FailureQueue {
	return &RedisFailureQueue{queue: queue}
}

func (q *RedisFailureQueue) Enqueue(ctx context.Context, symbol, reason string) error {
	return q.queue.PublishMessage(ctx, RetryMessageType, RetryPayload{
		Symbol:   symbol,
		Reason:   reason,
		FailedAt: time.Now().UTC(),
	})
}
