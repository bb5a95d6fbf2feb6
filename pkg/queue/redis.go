package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"SignalPulse/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const retrySweepInterval = 5 * time.Second

// RedisQueue is a Redis-backed job queue. Messages live on a list, delayed
// retries on a sorted set scored by their due time, and exhausted messages
// on a dead-letter list. One process runs both the producer and consumer
// sides.
type RedisQueue struct {
	logger    *logger.Logger
	config    *QueueConfig
	client    *redis.Client
	keyPrefix string

	mu      sync.RWMutex
	jobs    map[string]Job
	running bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// RedisQueueOption configures RedisQueue.
type RedisQueueOption func(*RedisQueue)

// WithKeyPrefix overrides the Redis key namespace.
func WithKeyPrefix(prefix string) RedisQueueOption {
	return func(q *RedisQueue) {
		q.keyPrefix = prefix
	}
}

// NewRedisQueue creates a queue. Start must be called before messages are
// produced or consumed.
func NewRedisQueue(lgr *logger.Logger, config *QueueConfig, client *redis.Client, opts ...RedisQueueOption) *RedisQueue {
	if config == nil {
		config = &QueueConfig{}
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &RedisQueue{
		logger:    lgr,
		config:    config,
		client:    client,
		keyPrefix: "signalpulse:queue",
		jobs:      make(map[string]Job),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// RegisterJob binds a job to its message type. Later registrations for the
// same type are ignored.
func (q *RedisQueue) RegisterJob(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.jobs[job.Type()]; exists {
		q.logger.Warn("job already registered", logger.String("job", job.Name()))
		return
	}
	q.jobs[job.Type()] = job
	q.logger.Info("job registered",
		logger.String("job", job.Name()),
		logger.String("type", job.Type()))
}

// Start verifies the Redis connection and launches workers plus the retry
// sweeper.
func (q *RedisQueue) Start() error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return fmt.Errorf("queue already running")
	}
	q.running = true
	q.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.client.Ping(ctx).Err(); err != nil {
		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
		return fmt.Errorf("redis ping: %w", err)
	}

	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	q.wg.Add(1)
	go q.retrySweeper()

	q.logger.Info("redis queue started",
		logger.Int("workers", q.config.Workers),
		logger.String("prefix", q.keyPrefix))
	return nil
}

// Stop cancels workers and waits for them, bounded by ctx.
func (q *RedisQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	q.mu.Unlock()

	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		q.logger.Warn("timeout waiting for queue workers", logger.Error(ctx.Err()))
		return fmt.Errorf("timeout: %w", ctx.Err())
	case <-done:
		q.logger.Info("redis queue stopped")
		return nil
	}
}

// PublishMessage enqueues a payload under the given type (implements
// QueueService).
func (q *RedisQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	q.mu.RLock()
	running := q.running
	_, registered := q.jobs[msgType]
	q.mu.RUnlock()

	if !running {
		return fmt.Errorf("queue not running")
	}
	if !registered {
		return fmt.Errorf("no job registered for type: %s", msgType)
	}

	msg := Message{
		ID:        strconv.FormatInt(time.Now().UnixNano(), 10),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := q.client.LPush(ctx, q.queueKey(), data).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}
	return nil
}

func (q *RedisQueue) worker(id int) {
	defer q.wg.Done()

	for {
		select {
		case <-q.ctx.Done():
			q.logger.Info("queue worker stopped", logger.Int("worker_id", id))
			return
		default:
			q.consumeOne()
		}
	}
}

// consumeOne blocks up to a second waiting for a message, then dispatches
// it to the registered job.
func (q *RedisQueue) consumeOne() {
	result, err := q.client.BRPop(q.ctx, time.Second, q.queueKey()).Result()
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil),
			errors.Is(err, context.DeadlineExceeded),
			errors.Is(err, context.Canceled):
			return
		default:
			q.logger.Error("brpop error", logger.Error(err))
			time.Sleep(time.Second)
			return
		}
	}
	if len(result) < 2 {
		return
	}

	var msg Message
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		q.logger.Error("unmarshal message", logger.Error(err))
		return
	}
	q.dispatch(msg)
}

func (q *RedisQueue) dispatch(msg Message) {
	q.mu.RLock()
	job, exists := q.jobs[msg.Type]
	q.mu.RUnlock()
	if !exists {
		q.logger.Error("no job for message type",
			logger.String("type", msg.Type),
			logger.String("id", msg.ID))
		return
	}

	err := job.Handle(q.ctx, rawPayload(msg.Payload))
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		q.logger.Warn("message cancelled",
			logger.String("id", msg.ID),
			logger.String("job", job.Name()))
		return
	}

	q.logger.Error("message processing error",
		logger.String("id", msg.ID),
		logger.String("job", job.Name()),
		logger.Int("attempt", msg.Attempts+1),
		logger.Error(err))

	if msg.Attempts >= q.config.RetryLimit {
		q.logger.Error("max retries reached, dead-lettering",
			logger.String("id", msg.ID),
			logger.String("job", job.Name()))
		q.deadLetter(msg)
		return
	}

	msg.Attempts++
	q.scheduleRetry(msg, time.Now().Add(q.config.RetryDelay))
}

// rawPayload re-encodes map payloads so jobs can unmarshal them into their
// own types via ParsePayload.
func rawPayload(payload interface{}) interface{} {
	m, ok := payload.(map[string]interface{})
	if !ok {
		return payload
	}
	data, err := json.Marshal(m)
	if err != nil {
		return payload
	}
	return json.RawMessage(data)
}

func (q *RedisQueue) scheduleRetry(msg Message, due time.Time) {
	data, err := json.Marshal(msg)
	if err != nil {
		q.logger.Error("marshal retry", logger.Error(err))
		return
	}
	err = q.client.ZAdd(context.Background(), q.retryKey(), redis.Z{
		Score:  float64(due.Unix()),
		Member: data,
	}).Err()
	if err != nil {
		q.logger.Error("zadd retry", logger.Error(err))
	}
}

func (q *RedisQueue) deadLetter(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		q.logger.Error("marshal dlq", logger.Error(err))
		return
	}
	if err := q.client.LPush(context.Background(), q.dlqKey(), data).Err(); err != nil {
		q.logger.Error("lpush dlq", logger.Error(err))
	}
}

// retrySweeper periodically moves due retries back onto the main queue.
func (q *RedisQueue) retrySweeper() {
	defer q.wg.Done()

	ticker := time.NewTicker(retrySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.requeueDue()
		}
	}
}

func (q *RedisQueue) requeueDue() {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	due, err := q.client.ZRangeByScore(q.ctx, q.retryKey(), &redis.ZRangeBy{
		Min: "0",
		Max: now,
	}).Result()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			q.logger.Error("fetch due retries", logger.Error(err))
		}
		return
	}

	for _, member := range due {
		select {
		case <-q.ctx.Done():
			return
		default:
		}

		pipe := q.client.TxPipeline()
		pipe.ZRem(q.ctx, q.retryKey(), member)
		pipe.LPush(q.ctx, q.queueKey(), member)
		if _, err := pipe.Exec(q.ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			q.logger.Error("requeue retry", logger.Error(err))
		}
	}
}

func (q *RedisQueue) queueKey() string {
	return q.keyPrefix + ":messages"
}

func (q *RedisQueue) retryKey() string {
	return q.keyPrefix + ":retry"
}

func (q *RedisQueue) dlqKey() string {
	return q.keyPrefix + ":dlq"
}
