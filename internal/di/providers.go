package di

import (
	"fmt"
	"time"

	"SignalPulse/internal/domain/repository"
	domsvc "SignalPulse/internal/domain/service"
	"SignalPulse/internal/handler/api"
	mid "SignalPulse/internal/middleware"
	internalrepo "SignalPulse/internal/repository"
	icache "SignalPulse/internal/service/cache"
	"SignalPulse/internal/service/marketdata"
	"SignalPulse/internal/service/modelregistry"
	"SignalPulse/internal/service/ratelimit"
	"SignalPulse/internal/services/news"
	"SignalPulse/internal/services/predictor"
	"SignalPulse/internal/services/sentiment"
	"SignalPulse/internal/usecase"
	pkgcache "SignalPulse/pkg/cache"
	pkgch "SignalPulse/pkg/clickhouse"
	"SignalPulse/pkg/config"
	pkgkafka "SignalPulse/pkg/kafka"
	applogger "SignalPulse/pkg/logger"
	"SignalPulse/pkg/metrics"
	pkgqueue "SignalPulse/pkg/queue"
	"SignalPulse/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client. Schema init happens
// through the sink's Init at startup.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideResultSink wraps the ClickHouse store in the buffering pipeline.
func ProvideResultSink(chClient *pkgch.Client, m repository.Metrics, l *applogger.Logger) repository.ResultSink {
	if chClient == nil {
		return nil
	}
	store := internalrepo.NewCHSignalStore(chClient)
	store.SetLogger(l)
	return mid.NewSinkPipeline(store, m, mid.WithBufferSize(100))
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideReportPublisher creates the Kafka report publisher.
func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ReportPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.ReportTopic)
}

// ProvideKafkaConsumer creates the trigger-topic consumer.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideRedisClient creates the shared Redis connection.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideRetryQueue creates the Redis job queue carrying failed-symbol
// retries. Producer and consumer sides share one queue per process.
func ProvideRetryQueue(client *redis.Client, l *applogger.Logger) *pkgqueue.RedisQueue {
	if client == nil {
		return nil
	}
	return pkgqueue.NewRedisQueue(l,
		&pkgqueue.QueueConfig{Workers: 1, RetryLimit: 3, RetryDelay: 30 * time.Second},
		client,
		pkgqueue.WithKeyPrefix("signalpulse:queue"),
	)
}

// ProvideFailureQueue exposes the retry queue as the orchestrator's
// failure sink.
func ProvideFailureQueue(q *pkgqueue.RedisQueue) repository.FailureQueue {
	if q == nil {
		return nil
	}
	return internalrepo.NewRedisFailureQueue(q)
}

// ProvideMarketData creates the candle REST client.
func ProvideMarketData(cfg *config.Config) repository.MarketData {
	return marketdata.New(cfg.MarketData.APIKey, cfg.MarketData.BaseURL, cfg.MarketData.Timeout)
}

// ProvideModelRegistry creates the descriptor registry over the HTTP store.
func ProvideModelRegistry(cfg *config.Config, l *applogger.Logger) *predictor.Registry {
	store := modelregistry.New(cfg.ModelRegistry.BaseURL, cfg.ModelRegistry.Timeout)
	return predictor.NewRegistry(store, l)
}

// ProvideNewsAggregator wires all three news providers.
func ProvideNewsAggregator(cfg *config.Config, m repository.Metrics, l *applogger.Logger) *news.Aggregator {
	return news.NewAggregator(l, m,
		news.NewAlphaVantage(cfg.News.AlphaVantage.APIKey, cfg.News.AlphaVantage.BaseURL, cfg.News.Timeout),
		news.NewFinnhub(cfg.News.Finnhub.APIKey, cfg.News.Finnhub.BaseURL, cfg.News.Timeout),
		news.NewNewsAPI(cfg.News.NewsAPI.APIKey, cfg.News.NewsAPI.BaseURL, cfg.News.Timeout),
	)
}

// ProvideSentimentAssessor wires the hosted-model chain, fronted by the
// layered cache when Redis is available.
func ProvideSentimentAssessor(cfg *config.Config, client *redis.Client, m repository.Metrics, l *applogger.Logger) domsvc.SentimentAssessor {
	analyzer := sentiment.NewAnalyzer(l, m,
		sentiment.NewOpenAI(cfg.Sentiment.OpenAI.APIKey, cfg.Sentiment.OpenAI.BaseURL, cfg.Sentiment.OpenAI.Model, cfg.Sentiment.Timeout),
		sentiment.NewGemini(cfg.Sentiment.Gemini.APIKey, cfg.Sentiment.Gemini.BaseURL, cfg.Sentiment.Gemini.Model, cfg.Sentiment.Timeout),
	)

	var svc pkgcache.Service
	if client != nil {
		svc = pkgcache.NewLayeredCache(pkgcache.NewRedisCacheWithClient(client, "signalpulse"))
	} else {
		svc = pkgcache.NewMemoryCache()
	}
	return sentiment.NewCachedAnalyzer(analyzer, svc, cfg.Sentiment.CacheTTL, l)
}

// ProvideOrchestrator assembles the per-symbol pipeline.
func ProvideOrchestrator(
	cfg *config.Config,
	market repository.MarketData,
	registry *predictor.Registry,
	newsAgg *news.Aggregator,
	assessor domsvc.SentimentAssessor,
	sink repository.ResultSink,
	publisher repository.ReportPublisher,
	failures repository.FailureQueue,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Orchestrator {
	opts := []usecase.OrchestratorOption{
		usecase.WithResultSink(sink),
		usecase.WithReportPublisher(publisher),
		usecase.WithFailureQueue(failures),
	}
	if cfg.MarketData.Timeout > 0 {
		opts = append(opts, usecase.WithMarketTimeout(cfg.MarketData.Timeout))
	}
	if cfg.MarketData.LookbackDays > 0 {
		opts = append(opts, usecase.WithLookbackDays(cfg.MarketData.LookbackDays))
	}
	return usecase.NewOrchestrator(
		market,
		predictor.NewShortHorizon(registry),
		predictor.NewLongHorizon(registry),
		newsAgg,
		assessor,
		usecase.NewFusion(),
		ratelimit.NewIntervalPacer(cfg.Analysis.Pace),
		m,
		l,
		opts...,
	)
}

// ProvideTriggerHandler registers the scheduler trigger contract.
func ProvideTriggerHandler(orchestrator *usecase.Orchestrator, cfg *config.Config, l *applogger.Logger) *usecase.TriggerHandler {
	return usecase.NewTriggerHandler(
		cfg.Kafka.TriggerTopic,
		orchestrator,
		cfg.Analysis.Symbols,
		usecase.FusionMode(cfg.Analysis.Mode),
		l,
	)
}

// ProvideSignalsHandler creates the HTTP surface. Response caching uses
// Redis when available so replicas share entries, in-process TTL otherwise.
func ProvideSignalsHandler(sink repository.ResultSink, orchestrator *usecase.Orchestrator, redisClient *redis.Client, l *applogger.Logger) *api.SignalsHandler {
	h := api.NewSignalsHandler(l, sink, orchestrator)
	if redisClient != nil {
		h.SetCache(icache.NewRedisCache(redisClient))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	return h
}

// ProvideApp creates the application server. The retry job is registered
// here because it needs the fully built orchestrator.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.SignalsHandler,
	sink repository.ResultSink,
	publisher repository.ReportPublisher,
	consumer *pkgkafka.Consumer,
	producer *pkgkafka.Producer,
	th *usecase.TriggerHandler,
	orchestrator *usecase.Orchestrator,
	retryQueue *pkgqueue.RedisQueue,
	chClient *pkgch.Client,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	if producer != nil && cfg.Kafka.LogsTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      producer,
		})
	}
	if retryQueue != nil {
		retryQueue.RegisterJob(usecase.NewRetryJob(orchestrator, usecase.FusionMode(cfg.Analysis.Mode), l))
	}
	return server.New(cfg, l, handler, sink, publisher, consumer, th, retryQueue, chClient)
}
