//go:build wireinject
// +build wireinject

package di

import (
	"SignalPulse/pkg/config"
	"SignalPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisClient,
		ProvideRetryQueue,

		// Repositories
		ProvideResultSink,
		ProvideReportPublisher,
		ProvideFailureQueue,
		ProvideMarketData,
		ProvideModelRegistry,

		// Services
		ProvideNewsAggregator,
		ProvideSentimentAssessor,

		// Use cases
		ProvideOrchestrator,
		ProvideTriggerHandler,

		// HTTP surface and application server
		ProvideSignalsHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
