//go:build wireinject
// +build wireinject

package di

import (
	"CryptoPulse/pkg/config"
	"CryptoPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideSnapshotStore,
		ProvideDigestPublisher,

		// Source ingestion
		ProvideBuffers,
		ProvideKafkaSocialHandler,
		ProvideOnchainStream,
		ProvideStreamCollector,
		ProvideSourceAdapters,

		// Scoring services
		ProvideClassifier,
		ProvideSmoother,
		ProvideCurator,
		ProvideNormalizer,
		ProvideSynthesizer,

		// Use cases
		ProvidePulseAggregator,
		ProvideDigestSink,

		// HTTP + application server
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
