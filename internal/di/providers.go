package di

import (
	"context"
	"fmt"
	"time"

	"CryptoPulse/internal/domain/repository"
	domsvc "CryptoPulse/internal/domain/service"
	"CryptoPulse/internal/handler/api"
	mid "CryptoPulse/internal/middleware"
	internalrepo "CryptoPulse/internal/repository"
	"CryptoPulse/internal/service/sources"
	"CryptoPulse/internal/services/curation"
	"CryptoPulse/internal/services/normalize"
	"CryptoPulse/internal/services/sentiment"
	"CryptoPulse/internal/services/synthesis"
	"CryptoPulse/internal/usecase"
	pkgcache "CryptoPulse/pkg/cache"
	pkgch "CryptoPulse/pkg/clickhouse"
	"CryptoPulse/pkg/config"
	pkgkafka "CryptoPulse/pkg/kafka"
	applogger "CryptoPulse/pkg/logger"
	"CryptoPulse/pkg/metrics"
	"CryptoPulse/pkg/server"
)

// Buffers holds the per-source item buffers that decouple push-based inputs
// (Kafka, WebSocket) from the pull-based aggregation cycle.
type Buffers struct {
	Social  *sources.ItemBuffer
	Onchain *sources.ItemBuffer
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the pulse result cache. Redis-backed with an in-memory
// front when enabled, pure in-memory otherwise.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideClickHouseClient creates a ClickHouse client when snapshot storage
// is enabled; nil otherwise.
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

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".pulse_snapshots (ts DateTime, market_sentiment String, narrative_count UInt32, token_count UInt32, insight_count UInt32, curated_count UInt32, top_narrative String, insights String) ENGINE=MergeTree ORDER BY ts",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideSnapshotStore creates ClickHouse snapshot storage when available.
func ProvideSnapshotStore(chClient *pkgch.Client, cfg *config.Config) repository.SnapshotStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseSnapshotStore(chClient.DB(), cfg.ClickHouse.Database+".pulse_snapshots")
}

// ProvideKafkaProducer creates the digest producer when brokers are configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.DigestTopic == "" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideDigestPublisher creates the Kafka digest publisher.
func ProvideDigestPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaDigestPublisher(producer, cfg.Kafka.DigestTopic)
}

// ProvideKafkaConsumer creates the social firehose consumer when configured.
// Messages that exhaust handler retries count as adapter failures.
func ProvideKafkaConsumer(cfg *config.Config, m repository.Metrics) (*pkgkafka.Consumer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.SocialTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.FailureHook{OnFailure: func(topic string) {
		m.RecordAdapterFailure("kafka:" + topic)
	}})
	return consumer, nil
}

// ProvideBuffers creates the social and on-chain item buffers.
func ProvideBuffers(cfg *config.Config) *Buffers {
	return &Buffers{
		Social:  sources.NewItemBuffer(cfg.Sources.Onchain.BufferSize),
		Onchain: sources.NewItemBuffer(cfg.Sources.Onchain.BufferSize),
	}
}

// ProvideKafkaSocialHandler registers the handler for the social topic.
func ProvideKafkaSocialHandler(bufs *Buffers, m repository.Metrics, cfg *config.Config) *usecase.KafkaSocialHandler {
	return usecase.NewKafkaSocialHandler(cfg.Kafka.SocialTopic, bufs.Social, m)
}

// ProvideOnchainStream creates the on-chain commentary WebSocket stream.
func ProvideOnchainStream(cfg *config.Config) repository.CommentaryStream {
	if cfg.Sources.Onchain.WebSocketURL == "" {
		return nil
	}
	return sources.NewOnchainStream(
		cfg.Sources.Onchain.WebSocketURL,
		cfg.Sources.Onchain.Channels,
		cfg.Sources.Onchain.ReconnectDelay,
		cfg.Sources.Onchain.PingInterval,
	)
}

// ProvideStreamCollector creates the on-chain stream collector with the
// throttling pipeline in front of the cycle buffer.
func ProvideStreamCollector(
	stream repository.CommentaryStream,
	bufs *Buffers,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.StreamCollector {
	if stream == nil {
		return nil
	}
	sink := usecase.NewBufferSink(bufs.Onchain)
	pipe := mid.NewStreamPipeline(sink, m,
		mid.WithMaxRPS(cfg.Sources.Onchain.MaxPerSec),
		mid.WithBufferSize(cfg.Sources.Onchain.BufferSize),
	)
	return usecase.NewStreamCollector(stream, sink, m, pipe)
}

// ProvideClassifier creates the configured sentiment engine.
func ProvideClassifier(cfg *config.Config) domsvc.Classifier {
	if cfg.Sentiment.Engine == "vader" {
		return sentiment.NewVaderClassifier()
	}
	return sentiment.NewLexicalClassifier(sentiment.PhraseTables{
		Positive: cfg.Sentiment.Positive,
		Negative: cfg.Sentiment.Negative,
		Neutral:  cfg.Sentiment.Neutral,
	})
}

// ProvideSmoother creates the history-backed smoother.
func ProvideSmoother(cfg *config.Config) domsvc.Smoother {
	return sentiment.NewHistorySmoother(sentiment.NewHistoryStore(cfg.Pipeline.HistoryCapacity))
}

// ProvideCurator creates the news curator.
func ProvideCurator(cfg *config.Config) domsvc.Curator {
	return curation.New(cfg.Pipeline.TrustedSources, cfg.Sentiment.KeyPatterns, cfg.Pipeline.CuratedLimit)
}

// ProvideNormalizer creates the entity normalizer.
func ProvideNormalizer() domsvc.Normalizer {
	return normalize.New()
}

// ProvideSynthesizer creates the cross-source synthesizer.
func ProvideSynthesizer() domsvc.Synthesizer {
	return synthesis.New()
}

// ProvideSourceAdapters assembles the fan-out adapter set. HTTP sources need
// a URL; buffered sources are always present so stream items drain each cycle.
func ProvideSourceAdapters(cfg *config.Config, bufs *Buffers) []repository.SourceAdapter {
	var adapters []repository.SourceAdapter
	if cfg.Sources.News.URL != "" {
		adapters = append(adapters, sources.NewNewsAdapter(cfg.Sources.News.URL, cfg.Sources.News.APIKey, cfg.Sources.News.Timeout))
	}
	if cfg.Sources.Video.URL != "" {
		adapters = append(adapters, sources.NewVideoAdapter(cfg.Sources.Video.URL, cfg.Sources.Video.Timeout))
	}
	adapters = append(adapters, sources.NewSocialAdapter(bufs.Social))
	adapters = append(adapters, sources.NewOnchainAdapter(bufs.Onchain))
	return adapters
}

// ProvidePulseAggregator creates the aggregation use case.
func ProvidePulseAggregator(
	adapters []repository.SourceAdapter,
	classifier domsvc.Classifier,
	smoother domsvc.Smoother,
	curator domsvc.Curator,
	normalizer domsvc.Normalizer,
	synth domsvc.Synthesizer,
	cache pkgcache.Service,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.PulseAggregator {
	return usecase.NewPulseAggregator(
		adapters, classifier, smoother, curator, normalizer, synth,
		cache, cfg.Pipeline.CacheTTL, cfg.Pipeline.FetchTimeout,
		m, logger,
	)
}

// ProvideDigestSink creates the digest/snapshot fan-out.
func ProvideDigestSink(pub repository.Publisher, store repository.SnapshotStore, logger *applogger.Logger) *usecase.DigestSink {
	if pub == nil && store == nil {
		return nil
	}
	return usecase.NewDigestSink(pub, store, logger)
}

// ProvideHTTPHandler creates the Echo pulse handler.
func ProvideHTTPHandler(logger *applogger.Logger, agg *usecase.PulseAggregator, cfg *config.Config) *api.PulseEchoHandler {
	return api.NewPulseEchoHandler(logger, agg, cfg.Pipeline.RefreshRPS)
}

// producerPublisher adapts the Kafka producer to the log collector's
// Publisher port.
type producerPublisher struct {
	producer *pkgkafka.Producer
}

func (p producerPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	producer *pkgkafka.Producer,
	collector *usecase.StreamCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSocialHandler,
	chClient *pkgch.Client,
	handler *api.PulseEchoHandler,
	agg *usecase.PulseAggregator,
	sink *usecase.DigestSink,
) *server.App {
	if producer != nil && cfg.Kafka.LogsTopic != "" {
		logger.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      producerPublisher{producer: producer},
		})
	}
	if sink != nil {
		agg.SetSink(sink)
	}
	app := server.New(cfg, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	app.Sink = sink
	return app
}
