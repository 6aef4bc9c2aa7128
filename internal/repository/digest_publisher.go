package repository

import (
	"context"

	"CryptoPulse/internal/domain/models"
	"CryptoPulse/internal/domain/repository"
	pkgkafka "CryptoPulse/pkg/kafka"
)

// KafkaDigestPublisher implements Publisher for Kafka. Digest messages carry
// the folded outputs only, keyed by market sentiment so partitioning groups
// similar cycles.
type KafkaDigestPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaDigestPublisher creates Kafka digest publisher.
func NewKafkaDigestPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaDigestPublisher{producer: producer, topic: topic}
}

func (p *KafkaDigestPublisher) PublishDigest(ctx context.Context, res *models.PulseResult) error {
	return p.producer.Publish(ctx, p.topic, []byte(res.MarketSentiment), map[string]interface{}{
		"generated_at":     res.GeneratedAt.Unix(),
		"market_sentiment": res.MarketSentiment,
		"narratives":       len(res.Narratives),
		"tokens":           len(res.Tokens),
		"insights":         res.Insights,
	})
}

func (p *KafkaDigestPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
