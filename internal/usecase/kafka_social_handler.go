package usecase

import (
	"context"
	"encoding/json"
	"time"

	"CryptoPulse/internal/domain/models"
	domrepo "CryptoPulse/internal/domain/repository"
	"CryptoPulse/internal/service/sources"
	pkgkafka "CryptoPulse/pkg/kafka"
)

// KafkaSocialHandler consumes social firehose messages and buffers them for
// the next aggregation cycle.
type KafkaSocialHandler struct {
	topic   string
	buf     *sources.ItemBuffer
	metrics domrepo.Metrics
}

func NewKafkaSocialHandler(topic string, buf *sources.ItemBuffer, metrics domrepo.Metrics) *KafkaSocialHandler {
	return &KafkaSocialHandler{topic: topic, buf: buf, metrics: metrics}
}

func (h *KafkaSocialHandler) Topic() string { return h.topic }

// incoming message schema: {platform, author, text, t, sentiment, narratives, tokens}
func (h *KafkaSocialHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Platform   string   `json:"platform"`
		Author     string   `json:"author"`
		Text       string   `json:"text"`
		T          int64    `json:"t"`
		Sentiment  string   `json:"sentiment"`
		Narratives []string `json:"narratives"`
		Tokens     []string `json:"tokens"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordAdapterFailure("social_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	ts := time.Now()
	if m.T > 0 {
		ts = time.Unix(m.T, 0)
	}

	it := &models.RawItem{
		SourceKind: models.SourceSocial,
		SourceName: m.Platform,
		Title:      m.Text,
		Timestamp:  ts,
		Sentiment:  models.SentimentLabel(m.Sentiment),
	}
	for _, n := range m.Narratives {
		it.Mentions = append(it.Mentions, models.Mention{Kind: models.KindNarrative, Name: n, Sentiment: it.Sentiment})
	}
	for _, t := range m.Tokens {
		it.Mentions = append(it.Mentions, models.Mention{Kind: models.KindToken, Name: t, Sentiment: it.Sentiment})
	}

	h.buf.Add(it)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSocialHandler)(nil)
