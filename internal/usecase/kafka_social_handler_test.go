package usecase

import (
	"context"
	"testing"
	"time"

	"CryptoPulse/internal/domain/models"
	"CryptoPulse/internal/service/sources"
)

func TestKafkaSocialHandlerBuffersItem(t *testing.T) {
	buf := sources.NewItemBuffer(10)
	h := NewKafkaSocialHandler("social.posts.raw", buf, &stubMetrics{})

	msg := []byte(`{"platform":"twitter","author":"anon","text":"Layer2 season","t":1700000000,"sentiment":"bullish","narratives":["Layer2"],"tokens":["OP"]}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	items := buf.Drain()
	if len(items) != 1 {
		t.Fatalf("expected 1 buffered item, got %d", len(items))
	}
	it := items[0]
	if it.SourceKind != models.SourceSocial || it.SourceName != "twitter" {
		t.Fatalf("unexpected item source: %s/%s", it.SourceKind, it.SourceName)
	}
	if it.Sentiment != models.SentimentBullish {
		t.Fatalf("declared sentiment must carry over, got %s", it.Sentiment)
	}
	if it.Timestamp.Unix() != 1700000000 {
		t.Fatalf("unexpected timestamp %d", it.Timestamp.Unix())
	}
	if len(it.Mentions) != 2 {
		t.Fatalf("expected narrative + token mentions, got %d", len(it.Mentions))
	}
	if it.Mentions[0].Kind != models.KindNarrative || it.Mentions[0].Sentiment != models.SentimentBullish {
		t.Fatalf("narrative mention must inherit the post sentiment: %+v", it.Mentions[0])
	}
	if it.Mentions[1].Kind != models.KindToken || it.Mentions[1].Name != "OP" {
		t.Fatalf("unexpected token mention: %+v", it.Mentions[1])
	}
}

func TestKafkaSocialHandlerMillisecondTimestamps(t *testing.T) {
	buf := sources.NewItemBuffer(10)
	h := NewKafkaSocialHandler("social.posts.raw", buf, &stubMetrics{})

	msg := []byte(`{"platform":"reddit","text":"gm","t":1700000000000}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	it := buf.Drain()[0]
	if it.Timestamp.Unix() != 1700000000 {
		t.Fatalf("millisecond timestamp must collapse to seconds, got %d", it.Timestamp.Unix())
	}
}

func TestKafkaSocialHandlerZeroTimestamp(t *testing.T) {
	buf := sources.NewItemBuffer(10)
	h := NewKafkaSocialHandler("social.posts.raw", buf, &stubMetrics{})

	before := time.Now().Add(-time.Second)
	if err := h.Handle(context.Background(), []byte(`{"platform":"reddit","text":"gm"}`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	it := buf.Drain()[0]
	if it.Timestamp.Before(before) {
		t.Fatalf("missing timestamp must default to now")
	}
}

func TestKafkaSocialHandlerRejectsBadJSON(t *testing.T) {
	buf := sources.NewItemBuffer(10)
	m := &stubMetrics{}
	h := NewKafkaSocialHandler("social.posts.raw", buf, m)

	if err := h.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if buf.Len() != 0 {
		t.Fatalf("bad message must not be buffered")
	}
	if len(m.failures) != 1 {
		t.Fatalf("failure must be recorded, got %v", m.failures)
	}
}
