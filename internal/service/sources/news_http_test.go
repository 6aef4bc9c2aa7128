package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CryptoPulse/internal/domain/models"
)

const newsFeedFixture = `{
  "articles": [
    {
      "title": "Layer2 rollups hit new record",
      "summary": "Throughput milestone",
      "source": "coindesk",
      "published_at": "2026-08-30T10:00:00Z",
      "severity": "high",
      "categories": [{"name": "Layer2", "count": 2, "trend": "up"}],
      "tickers": [{"symbol": "OP", "sentiment": "bullish"}]
    }
  ]
}`

func TestNewsAdapterFetch(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(newsFeedFixture))
	}))
	defer srv.Close()

	a := NewNewsAdapter(srv.URL, "test-key", 5*time.Second)
	items, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header not sent, got %q", gotKey)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	it := items[0]
	if it.SourceKind != models.SourceNews || it.SourceName != "coindesk" {
		t.Fatalf("unexpected source: %s/%s", it.SourceKind, it.SourceName)
	}
	if it.Severity != models.SeverityHigh {
		t.Fatalf("unexpected severity %s", it.Severity)
	}
	if it.Timestamp.UTC().Format(time.RFC3339) != "2026-08-30T10:00:00Z" {
		t.Fatalf("unexpected timestamp %v", it.Timestamp)
	}
	if len(it.Mentions) != 2 {
		t.Fatalf("expected category + ticker mentions, got %d", len(it.Mentions))
	}
	if it.Mentions[0].Kind != models.KindNarrative || it.Mentions[0].Count != 2 || it.Mentions[0].Trend != "up" {
		t.Fatalf("unexpected narrative mention: %+v", it.Mentions[0])
	}
	if it.Mentions[1].Kind != models.KindToken || it.Mentions[1].Sentiment != models.SentimentBullish {
		t.Fatalf("unexpected token mention: %+v", it.Mentions[1])
	}
}

func TestNewsAdapterFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewNewsAdapter(srv.URL, "", 5*time.Second)
	if _, err := a.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}

func TestVideoAdapterFetch(t *testing.T) {
	fixture := `{
  "analyses": [
    {
      "title": "Alt season incoming?",
      "channel": "cryptodaily",
      "sentiment": "bullish",
      "narratives": ["Layer2"],
      "tokens": ["ARB"],
      "opportunities": [{"type": "long", "description": "L2 basket", "timeframe": "2w", "conviction": "high"}]
    }
  ]
}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixture))
	}))
	defer srv.Close()

	a := NewVideoAdapter(srv.URL, 5*time.Second)
	items, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	it := items[0]
	if it.Sentiment != models.SentimentBullish {
		t.Fatalf("declared sentiment must carry over, got %s", it.Sentiment)
	}
	if len(it.Opportunities) != 1 || it.Opportunities[0].Type != "long" {
		t.Fatalf("opportunities must be extracted: %+v", it.Opportunities)
	}
	if len(it.Mentions) != 2 {
		t.Fatalf("expected narrative + token mentions, got %d", len(it.Mentions))
	}
}

func TestEntryToItemTimestamps(t *testing.T) {
	it := entryToItem(ocEntry{Title: "whale move", T: 1700000000000})
	if it.Timestamp.Unix() != 1700000000 {
		t.Fatalf("millisecond timestamp must collapse to seconds, got %d", it.Timestamp.Unix())
	}

	before := time.Now().Add(-time.Second)
	it = entryToItem(ocEntry{Title: "no ts"})
	if it.Timestamp.Before(before) {
		t.Fatalf("missing timestamp must default to now")
	}
}
