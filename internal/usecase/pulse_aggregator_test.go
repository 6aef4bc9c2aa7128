package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
	"CryptoPulse/internal/services/curation"
	"CryptoPulse/internal/services/normalize"
	"CryptoPulse/internal/services/sentiment"
	"CryptoPulse/internal/services/synthesis"
	pkgcache "CryptoPulse/pkg/cache"
	applogger "CryptoPulse/pkg/logger"
)

type stubMetrics struct {
	mu        sync.Mutex
	failures  []string
	cacheHits int
	cacheMiss int
}

func (m *stubMetrics) RecordItemsFetched(string, int) {}
func (m *stubMetrics) RecordAdapterFailure(source string) {
	m.mu.Lock()
	m.failures = append(m.failures, source)
	m.mu.Unlock()
}
func (m *stubMetrics) RecordCycleDuration(float64) {}
func (m *stubMetrics) RecordInsightsEmitted(int)   {}
func (m *stubMetrics) RecordCacheLookup(hit bool) {
	m.mu.Lock()
	if hit {
		m.cacheHits++
	} else {
		m.cacheMiss++
	}
	m.mu.Unlock()
}

type stubAdapter struct {
	kind  models.SourceKind
	items []*models.RawItem
	err   error
}

func (a *stubAdapter) Kind() models.SourceKind { return a.kind }
func (a *stubAdapter) Fetch(context.Context) ([]*models.RawItem, error) {
	return a.items, a.err
}

func testAggregator(t *testing.T, adapters []*stubAdapter, cache pkgcache.Service, m *stubMetrics) *PulseAggregator {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	var ads []drepo.SourceAdapter
	for _, a := range adapters {
		ads = append(ads, a)
	}

	agg := NewPulseAggregator(
		ads,
		sentiment.NewLexicalClassifier(sentiment.DefaultPhraseTables),
		sentiment.NewHistorySmoother(sentiment.NewHistoryStore(100)),
		curation.New(nil, nil, 10),
		normalize.New(),
		synthesis.New(),
		cache, 5*time.Minute, 2*time.Second,
		m, l,
	)
	return agg
}

func TestComputeEndToEnd(t *testing.T) {
	agg := testAggregator(t, nil, nil, &stubMetrics{})
	now := time.Now()

	social := make([]*models.RawItem, 0, 3)
	for i := 0; i < 3; i++ {
		social = append(social, &models.RawItem{
			SourceKind: models.SourceSocial,
			SourceName: "twitter",
			Title:      "Layer2 season is on",
			Timestamp:  now.Add(-time.Duration(i) * time.Minute),
			Sentiment:  models.SentimentBullish,
			Mentions: []models.Mention{
				{Kind: models.KindNarrative, Name: "Layer2", Sentiment: models.SentimentBullish},
			},
		})
	}
	news := []*models.RawItem{{
		SourceKind: models.SourceNews,
		SourceName: "coindesk",
		Title:      "Layer2 rollups hit new throughput record",
		Timestamp:  now.Add(-5 * time.Minute),
		Sentiment:  models.SentimentBullish,
		Mentions: []models.Mention{
			{Kind: models.KindNarrative, Name: "layer2", Count: 2, Sentiment: models.SentimentBullish},
		},
	}}

	res := agg.Compute(models.SourceResults{
		models.SourceSocial: social,
		models.SourceNews:   news,
	})

	if len(res.Narratives) != 1 {
		t.Fatalf("expected 1 corroborated narrative, got %d", len(res.Narratives))
	}
	n := res.Narratives[0]
	if n.Key != "layer2" || n.Occurrences != 5 {
		t.Fatalf("unexpected fold: key=%q occ=%d", n.Key, n.Occurrences)
	}
	if n.SourceCount() != 2 {
		t.Fatalf("expected 2 source kinds, got %d", n.SourceCount())
	}
	if n.Overall != models.SentimentBullish {
		t.Fatalf("expected bullish overall, got %s", n.Overall)
	}
	if len(res.Insights) == 0 || res.Insights[0].Conviction != "high" {
		t.Fatalf("expected high-conviction dominant insight, got %+v", res.Insights)
	}
	if res.MarketSentiment != models.MarketBullish {
		t.Fatalf("expected bullish market, got %s", res.MarketSentiment)
	}
	if len(res.CuratedNews) != 1 {
		t.Fatalf("curated feed must hold the news item, got %d", len(res.CuratedNews))
	}
}

func TestComputeEmptyInput(t *testing.T) {
	agg := testAggregator(t, nil, nil, &stubMetrics{})
	res := agg.Compute(models.SourceResults{})

	if res.MarketSentiment != models.MarketNeutral {
		t.Fatalf("empty input must read neutral, got %s", res.MarketSentiment)
	}
	if len(res.Insights) != 0 || len(res.Narratives) != 0 || len(res.CuratedNews) != 0 {
		t.Fatalf("empty input must produce an empty result, got %+v", res)
	}
	if res.GeneratedAt.IsZero() {
		t.Fatalf("result must be stamped")
	}
}

func TestComputeFiltersSingleSourceEntities(t *testing.T) {
	agg := testAggregator(t, nil, nil, &stubMetrics{})
	res := agg.Compute(models.SourceResults{
		models.SourceSocial: {{
			SourceKind: models.SourceSocial,
			Title:      "one-source wonder",
			Sentiment:  models.SentimentBullish,
			Mentions:   []models.Mention{{Kind: models.KindNarrative, Name: "solo", Count: 9}},
		}},
	})
	if len(res.Narratives) != 0 {
		t.Fatalf("single-source narrative must be filtered, got %d", len(res.Narratives))
	}
}

func TestComputeClassifiesUnlabeledItems(t *testing.T) {
	agg := testAggregator(t, nil, nil, &stubMetrics{})
	res := agg.Compute(models.SourceResults{
		models.SourceNews: {{
			SourceKind: models.SourceNews,
			Title:      "Bitcoin surge continues with rally and breakout",
			Timestamp:  time.Now(),
		}},
	})
	if res.MarketSentiment != models.MarketBullish {
		t.Fatalf("classified positive news must fold bullish, got %s", res.MarketSentiment)
	}
}

func TestAggregateAdapterFailureDegradesGracefully(t *testing.T) {
	m := &stubMetrics{}
	adapters := []*stubAdapter{
		{kind: models.SourceSocial, err: errors.New("boom")},
		{kind: models.SourceNews, items: []*models.RawItem{{
			SourceKind: models.SourceNews,
			Title:      "steady markets",
			Timestamp:  time.Now(),
			Sentiment:  models.SentimentNeutral,
		}}},
	}
	agg := testAggregator(t, adapters, pkgcache.NewMemoryCache(), m)

	res := agg.Aggregate(context.Background(), true)
	if res == nil {
		t.Fatalf("aggregate must always return a result")
	}
	if len(res.CuratedNews) != 1 {
		t.Fatalf("healthy source must still contribute, got %d", len(res.CuratedNews))
	}
	if len(m.failures) != 1 || m.failures[0] != "social" {
		t.Fatalf("failed adapter must be recorded, got %v", m.failures)
	}
}

func TestAggregateServesCachedResult(t *testing.T) {
	m := &stubMetrics{}
	adapters := []*stubAdapter{
		{kind: models.SourceNews, items: []*models.RawItem{{
			SourceKind: models.SourceNews,
			Title:      "cache me",
			Timestamp:  time.Now(),
			Sentiment:  models.SentimentNeutral,
		}}},
	}
	agg := testAggregator(t, adapters, pkgcache.NewMemoryCache(), m)

	first := agg.Aggregate(context.Background(), false)
	second := agg.Aggregate(context.Background(), false)
	if m.cacheHits != 1 {
		t.Fatalf("second call must hit the cache, hits=%d", m.cacheHits)
	}
	if first.GeneratedAt.Unix() != second.GeneratedAt.Unix() {
		t.Fatalf("cached result must not be recomputed")
	}

	agg.Invalidate(context.Background())
	agg.Aggregate(context.Background(), false)
	if m.cacheMiss < 2 {
		t.Fatalf("invalidation must force a recompute, misses=%d", m.cacheMiss)
	}
}

func TestFoldMarketSentimentWeights(t *testing.T) {
	results := models.SourceResults{
		// 1 social bullish vote = weight 3
		models.SourceSocial: {{Sentiment: models.SentimentBullish}},
		// 2 news negative votes = weight 2
		models.SourceNews: {
			{Sentiment: models.SentimentNegative},
			{Sentiment: models.SentimentNegative},
		},
	}
	if got := FoldMarketSentiment(results); got != models.MarketBullish {
		t.Fatalf("weighted social vote must win, got %s", got)
	}
}

func TestFoldMarketSentimentEmpty(t *testing.T) {
	if got := FoldMarketSentiment(models.SourceResults{}); got != models.MarketNeutral {
		t.Fatalf("empty fold must read neutral, got %s", got)
	}
	unlabeled := models.SourceResults{
		models.SourceNews: {{Title: "no label"}},
	}
	if got := FoldMarketSentiment(unlabeled); got != models.MarketNeutral {
		t.Fatalf("unlabeled items must not vote, got %s", got)
	}
}

func TestFlattenChronological(t *testing.T) {
	now := time.Now()
	results := models.SourceResults{
		models.SourceNews: {
			{Title: "old", Timestamp: now.Add(-2 * time.Hour)},
			{Title: "new", Timestamp: now},
		},
		models.SourceSocial: {
			{Title: "middle", Timestamp: now.Add(-time.Hour)},
		},
	}
	all := flattenChronological(results)
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	if all[0].Title != "old" || all[1].Title != "middle" || all[2].Title != "new" {
		t.Fatalf("items must be oldest first, got %q %q %q", all[0].Title, all[1].Title, all[2].Title)
	}
}
