package sentiment

import (
	"fmt"
	"testing"
	"time"

	"CryptoPulse/internal/domain/models"
)

func TestSmoothNoHistoryKeepsLabel(t *testing.T) {
	s := NewHistorySmoother(NewHistoryStore(10))
	got := s.Smooth("Bitcoin exchange listing announcement today", models.SentimentPositive, "feedA")
	if got != models.SentimentPositive {
		t.Fatalf("expected positive, got %s", got)
	}
	if s.Store().Len() != 1 {
		t.Fatalf("expected record appended, len=%d", s.Store().Len())
	}
}

func TestSmoothBlendsSimilarHistory(t *testing.T) {
	store := NewHistoryStore(10)
	// A strongly negative neighbor sharing the meaningful title tokens.
	store.Append(models.SentimentHistoryRecord{
		Title:     "Bitcoin exchange listing announcement confirmed",
		Timestamp: time.Now(),
		Label:     models.SentimentNegative,
		Score:     -1,
	})

	s := NewHistorySmoother(store)
	got := s.Smooth("Bitcoin exchange listing announcement today", models.SentimentPositive, "feedA")

	// 0.7*1 + 0.3*(-1) = 0.4: pulled off positive but not flipped.
	if got != models.SentimentMixed {
		t.Fatalf("expected mixed after blending, got %s", got)
	}

	recs := store.Records()
	last := recs[len(recs)-1]
	if last.Label != models.SentimentMixed {
		t.Fatalf("appended record must carry the post-blend label, got %s", last.Label)
	}
	if last.Score < 0.39 || last.Score > 0.41 {
		t.Fatalf("expected blended score 0.4, got %f", last.Score)
	}
}

func TestSmoothIgnoresDissimilarHistory(t *testing.T) {
	store := NewHistoryStore(10)
	store.Append(models.SentimentHistoryRecord{
		Title: "Completely unrelated protocol governance drama",
		Score: -1,
		Label: models.SentimentNegative,
	})

	s := NewHistorySmoother(store)
	got := s.Smooth("Bitcoin exchange listing announcement today", models.SentimentPositive, "feedA")
	if got != models.SentimentPositive {
		t.Fatalf("dissimilar history must not affect the label, got %s", got)
	}
}

func TestHistoryStoreEvictsOldest(t *testing.T) {
	store := NewHistoryStore(5)
	for i := 0; i < 7; i++ {
		store.Append(models.SentimentHistoryRecord{Title: fmt.Sprintf("item %d", i)})
	}
	if store.Len() != 5 {
		t.Fatalf("expected capacity 5, got %d", store.Len())
	}
	recs := store.Records()
	if recs[0].Title != "item 2" {
		t.Fatalf("expected oldest two evicted, first is %q", recs[0].Title)
	}
	if recs[4].Title != "item 6" {
		t.Fatalf("expected newest retained, last is %q", recs[4].Title)
	}
}

func TestBucketScore(t *testing.T) {
	cases := []struct {
		score float64
		want  models.SentimentLabel
	}{
		{1, models.SentimentPositive},
		{0.6, models.SentimentPositive},
		{0.4, models.SentimentMixed},
		{0.19, models.SentimentNeutral},
		{0, models.SentimentNeutral},
		{-0.19, models.SentimentNeutral},
		{-0.4, models.SentimentMixed},
		{-0.6, models.SentimentNegative},
		{-1, models.SentimentNegative},
	}
	for _, tc := range cases {
		if got := bucketScore(tc.score); got != tc.want {
			t.Fatalf("bucketScore(%f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
