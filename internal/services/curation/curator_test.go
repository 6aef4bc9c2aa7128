package curation

import (
	"fmt"
	"testing"
	"time"

	"CryptoPulse/internal/domain/models"
)

func TestRecencyDominatesSeverity(t *testing.T) {
	c := New(nil, nil, 10)
	now := time.Now()

	fresh := &models.RawItem{Title: "minor update", Timestamp: now.Add(-10 * time.Minute)}
	important := &models.RawItem{
		Title:     "major incident",
		Timestamp: now.Add(-20 * time.Hour),
		Severity:  models.SeverityVeryHigh,
	}

	freshScore := c.Score(fresh, now)
	importantScore := c.Score(important, now)
	if freshScore-importantScore < 150 {
		t.Fatalf("fresh low-severity item must outscore stale important one by >150, got %f vs %f",
			freshScore, importantScore)
	}
}

func TestDecayMonotonic(t *testing.T) {
	ages := []float64{0, 10, 14, 16, 29, 31, 59, 61, 179, 181, 359, 361, 719, 721, 1439, 1441, 5000}
	prev := decayScore(ages[0])
	for _, a := range ages[1:] {
		cur := decayScore(a)
		if cur > prev {
			t.Fatalf("decay not monotonic: score(%f)=%f > score(prev)=%f", a, cur, prev)
		}
		prev = cur
	}
	if decayScore(10000) != 0 {
		t.Fatalf("very old items must floor at 0, got %f", decayScore(10000))
	}
}

func TestClampTimestamp(t *testing.T) {
	now := time.Now()

	if got := ClampTimestamp(now.Add(2*time.Hour), now); !got.Equal(now) {
		t.Fatalf("future timestamp must clamp to now")
	}
	if got := ClampTimestamp(now.Add(-8*24*time.Hour), now); !got.Equal(now) {
		t.Fatalf("ancient timestamp must clamp to now")
	}
	if got := ClampTimestamp(time.Time{}, now); !got.Equal(now) {
		t.Fatalf("zero timestamp must clamp to now")
	}
	valid := now.Add(-time.Hour)
	if got := ClampTimestamp(valid, now); !got.Equal(valid) {
		t.Fatalf("valid timestamp must pass through")
	}
}

func TestSeverityAndTrustBonuses(t *testing.T) {
	c := New([]string{"coindesk"}, nil, 10)
	now := time.Now()
	base := &models.RawItem{Title: "plain item", Timestamp: now}

	plain := c.Score(base, now)

	sev := *base
	sev.Severity = models.SeverityVeryHigh
	if got := c.Score(&sev, now); got != plain+6 {
		t.Fatalf("expected +6 for very-high severity, got %f vs %f", got, plain)
	}

	trusted := *base
	trusted.SourceName = "CoinDesk Markets"
	if got := c.Score(&trusted, now); got != plain+3 {
		t.Fatalf("expected +3 for trusted source, got %f vs %f", got, plain)
	}
}

func TestKeyPatternBonus(t *testing.T) {
	c := New(nil, nil, 10)
	now := time.Now()

	hit := &models.RawItem{Title: "SEC lawsuit targets major exchange", Timestamp: now}
	miss := &models.RawItem{Title: "quiet trading session", Timestamp: now}
	if c.Score(hit, now)-c.Score(miss, now) != 10 {
		t.Fatalf("expected +10 key pattern bonus")
	}

	bodyHit := &models.RawItem{Title: "quiet session", Body: "rumors of a defi exploit spread", Timestamp: now}
	if c.Score(bodyHit, now)-c.Score(miss, now) != 10 {
		t.Fatalf("key pattern must also match the body")
	}
}

func TestCurateTruncatesAndOrders(t *testing.T) {
	c := New(nil, nil, 10)
	now := time.Now()

	var items []*models.RawItem
	for i := 0; i < 15; i++ {
		items = append(items, &models.RawItem{
			Title:     fmt.Sprintf("item %d", i),
			Timestamp: now.Add(-time.Duration(i) * 30 * time.Minute),
		})
	}

	out := c.Curate(items)
	if len(out) != 10 {
		t.Fatalf("expected 10 curated items, got %d", len(out))
	}
	if out[0].Title != "item 0" {
		t.Fatalf("freshest item must rank first, got %q", out[0].Title)
	}
	for _, it := range out {
		if it.Title == "item 14" {
			t.Fatalf("stalest items must be cut")
		}
	}
}

func TestCurateSkipsNil(t *testing.T) {
	c := New(nil, nil, 10)
	out := c.Curate([]*models.RawItem{nil, {Title: "real", Timestamp: time.Now()}, nil})
	if len(out) != 1 || out[0].Title != "real" {
		t.Fatalf("nil items must be dropped, got %d", len(out))
	}
}
