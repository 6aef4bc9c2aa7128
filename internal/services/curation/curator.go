package curation

import (
	"sort"
	"strings"
	"time"

	"CryptoPulse/internal/domain/models"
	domsvc "CryptoPulse/internal/domain/service"
	"CryptoPulse/internal/services/features"
)

const (
	// DefaultLimit is the size of the curated feed.
	DefaultLimit = 10

	// maxItemAge is how stale a timestamp may be before it is treated as
	// malformed and clamped to now. Upstream sources are untrusted.
	maxItemAge = 7 * 24 * time.Hour

	severityVeryHighBonus = 6
	severityHighBonus     = 4
	severityMediumBonus   = 2
	trustedSourceBonus    = 3
	keyPatternBonus       = 10
)

// DefaultKeyPatterns are known high-signal phrases that must surface
// regardless of age; both good and bad news score the same bonus.
var DefaultKeyPatterns = []string{
	"etf approval", "etf rejected", "halving", "hard fork", "exchange hack",
	"sec lawsuit", "defi exploit", "network outage",
}

// Curator ranks raw items for the top-N feed. Freshness dominates the score;
// declared importance and source trust only nudge it.
type Curator struct {
	trusted     []string
	keyPatterns []string
	limit       int
}

func New(trusted, keyPatterns []string, limit int) *Curator {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(keyPatterns) == 0 {
		keyPatterns = DefaultKeyPatterns
	}
	return &Curator{trusted: trusted, keyPatterns: keyPatterns, limit: limit}
}

type scoredItem struct {
	item  *models.RawItem
	score float64
}

func (c *Curator) Curate(items []*models.RawItem) []*models.RawItem {
	now := time.Now()
	scored := make([]scoredItem, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		scored = append(scored, scoredItem{item: it, score: c.Score(it, now)})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > c.limit {
		scored = scored[:c.limit]
	}

	// Scores are internal; only the items leave this package.
	out := make([]*models.RawItem, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.item)
	}
	return out
}

// Score computes the curation score for one item at the given reference time.
func (c *Curator) Score(it *models.RawItem, now time.Time) float64 {
	ts := ClampTimestamp(it.Timestamp, now)
	score := decayScore(now.Sub(ts).Minutes())

	switch it.Severity {
	case models.SeverityVeryHigh:
		score += severityVeryHighBonus
	case models.SeverityHigh:
		score += severityHighBonus
	case models.SeverityMedium:
		score += severityMediumBonus
	}

	if c.isTrusted(it.SourceName) {
		score += trustedSourceBonus
	}
	if features.ContainsAny(it.Title, c.keyPatterns) || features.ContainsAny(it.Body, c.keyPatterns) {
		score += keyPatternBonus
	}
	return score
}

// ClampTimestamp corrects malformed timestamps: future-dated or older than
// maxItemAge collapse to now before scoring.
func ClampTimestamp(ts time.Time, now time.Time) time.Time {
	if ts.IsZero() || ts.After(now) || ts.Before(now.Add(-maxItemAge)) {
		return now
	}
	return ts
}

// decayScore is the piecewise recency curve. Freshness carries far more
// weight than declared importance: the first 15 minutes span 200..155 points
// while anything past a day is worth at most 5.
func decayScore(ageMinutes float64) float64 {
	switch {
	case ageMinutes < 15:
		return 200 - 3*ageMinutes
	case ageMinutes < 30:
		return 155 - 2*(ageMinutes-15)
	case ageMinutes < 60:
		return 125 - (ageMinutes - 30)
	case ageMinutes < 180:
		return 95 - (ageMinutes-60)/2
	case ageMinutes < 360:
		return 35 - (ageMinutes-180)/12
	case ageMinutes < 720:
		return 20 - (ageMinutes-360)/36
	case ageMinutes < 1440:
		return 10 - (ageMinutes-720)/144
	default:
		s := 5 - (ageMinutes-1440)/1440
		if s < 0 {
			return 0
		}
		return s
	}
}

func (c *Curator) isTrusted(sourceName string) bool {
	lower := strings.ToLower(sourceName)
	for _, t := range c.trusted {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

var _ domsvc.Curator = (*Curator)(nil)
